package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/pkg/core/model"
	"github.com/misterkoko92/asf-benev/pkg/db"
)

// ImportOptions controls how roster rows are applied.
type ImportOptions struct {
	Update bool // overwrite volunteers that already exist
	DryRun bool // run the whole import then roll it back
}

// ImportResult summarises one roster import.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
}

// ImportVolunteers applies roster rows to the volunteer store. The whole
// import runs in one transaction so a failing row leaves nothing behind,
// and dry runs roll the transaction back after doing all the work.
//
// Rows are matched by volunteer number first, then by email. An existing
// volunteer is only touched with Update set. Rows missing their number or
// email are counted as skipped.
func ImportVolunteers(
	ctx context.Context,
	store db.VolunteerStore,
	logger *zap.Logger,
	rows []model.RosterRow,
	opts ImportOptions,
) (*ImportResult, error) {
	logger.Info("Starting volunteer import",
		zap.Int("rows", len(rows)),
		zap.Bool("update", opts.Update),
		zap.Bool("dry_run", opts.DryRun))

	result := &ImportResult{}
	err := store.WithinRosterTx(ctx, opts.DryRun, func(tx db.RosterTx) error {
		for _, row := range rows {
			if !row.Importable() {
				result.Skipped++
				continue
			}

			profile, err := tx.VolunteerByNumber(ctx, row.VolunteerID)
			if err != nil && !errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("failed to look up volunteer %d: %w", row.VolunteerID, err)
			}

			if profile != nil && !opts.Update {
				result.Skipped++
				continue
			}

			existing := profile != nil
			if profile == nil {
				profile, err = tx.VolunteerByEmail(ctx, row.Email)
				if err != nil && !errors.Is(err, db.ErrNotFound) {
					return fmt.Errorf("failed to look up email %s: %w", row.Email, err)
				}
			}

			if profile == nil {
				profile = &db.VolunteerProfile{}
			}
			applyRosterRow(profile, row)

			if profile.ID == "" {
				if err := tx.InsertVolunteer(ctx, profile); err != nil {
					return fmt.Errorf("failed to insert volunteer %d: %w", row.VolunteerID, err)
				}
			} else if err := tx.UpdateVolunteer(ctx, profile); err != nil {
				return fmt.Errorf("failed to update volunteer %d: %w", row.VolunteerID, err)
			}

			constraint := &db.VolunteerConstraint{
				VolunteerID:           profile.ID,
				MaxDaysPerWeek:        row.MaxDaysPerWeek,
				MaxExpeditionsPerWeek: row.MaxExpeditionsPerWeek,
				MaxExpeditionsPerDay:  row.MaxExpeditionsPerDay,
				MaxWaitHours:          row.MaxWaitHours,
			}
			if err := tx.UpsertConstraint(ctx, constraint); err != nil {
				return fmt.Errorf("failed to upsert constraints for volunteer %d: %w", row.VolunteerID, err)
			}

			if existing {
				result.Updated++
			} else {
				result.Created++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Volunteer import finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// applyRosterRow copies row values onto the profile, keeping existing
// names when the row leaves them blank.
func applyRosterRow(profile *db.VolunteerProfile, row model.RosterRow) {
	profile.VolunteerID = row.VolunteerID
	profile.Email = row.Email
	if row.FirstName != "" {
		profile.FirstName = row.FirstName
	}
	if row.LastName != "" {
		profile.LastName = row.LastName
	}
	profile.ShortName = row.ShortName
	if profile.ShortName == "" {
		profile.ShortName = model.ShortName(profile.FirstName)
	}
	profile.Phone = row.Phone
}

// LoadRosterCSV reads roster rows from a CSV file. The header row is
// matched by normalized column name, extra columns are ignored.
func LoadRosterCSV(path string) ([]model.RosterRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no roster rows in %s", path)
	}

	// exports from Excel start with a BOM
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	headers := model.IndexHeaders(records[0])
	if len(headers) == 0 {
		return nil, fmt.Errorf("no recognizable header row in %s", path)
	}

	rows := make([]model.RosterRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := model.RosterRowFromRecord(headers, func(index int) string {
			if index >= len(record) {
				return ""
			}
			return record[index]
		})
		if row == (model.RosterRow{}) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
