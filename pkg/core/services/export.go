package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/misterkoko92/asf-benev/pkg/core/schedule"
	"github.com/misterkoko92/asf-benev/pkg/db"
)

// ExportStore is the read surface the CSV exports need.
type ExportStore interface {
	ListVolunteers(ctx context.Context) ([]db.VolunteerProfile, error)
	ListConstraints(ctx context.Context) (map[string]db.VolunteerConstraint, error)
	WindowsInRange(ctx context.Context, start, end time.Time) ([]db.AvailabilityWindow, error)
}

var volunteersCSVHeader = []string{
	"volunteer_id",
	"first_name",
	"last_name",
	"short_name",
	"email",
	"phone",
	"max_days_per_week",
	"max_expeditions_per_week",
	"max_expeditions_per_day",
	"max_wait_hours",
}

// WriteVolunteersCSV writes every volunteer with their constraints, one
// line per volunteer in surname order. Absent constraints export as empty
// cells.
func WriteVolunteersCSV(ctx context.Context, store ExportStore, w io.Writer) error {
	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch volunteers: %w", err)
	}
	constraints, err := store.ListConstraints(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch constraints: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(volunteersCSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, volunteer := range volunteers {
		constraint := constraints[volunteer.ID]
		record := []string{
			strconv.Itoa(volunteer.VolunteerID),
			volunteer.FirstName,
			volunteer.LastName,
			volunteer.ShortName,
			volunteer.Email,
			volunteer.Phone,
			optIntCell(constraint.MaxDaysPerWeek),
			optIntCell(constraint.MaxExpeditionsPerWeek),
			optIntCell(constraint.MaxExpeditionsPerDay),
			optIntCell(constraint.MaxWaitHours),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteAvailabilitiesCSV writes every availability window between start and
// end, keyed by public volunteer number with HH:MM times.
func WriteAvailabilitiesCSV(ctx context.Context, store ExportStore, w io.Writer, start, end time.Time) error {
	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch volunteers: %w", err)
	}
	numberByID := make(map[string]int, len(volunteers))
	for _, volunteer := range volunteers {
		numberByID[volunteer.ID] = volunteer.VolunteerID
	}

	windows, err := store.WindowsInRange(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch windows: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"volunteer_id", "date", "start_time", "end_time"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, window := range windows {
		record := []string{
			strconv.Itoa(numberByID[window.VolunteerID]),
			window.Day.Format("2006-01-02"),
			schedule.TimeOfDay(window.StartMinute).String(),
			schedule.TimeOfDay(window.EndMinute).String(),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func optIntCell(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
