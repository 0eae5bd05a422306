package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/misterkoko92/asf-benev/pkg/db"
)

var _ db.VolunteerStore = (*DB)(nil)

const profileColumns = `id, volunteer_id, first_name, last_name, short_name, email, phone,
	address_line1, postal_code, city, country, created_at, updated_at`

// ListVolunteers returns every profile in the stable planning order:
// surname, then first name.
func (d *DB) ListVolunteers(ctx context.Context) ([]db.VolunteerProfile, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+profileColumns+`
		FROM volunteer_profile
		ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteers: %w", err)
	}
	defer rows.Close()

	var profiles []db.VolunteerProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteers: %w", err)
	}
	return profiles, nil
}

// GetVolunteerByNumber looks a profile up by its public volunteer number.
func (d *DB) GetVolunteerByNumber(ctx context.Context, volunteerID int) (*db.VolunteerProfile, error) {
	row := d.pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM volunteer_profile
		WHERE volunteer_id = $1
	`, volunteerID)
	return scanProfile(row)
}

// ListConstraints returns every constraint set keyed by profile id.
func (d *DB) ListConstraints(ctx context.Context) (map[string]db.VolunteerConstraint, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT volunteer_id, max_days_per_week, max_expeditions_per_week,
		       max_expeditions_per_day, max_wait_hours, updated_at
		FROM volunteer_constraint
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query constraints: %w", err)
	}
	defer rows.Close()

	constraints := make(map[string]db.VolunteerConstraint)
	for rows.Next() {
		var c db.VolunteerConstraint
		if err := rows.Scan(&c.VolunteerID, &c.MaxDaysPerWeek, &c.MaxExpeditionsPerWeek,
			&c.MaxExpeditionsPerDay, &c.MaxWaitHours, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan constraint: %w", err)
		}
		constraints[c.VolunteerID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating constraints: %w", err)
	}
	return constraints, nil
}

// WithinRosterTx runs fn inside one transaction. A dry run executes every
// statement and then rolls back, so the import report reflects what a real
// run would do.
func (d *DB) WithinRosterTx(ctx context.Context, dryRun bool, fn func(tx db.RosterTx) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&rosterTx{tx: tx}); err != nil {
		return err
	}
	if dryRun {
		return tx.Rollback(ctx)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rosterTx implements db.RosterTx on a pgx transaction.
type rosterTx struct {
	tx pgx.Tx
}

func (t *rosterTx) VolunteerByNumber(ctx context.Context, volunteerID int) (*db.VolunteerProfile, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM volunteer_profile
		WHERE volunteer_id = $1
	`, volunteerID)
	return scanProfile(row)
}

func (t *rosterTx) VolunteerByEmail(ctx context.Context, email string) (*db.VolunteerProfile, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM volunteer_profile
		WHERE email = $1
	`, email)
	return scanProfile(row)
}

func (t *rosterTx) InsertVolunteer(ctx context.Context, profile *db.VolunteerProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	// assign the next public number when the roster row did not carry one
	if profile.VolunteerID == 0 {
		row := t.tx.QueryRow(ctx, `SELECT COALESCE(MAX(volunteer_id), 0) + 1 FROM volunteer_profile`)
		if err := row.Scan(&profile.VolunteerID); err != nil {
			return fmt.Errorf("failed to assign volunteer number: %w", err)
		}
	}

	_, err := t.tx.Exec(ctx, `
		INSERT INTO volunteer_profile
			(id, volunteer_id, first_name, last_name, short_name, email, phone,
			 address_line1, postal_code, city, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, profile.ID, profile.VolunteerID, profile.FirstName, profile.LastName, profile.ShortName,
		profile.Email, profile.Phone, profile.AddressLine1, profile.PostalCode, profile.City, profile.Country)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}

func (t *rosterTx) UpdateVolunteer(ctx context.Context, profile *db.VolunteerProfile) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE volunteer_profile
		SET first_name = $2, last_name = $3, short_name = $4, email = $5, phone = $6,
		    address_line1 = $7, postal_code = $8, city = $9, country = $10, updated_at = NOW()
		WHERE id = $1
	`, profile.ID, profile.FirstName, profile.LastName, profile.ShortName, profile.Email,
		profile.Phone, profile.AddressLine1, profile.PostalCode, profile.City, profile.Country)
	if err != nil {
		return fmt.Errorf("failed to update volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (t *rosterTx) UpsertConstraint(ctx context.Context, constraint *db.VolunteerConstraint) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO volunteer_constraint
			(volunteer_id, max_days_per_week, max_expeditions_per_week,
			 max_expeditions_per_day, max_wait_hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (volunteer_id) DO UPDATE SET
			max_days_per_week = EXCLUDED.max_days_per_week,
			max_expeditions_per_week = EXCLUDED.max_expeditions_per_week,
			max_expeditions_per_day = EXCLUDED.max_expeditions_per_day,
			max_wait_hours = EXCLUDED.max_wait_hours,
			updated_at = NOW()
	`, constraint.VolunteerID, constraint.MaxDaysPerWeek, constraint.MaxExpeditionsPerWeek,
		constraint.MaxExpeditionsPerDay, constraint.MaxWaitHours)
	if err != nil {
		return fmt.Errorf("failed to upsert constraint: %w", err)
	}
	return nil
}

// scanProfile reads one profile row, mapping pgx.ErrNoRows to
// db.ErrNotFound.
func scanProfile(row pgx.Row) (*db.VolunteerProfile, error) {
	var p db.VolunteerProfile
	err := row.Scan(&p.ID, &p.VolunteerID, &p.FirstName, &p.LastName, &p.ShortName, &p.Email,
		&p.Phone, &p.AddressLine1, &p.PostalCode, &p.City, &p.Country, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan volunteer: %w", err)
	}
	return &p, nil
}
