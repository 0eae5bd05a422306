package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/misterkoko92/asf-benev/pkg/db"
)

var _ db.AvailabilityStore = (*DB)(nil)

const windowColumns = `id, volunteer_id, day, start_minute, end_minute, created_at, updated_at`

// WithinTx runs fn inside one transaction, committing when fn returns nil
// and rolling back otherwise. All reconciler reads and writes go through
// the transaction handle so overlap checks and inserts share one snapshot.
func (d *DB) WithinTx(ctx context.Context, fn func(tx db.AvailabilityTx) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&availabilityTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteWindow removes one window owned by the volunteer. Reports
// db.ErrNotFound when the window does not exist or belongs to someone
// else.
func (d *DB) DeleteWindow(ctx context.Context, volunteerID, windowID string) error {
	tag, err := d.pool.Exec(ctx, `
		DELETE FROM availability_window
		WHERE id = $1 AND volunteer_id = $2
	`, windowID, volunteerID)
	if err != nil {
		return fmt.Errorf("failed to delete window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// WindowsForVolunteer lists one volunteer's windows within [start, end],
// ordered by day then start time.
func (d *DB) WindowsForVolunteer(ctx context.Context, volunteerID string, start, end time.Time) ([]db.AvailabilityWindow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+windowColumns+`
		FROM availability_window
		WHERE volunteer_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day, start_minute
	`, volunteerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	return scanWindows(rows)
}

// WindowsInRange lists every volunteer's windows within [start, end].
func (d *DB) WindowsInRange(ctx context.Context, start, end time.Time) ([]db.AvailabilityWindow, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+windowColumns+`
		FROM availability_window
		WHERE day BETWEEN $1 AND $2
		ORDER BY day, start_minute
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	return scanWindows(rows)
}

// MarkersInRange lists every unavailability marker within [start, end].
func (d *DB) MarkersInRange(ctx context.Context, start, end time.Time) ([]db.UnavailabilityMarker, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, volunteer_id, day, created_at
		FROM unavailability_marker
		WHERE day BETWEEN $1 AND $2
		ORDER BY day
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query markers: %w", err)
	}
	defer rows.Close()

	var markers []db.UnavailabilityMarker
	for rows.Next() {
		var m db.UnavailabilityMarker
		if err := rows.Scan(&m.ID, &m.VolunteerID, &m.Day, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan marker: %w", err)
		}
		markers = append(markers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating markers: %w", err)
	}
	return markers, nil
}

// availabilityTx implements db.AvailabilityTx on a pgx transaction.
type availabilityTx struct {
	tx pgx.Tx
}

func (t *availabilityTx) WindowsForDay(ctx context.Context, volunteerID string, day time.Time) ([]db.AvailabilityWindow, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT `+windowColumns+`
		FROM availability_window
		WHERE volunteer_id = $1 AND day = $2
		ORDER BY start_minute
	`, volunteerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to query windows: %w", err)
	}
	return scanWindows(rows)
}

func (t *availabilityTx) WindowByID(ctx context.Context, volunteerID, windowID string) (*db.AvailabilityWindow, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+windowColumns+`
		FROM availability_window
		WHERE id = $1 AND volunteer_id = $2
	`, windowID, volunteerID)

	var w db.AvailabilityWindow
	err := row.Scan(&w.ID, &w.VolunteerID, &w.Day, &w.StartMinute, &w.EndMinute, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan window: %w", err)
	}
	return &w, nil
}

func (t *availabilityTx) InsertWindow(ctx context.Context, window *db.AvailabilityWindow) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO availability_window (id, volunteer_id, day, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5)
	`, window.ID, window.VolunteerID, window.Day, window.StartMinute, window.EndMinute)
	if err != nil {
		return fmt.Errorf("failed to insert window: %w", err)
	}
	return nil
}

func (t *availabilityTx) UpdateWindow(ctx context.Context, window *db.AvailabilityWindow) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE availability_window
		SET day = $2, start_minute = $3, end_minute = $4, updated_at = NOW()
		WHERE id = $1
	`, window.ID, window.Day, window.StartMinute, window.EndMinute)
	if err != nil {
		return fmt.Errorf("failed to update window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

func (t *availabilityTx) DeleteWindowsForDay(ctx context.Context, volunteerID string, day time.Time) error {
	_, err := t.tx.Exec(ctx, `
		DELETE FROM availability_window
		WHERE volunteer_id = $1 AND day = $2
	`, volunteerID, day)
	if err != nil {
		return fmt.Errorf("failed to delete windows: %w", err)
	}
	return nil
}

func (t *availabilityTx) UpsertMarker(ctx context.Context, volunteerID string, day time.Time) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO unavailability_marker (id, volunteer_id, day)
		VALUES ($1, $2, $3)
		ON CONFLICT (volunteer_id, day) DO NOTHING
	`, uuid.New().String(), volunteerID, day)
	if err != nil {
		return fmt.Errorf("failed to upsert marker: %w", err)
	}
	return nil
}

func (t *availabilityTx) DeleteMarker(ctx context.Context, volunteerID string, day time.Time) error {
	_, err := t.tx.Exec(ctx, `
		DELETE FROM unavailability_marker
		WHERE volunteer_id = $1 AND day = $2
	`, volunteerID, day)
	if err != nil {
		return fmt.Errorf("failed to delete marker: %w", err)
	}
	return nil
}

// scanWindows drains a window result set.
func scanWindows(rows pgx.Rows) ([]db.AvailabilityWindow, error) {
	defer rows.Close()

	var windows []db.AvailabilityWindow
	for rows.Next() {
		var w db.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.VolunteerID, &w.Day, &w.StartMinute, &w.EndMinute, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan window: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating windows: %w", err)
	}
	return windows, nil
}
