package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a record does not exist or is not owned by
// the requesting volunteer. Cross-volunteer access reports it rather than
// silently succeeding.
var ErrNotFound = errors.New("record not found")

// AvailabilityTx exposes the availability reads and writes that must run
// inside one transaction. The reconciler's overlap checks read through the
// same transaction as its writes, so a validated window cannot be
// invalidated by a concurrent commit in between.
type AvailabilityTx interface {
	WindowsForDay(ctx context.Context, volunteerID string, day time.Time) ([]AvailabilityWindow, error)
	WindowByID(ctx context.Context, volunteerID, windowID string) (*AvailabilityWindow, error)
	InsertWindow(ctx context.Context, window *AvailabilityWindow) error
	UpdateWindow(ctx context.Context, window *AvailabilityWindow) error
	DeleteWindowsForDay(ctx context.Context, volunteerID string, day time.Time) error
	UpsertMarker(ctx context.Context, volunteerID string, day time.Time) error
	DeleteMarker(ctx context.Context, volunteerID string, day time.Time) error
}

// AvailabilityStore is the persistence surface for windows and markers.
// WithinTx commits when fn returns nil and rolls back otherwise.
type AvailabilityStore interface {
	WithinTx(ctx context.Context, fn func(tx AvailabilityTx) error) error
	DeleteWindow(ctx context.Context, volunteerID, windowID string) error
	WindowsForVolunteer(ctx context.Context, volunteerID string, start, end time.Time) ([]AvailabilityWindow, error)
	WindowsInRange(ctx context.Context, start, end time.Time) ([]AvailabilityWindow, error)
	MarkersInRange(ctx context.Context, start, end time.Time) ([]UnavailabilityMarker, error)
}

// RosterTx exposes the volunteer reads and writes used by the roster
// import, which runs as a single transaction (and rolls back on dry runs).
type RosterTx interface {
	VolunteerByNumber(ctx context.Context, volunteerID int) (*VolunteerProfile, error)
	VolunteerByEmail(ctx context.Context, email string) (*VolunteerProfile, error)
	InsertVolunteer(ctx context.Context, profile *VolunteerProfile) error
	UpdateVolunteer(ctx context.Context, profile *VolunteerProfile) error
	UpsertConstraint(ctx context.Context, constraint *VolunteerConstraint) error
}

// VolunteerStore is the persistence surface for volunteer profiles.
type VolunteerStore interface {
	ListVolunteers(ctx context.Context) ([]VolunteerProfile, error)
	GetVolunteerByNumber(ctx context.Context, volunteerID int) (*VolunteerProfile, error)
	ListConstraints(ctx context.Context) (map[string]VolunteerConstraint, error)
	WithinRosterTx(ctx context.Context, dryRun bool, fn func(tx RosterTx) error) error
}

// Database is the full persistence surface the application wires up.
// The postgres implementation satisfies it; tests substitute in-memory
// fakes for the slices they need.
type Database interface {
	AvailabilityStore
	VolunteerStore
}
