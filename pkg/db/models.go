package db

import "time"

// VolunteerProfile is a registered volunteer. VolunteerID is the stable
// public number used across exports and the planning screens; ID is the
// storage key.
type VolunteerProfile struct {
	ID           string
	VolunteerID  int
	FirstName    string
	LastName     string
	ShortName    string
	Email        string
	Phone        string
	AddressLine1 string
	PostalCode   string
	City         string
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns "First Last" with either part optional.
func (v VolunteerProfile) FullName() string {
	switch {
	case v.FirstName == "":
		return v.LastName
	case v.LastName == "":
		return v.FirstName
	default:
		return v.FirstName + " " + v.LastName
	}
}

// VolunteerConstraint holds the optional per-volunteer scheduling caps.
// They are descriptive: listings and exports surface them, nothing
// enforces them yet.
type VolunteerConstraint struct {
	VolunteerID           string // profile ID
	MaxDaysPerWeek        *int
	MaxExpeditionsPerWeek *int
	MaxExpeditionsPerDay  *int
	MaxWaitHours          *int
	UpdatedAt             time.Time
}

// AvailabilityWindow is a declared time range on one date. Start and end
// are minutes since midnight on a quarter-hour grid.
type AvailabilityWindow struct {
	ID          string
	VolunteerID string // profile ID
	Day         time.Time
	StartMinute int
	EndMinute   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnavailabilityMarker declares a volunteer unavailable for a whole date.
// At most one per (volunteer, day), and never alongside windows for the
// same day.
type UnavailabilityMarker struct {
	ID          string
	VolunteerID string // profile ID
	Day         time.Time
	CreatedAt   time.Time
}
