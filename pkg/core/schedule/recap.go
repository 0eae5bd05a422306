package schedule

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/pkg/db"
)

// CellStatus classifies one volunteer/day cell of the recap grid.
type CellStatus string

const (
	CellAvailable   CellStatus = "available"
	CellUnavailable CellStatus = "unavailable"
	CellUnknown     CellStatus = "unknown"
)

// Cell is one entry of the recap grid. Start and End carry the envelope of
// the day's windows and are only set when the status is CellAvailable.
type Cell struct {
	Status CellStatus `json:"status"`
	Start  string     `json:"start,omitempty"`
	End    string     `json:"end,omitempty"`
}

// RecapRow is one volunteer's week, with exactly seven cells.
type RecapRow struct {
	VolunteerID int    `json:"volunteer_id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name,omitempty"`
	Days        []Cell `json:"days"`
}

// Recap is the weekly planning view: every volunteer crossed with every
// day of the week, plus the metadata the week selector needs.
type Recap struct {
	WeekStart  time.Time   `json:"week_start"`
	WeekEnd    time.Time   `json:"week_end"`
	WeekNumber int         `json:"week_number"`
	WeekYear   int         `json:"week_year"`
	Days       []WeekDay   `json:"days"`
	Options    []WeekRange `json:"week_options"`
	Rows       []RecapRow  `json:"rows"`
}

// RecapStore defines the reads the aggregation needs.
type RecapStore interface {
	ListVolunteers(ctx context.Context) ([]db.VolunteerProfile, error)
	WindowsInRange(ctx context.Context, start, end time.Time) ([]db.AvailabilityWindow, error)
	MarkersInRange(ctx context.Context, start, end time.Time) ([]db.UnavailabilityMarker, error)
}

// envelope is the min-start/max-end collapse of a day's windows. Multiple
// disjoint windows on the same day are intentionally flattened to one
// reported span.
type envelope struct {
	start TimeOfDay
	end   TimeOfDay
}

// BuildRecap aggregates the week starting at weekStart into the grid. Two
// grouped reads populate nested maps, then rows are rendered by iterating
// the stable volunteer order against the seven fixed dates; volunteers
// with no records in range get an all-unknown row.
func BuildRecap(ctx context.Context, store RecapStore, logger *zap.Logger, weekStart time.Time) (*Recap, error) {
	weekStart = midnightUTC(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)
	weekYear, weekNumber := weekStart.ISOWeek()

	volunteers, err := store.ListVolunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}

	windows, err := store.WindowsInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load windows: %w", err)
	}
	envelopes := make(map[string]map[string]envelope)
	for _, w := range windows {
		byDay, ok := envelopes[w.VolunteerID]
		if !ok {
			byDay = make(map[string]envelope)
			envelopes[w.VolunteerID] = byDay
		}
		key := DayKey(w.Day)
		env, seen := byDay[key]
		if !seen {
			env = envelope{start: TimeOfDay(w.StartMinute), end: TimeOfDay(w.EndMinute)}
		} else {
			if TimeOfDay(w.StartMinute) < env.start {
				env.start = TimeOfDay(w.StartMinute)
			}
			if TimeOfDay(w.EndMinute) > env.end {
				env.end = TimeOfDay(w.EndMinute)
			}
		}
		byDay[key] = env
	}

	markers, err := store.MarkersInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load markers: %w", err)
	}
	unavailable := make(map[string]map[string]bool)
	for _, m := range markers {
		byDay, ok := unavailable[m.VolunteerID]
		if !ok {
			byDay = make(map[string]bool)
			unavailable[m.VolunteerID] = byDay
		}
		byDay[DayKey(m.Day)] = true
	}

	days := WeekDays(weekStart)
	options, err := WeekRanges(weekYear)
	if err != nil {
		return nil, err
	}

	rows := make([]RecapRow, 0, len(volunteers))
	for _, volunteer := range volunteers {
		row := RecapRow{
			VolunteerID: volunteer.VolunteerID,
			Name:        volunteer.FullName(),
			ShortName:   volunteer.ShortName,
			Days:        make([]Cell, 0, 7),
		}
		for _, day := range days {
			key := DayKey(day.Date)
			if env, ok := envelopes[volunteer.ID][key]; ok {
				row.Days = append(row.Days, Cell{
					Status: CellAvailable,
					Start:  env.start.Label(),
					End:    env.end.Label(),
				})
				continue
			}
			if unavailable[volunteer.ID][key] {
				row.Days = append(row.Days, Cell{Status: CellUnavailable})
				continue
			}
			row.Days = append(row.Days, Cell{Status: CellUnknown})
		}
		rows = append(rows, row)
	}

	logger.Debug("Recap built",
		zap.String("week_start", DayKey(weekStart)),
		zap.Int("volunteers", len(rows)),
		zap.Int("windows", len(windows)),
		zap.Int("markers", len(markers)))

	return &Recap{
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		WeekNumber: weekNumber,
		WeekYear:   weekYear,
		Days:       days,
		Options:    options,
		Rows:       rows,
	}, nil
}
