package schedule

import (
	"fmt"
	"strconv"
	"time"

	"github.com/teambition/rrule-go"
)

// DayNames are the French weekday names, Monday first.
var DayNames = [7]string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi", "Dimanche"}

const dateLayout = "2006-01-02"

// DayKey formats a date as the ISO string used to key per-day errors and
// grid cells.
func DayKey(day time.Time) string {
	return day.Format(dateLayout)
}

// midnightUTC truncates a timestamp to a pure date.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isoWeekday returns the ISO weekday, Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// NextMonday returns the Monday strictly after the given date. When the
// date is itself a Monday the following Monday is returned, never today:
// the default planning week is always fully in the future.
func NextMonday(today time.Time) time.Time {
	t := midnightUTC(today)
	ahead := (8 - isoWeekday(t)) % 7
	if ahead == 0 {
		ahead = 7
	}
	return t.AddDate(0, 0, ahead)
}

// MondayOfISOWeek returns the Monday of the given ISO week. January 4th is
// always in ISO week 1, which anchors the calculation.
func MondayOfISOWeek(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	firstMonday := jan4.AddDate(0, 0, 1-isoWeekday(jan4))
	return firstMonday.AddDate(0, 0, (week-1)*7)
}

// MaxISOWeek returns 52 or 53, the number of ISO weeks in the given year.
// December 28th always falls in the year's last ISO week.
func MaxISOWeek(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// WeekRange is one selectable planning week.
type WeekRange struct {
	Week   int       `json:"week"`
	Monday time.Time `json:"start"`
	Sunday time.Time `json:"end"`
}

// Label renders the selector text, e.g.
// "Semaine 2 - du lundi 12/01/2026 au dimanche 18/01/2026".
func (w WeekRange) Label() string {
	return fmt.Sprintf("Semaine %d - du lundi %s au dimanche %s",
		w.Week, w.Monday.Format("02/01/2006"), w.Sunday.Format("02/01/2006"))
}

// WeekRanges lists every ISO week of the year with its Monday and Sunday,
// 52 or 53 entries per MaxISOWeek. The Monday sequence is generated as a
// weekly recurrence anchored on the year's first ISO Monday.
func WeekRanges(year int) ([]WeekRange, error) {
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Dtstart: MondayOfISOWeek(year, 1),
		Count:   MaxISOWeek(year),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build weekly recurrence for %d: %w", year, err)
	}

	mondays := rule.All()
	ranges := make([]WeekRange, len(mondays))
	for i, monday := range mondays {
		monday = midnightUTC(monday)
		ranges[i] = WeekRange{
			Week:   i + 1,
			Monday: monday,
			Sunday: monday.AddDate(0, 0, 6),
		}
	}
	return ranges, nil
}

// WeekDay is one column of the weekly grid.
type WeekDay struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
}

// WeekDays builds the seven day columns starting at weekStart, labelled
// "Lundi 05/01/2026" through "Dimanche 11/01/2026".
func WeekDays(weekStart time.Time) []WeekDay {
	days := make([]WeekDay, 7)
	for offset := 0; offset < 7; offset++ {
		date := weekStart.AddDate(0, 0, offset)
		days[offset] = WeekDay{
			Date:  date,
			Label: fmt.Sprintf("%s %s", DayNames[offset], date.Format("02/01/2006")),
		}
	}
	return days
}

// WeekSelection carries the raw week-selection inputs from a request.
// All fields are optional; empty values fall through to the defaults.
type WeekSelection struct {
	Date string // explicit ISO date from a resubmitted form
	Year string
	Week string
}

// ResolveWeekStart maps a week selection to the Monday the request targets.
// An explicit date wins and is returned as-is without snapping. Otherwise a
// valid (year, week) pair selects that ISO week's Monday, the year
// defaulting to the ISO year of the next planning Monday. Anything invalid
// falls back to the Monday after today.
func ResolveWeekStart(sel WeekSelection, today time.Time) time.Time {
	if sel.Date != "" {
		if parsed, err := time.Parse(dateLayout, sel.Date); err == nil {
			return midnightUTC(parsed)
		}
	}

	fallback := NextMonday(today)

	year, _ := fallback.ISOWeek()
	if sel.Year != "" {
		if parsed, err := strconv.Atoi(sel.Year); err == nil {
			year = parsed
		}
	}

	if sel.Week != "" {
		week, err := strconv.Atoi(sel.Week)
		if err == nil && week >= 1 && week <= MaxISOWeek(year) {
			return MondayOfISOWeek(year, week)
		}
	}

	return fallback
}
