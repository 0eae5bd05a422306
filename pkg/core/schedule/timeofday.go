package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
// Windows are declared on a quarter-hour grid between OpeningTime and
// ClosingTime, so an int is exact and cheap to compare.
type TimeOfDay int

const (
	// Granularity is the smallest slot volunteers can declare.
	Granularity = 15

	// OpeningTime and ClosingTime bound every declared window.
	OpeningTime TimeOfDay = 7 * 60
	ClosingTime TimeOfDay = 22 * 60
)

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS". Seconds are accepted for
// compatibility with resubmitted form values but must be zero.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM or HH:MM:SS", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if err != nil || second != 0 {
			return 0, fmt.Errorf("invalid seconds in %q", value)
		}
	}

	return NewTimeOfDay(hour, minute), nil
}

// Hour returns the hour component.
func (t TimeOfDay) Hour() int {
	return int(t) / 60
}

// Minute returns the minute component.
func (t TimeOfDay) Minute() int {
	return int(t) % 60
}

// String formats the time as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Label formats the time the way the recap displays it, e.g. "08h00".
func (t TimeOfDay) Label() string {
	return fmt.Sprintf("%02dh%02d", t.Hour(), t.Minute())
}

// QuarterAligned reports whether the time sits on the quarter-hour grid.
func (t TimeOfDay) QuarterAligned() bool {
	return t.Minute()%Granularity == 0
}

// InOperatingHours reports whether the time is within [OpeningTime, ClosingTime].
func (t TimeOfDay) InOperatingHours() bool {
	return t >= OpeningTime && t <= ClosingTime
}
