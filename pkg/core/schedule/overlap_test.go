package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/misterkoko92/asf-benev/pkg/db"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 TimeOfDay
		want           bool
	}{
		{"identical", NewTimeOfDay(8, 0), NewTimeOfDay(10, 0), NewTimeOfDay(8, 0), NewTimeOfDay(10, 0), true},
		{"partial overlap", NewTimeOfDay(8, 0), NewTimeOfDay(10, 0), NewTimeOfDay(9, 0), NewTimeOfDay(11, 0), true},
		{"contained", NewTimeOfDay(8, 0), NewTimeOfDay(12, 0), NewTimeOfDay(9, 0), NewTimeOfDay(10, 0), true},
		{"touching end to start", NewTimeOfDay(8, 0), NewTimeOfDay(10, 0), NewTimeOfDay(10, 0), NewTimeOfDay(12, 0), false},
		{"touching start to end", NewTimeOfDay(10, 0), NewTimeOfDay(12, 0), NewTimeOfDay(8, 0), NewTimeOfDay(10, 0), false},
		{"disjoint", NewTimeOfDay(8, 0), NewTimeOfDay(9, 0), NewTimeOfDay(10, 0), NewTimeOfDay(11, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			// the predicate is symmetric
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestHasOverlap_ExcludesEditedWindow(t *testing.T) {
	monday := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	windows := []db.AvailabilityWindow{
		{ID: "w-1", VolunteerID: "vol-1", Day: monday, StartMinute: int(NewTimeOfDay(8, 0)), EndMinute: int(NewTimeOfDay(10, 0))},
		{ID: "w-2", VolunteerID: "vol-1", Day: monday, StartMinute: int(NewTimeOfDay(14, 0)), EndMinute: int(NewTimeOfDay(16, 0))},
	}

	// conflicts with w-1 when adding
	assert.True(t, HasOverlap(windows, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30), ""))
	// but not when editing w-1 itself
	assert.False(t, HasOverlap(windows, NewTimeOfDay(9, 0), NewTimeOfDay(9, 30), "w-1"))
	// excluding w-1 does not hide a conflict with w-2
	assert.True(t, HasOverlap(windows, NewTimeOfDay(15, 0), NewTimeOfDay(17, 0), "w-1"))
}
