package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  TimeOfDay
	}{
		{"07:00", NewTimeOfDay(7, 0)},
		{"08:15", NewTimeOfDay(8, 15)},
		{"22:00", NewTimeOfDay(22, 0)},
		{"08:15:00", NewTimeOfDay(8, 15)},
		{" 09:30 ", NewTimeOfDay(9, 30)},
	}
	for _, tc := range tests {
		got, err := ParseTimeOfDay(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, input := range []string{"", "8", "25:00", "08:61", "08:15:30", "abc", "08-15"} {
		_, err := ParseTimeOfDay(input)
		assert.Error(t, err, input)
	}
}

func TestTimeOfDayFormatting(t *testing.T) {
	tod := NewTimeOfDay(8, 5)
	assert.Equal(t, "08:05", tod.String())
	assert.Equal(t, "08h05", tod.Label())
	assert.Equal(t, 8, tod.Hour())
	assert.Equal(t, 5, tod.Minute())
}

func TestTimeOfDayPredicates(t *testing.T) {
	assert.True(t, NewTimeOfDay(8, 45).QuarterAligned())
	assert.False(t, NewTimeOfDay(8, 50).QuarterAligned())

	assert.True(t, OpeningTime.InOperatingHours())
	assert.True(t, ClosingTime.InOperatingHours())
	assert.False(t, NewTimeOfDay(6, 45).InOperatingHours())
	assert.False(t, NewTimeOfDay(22, 15).InOperatingHours())
}
