package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortName(t *testing.T) {
	tests := []struct {
		firstName string
		want      string
	}{
		{"Jean", "J."},
		{"Jean-Pierre", "J-P."},
		{"Anne Sophie", "A-S."},
		{"d'Artagnan", "D-A."},
		{"  Marie  ", "M."},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ShortName(tc.firstName), tc.firstName)
	}
}

func TestSplitPhone(t *testing.T) {
	country, number := SplitPhone("+32 470 12 34 56")
	assert.Equal(t, "+32", country)
	assert.Equal(t, "470123456", number)

	country, number = SplitPhone("06 12 34 56 78")
	assert.Equal(t, "+33", country)
	assert.Equal(t, "0612345678", number)

	country, number = SplitPhone("")
	assert.Equal(t, "+33", country)
	assert.Empty(t, number)
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+33 0612345678", FormatPhone("+33", "06 12 34 56 78"))
	assert.Equal(t, "+33 0612345678", FormatPhone("", "0612345678"))
	assert.Equal(t, "+41", FormatPhone("+41", ""))
}
