package model

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Roster column headers after normalization. Both MAIL and EMAIL map to the
// email field because exports from different tools disagree on the name.
const (
	HeaderID              = "ID"
	HeaderFullName        = "BENEVOLE"
	HeaderLastName        = "NOM"
	HeaderFirstName       = "PRENOM"
	HeaderShortName       = "PRENOM_COURT"
	HeaderMaxDaysPerWeek  = "MAX_JOURS_SEMAINE"
	HeaderMaxExpsPerWeek  = "MAX_EXP_SEMAINE"
	HeaderMaxExpsPerDay   = "MAX_EXP_JOUR"
	HeaderMaxWaitHours    = "ATTENTE_MAX_H"
	HeaderPhone           = "TELEPHONE"
	HeaderMail            = "MAIL"
	HeaderEmail           = "EMAIL"
)

// RosterRow is one volunteer line from the roster spreadsheet or CSV.
// Constraint fields are nil when the cell was empty or unparseable.
type RosterRow struct {
	VolunteerID           int
	FirstName             string
	LastName              string
	ShortName             string
	Phone                 string
	Email                 string
	MaxDaysPerWeek        *int
	MaxExpeditionsPerWeek *int
	MaxExpeditionsPerDay  *int
	MaxWaitHours          *int
}

var accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader strips accents and whitespace so "Max jours semaine" and
// "MAX_JOURS_SEMAINE" resolve to the same column.
func NormalizeHeader(value string) string {
	stripped, _, err := transform.String(accentStripper, strings.TrimSpace(value))
	if err != nil {
		stripped = strings.TrimSpace(value)
	}
	return strings.ReplaceAll(strings.ToUpper(stripped), " ", "_")
}

// ParseOptionalInt reads an integer cell, tolerating float formatting like
// "3.0" that spreadsheet exports produce. Returns nil for empty or invalid.
func ParseOptionalInt(value string) *int {
	text := strings.TrimSpace(value)
	if text == "" {
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

// NormalizePhone removes the trailing ".0" that numeric cells acquire when
// exported, then strips the spacing.
func NormalizePhone(value string) string {
	text := strings.TrimSuffix(strings.TrimSpace(value), ".0")
	return NormalizePhoneNumber(text)
}

// RosterRowFromRecord maps one record onto a RosterRow using the normalized
// header index. A row missing its volunteer number or email comes back with
// the zero value in that field, the import decides what to do with it.
func RosterRowFromRecord(headers map[string]int, get func(index int) string) RosterRow {
	field := func(names ...string) string {
		for _, name := range names {
			if idx, ok := headers[name]; ok {
				if v := strings.TrimSpace(get(idx)); v != "" {
					return v
				}
			}
		}
		return ""
	}

	row := RosterRow{
		FirstName: field(HeaderFirstName),
		LastName:  field(HeaderLastName),
		ShortName: field(HeaderShortName),
		Phone:     NormalizePhone(field(HeaderPhone)),
		Email:     strings.ToLower(field(HeaderMail, HeaderEmail)),
	}

	if id := ParseOptionalInt(field(HeaderID)); id != nil {
		row.VolunteerID = *id
	}

	// BENEVOLE holds "NOM Prenom" in older exports, split it when the
	// dedicated columns are empty.
	if full := field(HeaderFullName); full != "" && (row.FirstName == "" || row.LastName == "") {
		parts := strings.Fields(full)
		if len(parts) >= 2 {
			if row.LastName == "" {
				row.LastName = parts[0]
			}
			if row.FirstName == "" {
				row.FirstName = strings.Join(parts[1:], " ")
			}
		} else if row.FirstName == "" {
			row.FirstName = full
		}
	}

	row.MaxDaysPerWeek = ParseOptionalInt(field(HeaderMaxDaysPerWeek))
	row.MaxExpeditionsPerWeek = ParseOptionalInt(field(HeaderMaxExpsPerWeek))
	row.MaxExpeditionsPerDay = ParseOptionalInt(field(HeaderMaxExpsPerDay))
	row.MaxWaitHours = ParseOptionalInt(field(HeaderMaxWaitHours))

	return row
}

// Importable reports whether the row carries the two fields an import
// cannot do without.
func (r RosterRow) Importable() bool {
	return r.VolunteerID != 0 && r.Email != ""
}

// IndexHeaders builds the normalized header index for a header record.
func IndexHeaders(record []string) map[string]int {
	headers := make(map[string]int, len(record))
	for i, cell := range record {
		if key := NormalizeHeader(cell); key != "" {
			headers[key] = i
		}
	}
	return headers
}
