package schedule

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorKind identifies the business rule a submitted value broke.
type ErrorKind string

const (
	KindInvalidGranularity ErrorKind = "invalid_granularity"
	KindOutOfBounds        ErrorKind = "out_of_bounds"
	KindInvalidOrder       ErrorKind = "invalid_order"
	KindMissingField       ErrorKind = "missing_field"
	KindInvalidFormat      ErrorKind = "invalid_format"
	KindOverlapConflict    ErrorKind = "overlap_conflict"
)

// Field names errors attach to, matching the submitted payload fields.
const (
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
)

// User-facing messages, kept in French like the rest of the product.
const (
	msgGranularity = "Les minutes doivent etre par tranche de 15 minutes."
	msgBounds      = "L'heure doit etre entre 07:00 et 22:00."
	msgOrder       = "L'heure de fin doit etre apres l'heure de debut."
	msgOverlap     = "Cette plage horaire chevauche une disponibilite existante."
	msgRequired    = "Champ obligatoire."
	msgFormat      = "Heure invalide."
)

// FieldError is one validation failure attached to a single field of a
// single day's entry. Field is empty for day-level errors such as overlaps.
type FieldError struct {
	Field   string    `json:"field,omitempty"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Field, e.Message)
}

// RequiredFieldError builds the error reported for a missing time field on
// an available day.
func RequiredFieldError(field string) FieldError {
	return FieldError{Field: field, Kind: KindMissingField, Message: msgRequired}
}

// InvalidTimeError builds the error reported for a time value that does not
// parse as HH:MM.
func InvalidTimeError(field string) FieldError {
	return FieldError{Field: field, Kind: KindInvalidFormat, Message: msgFormat}
}

// BatchError carries validation failures for a weekly submission, keyed by
// ISO date so the caller can attach each failure to the offending day.
type BatchError struct {
	Days map[string][]FieldError `json:"days"`
}

// NewBatchError returns an empty BatchError ready to accumulate failures.
func NewBatchError() *BatchError {
	return &BatchError{Days: make(map[string][]FieldError)}
}

// Add attaches a failure to the given day.
func (e *BatchError) Add(day string, fe FieldError) {
	e.Days[day] = append(e.Days[day], fe)
}

// Empty reports whether no failures were recorded.
func (e *BatchError) Empty() bool {
	return len(e.Days) == 0
}

func (e *BatchError) Error() string {
	days := make([]string, 0, len(e.Days))
	for day := range e.Days {
		days = append(days, day)
	}
	sort.Strings(days)

	var b strings.Builder
	b.WriteString("invalid availability submission:")
	for _, day := range days {
		for _, fe := range e.Days[day] {
			fmt.Fprintf(&b, " [%s] %s;", day, fe.Error())
		}
	}
	return strings.TrimSuffix(b.String(), ";")
}
