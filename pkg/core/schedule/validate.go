package schedule

// ValidateWindow checks a declared time range against the scheduling rules.
// Granularity and bound failures are accumulated per field so a form can
// highlight both fields at once; the ordering rule only runs once both
// fields are individually valid.
func ValidateWindow(start, end TimeOfDay) []FieldError {
	var errs []FieldError

	if !start.QuarterAligned() {
		errs = append(errs, FieldError{Field: FieldStartTime, Kind: KindInvalidGranularity, Message: msgGranularity})
	}
	if !end.QuarterAligned() {
		errs = append(errs, FieldError{Field: FieldEndTime, Kind: KindInvalidGranularity, Message: msgGranularity})
	}
	if !start.InOperatingHours() {
		errs = append(errs, FieldError{Field: FieldStartTime, Kind: KindOutOfBounds, Message: msgBounds})
	}
	if !end.InOperatingHours() {
		errs = append(errs, FieldError{Field: FieldEndTime, Kind: KindOutOfBounds, Message: msgBounds})
	}
	if len(errs) > 0 {
		return errs
	}

	if start >= end {
		errs = append(errs, FieldError{Field: FieldEndTime, Kind: KindInvalidOrder, Message: msgOrder})
	}
	return errs
}
