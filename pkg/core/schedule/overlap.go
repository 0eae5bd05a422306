package schedule

import "github.com/misterkoko92/asf-benev/pkg/db"

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Windows that merely touch (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 TimeOfDay) bool {
	return s1 < e2 && e1 > s2
}

// HasOverlap scans existing windows for one that intersects [start,end).
// excludeID skips the window being edited so it does not conflict with
// itself; pass the empty string when adding a new window.
func HasOverlap(windows []db.AvailabilityWindow, start, end TimeOfDay, excludeID string) bool {
	for _, w := range windows {
		if excludeID != "" && w.ID == excludeID {
			continue
		}
		if Overlaps(TimeOfDay(w.StartMinute), TimeOfDay(w.EndMinute), start, end) {
			return true
		}
	}
	return false
}
