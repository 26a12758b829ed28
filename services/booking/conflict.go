package booking

import "sportzone/models"

// Overlaps tests two half-open intervals. Boundary-touching windows
// (a.End == b.Start) do not overlap.
func Overlaps(a, b models.TimeWindow) bool {
	return a.Start < b.End && a.End > b.Start
}

// HasConflict reports whether the candidate window overlaps any booked window.
// Any overlap, however small, is a conflict.
func HasConflict(candidate models.TimeWindow, existing []models.BookedWindow) bool {
	for _, booked := range existing {
		if Overlaps(candidate, booked.Window()) {
			return true
		}
	}
	return false
}
