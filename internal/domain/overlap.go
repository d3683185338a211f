package domain

import "time"

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) overlap. Touching boundaries are NOT an overlap: a
// reservation ending exactly when another starts is allowed.
//
// Examples:
//   - [08:00, 09:00) vs [08:30, 09:30) → overlap
//   - [08:00, 09:00) vs [09:00, 10:00) → no overlap (touching)
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
