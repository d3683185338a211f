package domain

import "time"

// FreeSlot represents a bookable time interval within a lab's operating hours
type FreeSlot struct {
	StartTime time.Time
	EndTime   time.Time
}

// DurationMinutes returns the slot length in minutes
func (s FreeSlot) DurationMinutes() int {
	return int(s.EndTime.Sub(s.StartTime).Minutes())
}

// LabDayFilter фильтр бронирований лаборатории на конкретную дату
type LabDayFilter struct {
	LabID           int64
	Date            time.Time
	IncludeInactive bool
}
