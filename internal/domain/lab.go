package domain

import (
	"time"

	"github.com/m04kA/LRS-BookingService/pkg/types"
)

// DaySchedule operating window of a lab for a single weekday
type DaySchedule struct {
	IsOpen    bool              `json:"isOpen"`
	OpenTime  *types.TimeString `json:"openTime,omitempty"`
	CloseTime *types.TimeString `json:"closeTime,omitempty"`
}

// OperatingHours расписание работы лаборатории по дням недели
type OperatingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// ForDate возвращает расписание на день недели указанной даты
func (h OperatingHours) ForDate(date time.Time) DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return h.Monday
	case time.Tuesday:
		return h.Tuesday
	case time.Wednesday:
		return h.Wednesday
	case time.Thursday:
		return h.Thursday
	case time.Friday:
		return h.Friday
	case time.Saturday:
		return h.Saturday
	case time.Sunday:
		return h.Sunday
	default:
		return DaySchedule{IsOpen: false}
	}
}

// BookingRules правила бронирования лаборатории
type BookingRules struct {
	MaxBookingDurationMinutes int  `json:"maxBookingDurationMinutes"`
	MinAdvanceBookingMinutes  int  `json:"minAdvanceBookingMinutes"`
	MaxAdvanceBookingMinutes  int  `json:"maxAdvanceBookingMinutes"`
	AllowRecurring            bool `json:"allowRecurring"`
	RequireApproval           bool `json:"requireApproval"`
}

// Lab represents a bookable laboratory
type Lab struct {
	ID          int64
	Name        string
	Description *string
	OwnerID     int64
	Capacity    int

	Active           bool
	UnderMaintenance bool

	Hours OperatingHours
	Rules BookingRules

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AcceptsReservations returns true if the lab may take new reservations.
// Inactive labs and labs under maintenance accept nothing and are excluded
// from availability queries.
func (l *Lab) AcceptsReservations() bool {
	return l.Active && !l.UnderMaintenance
}

// FitsCapacity returns true if the expected attendance does not exceed capacity
func (l *Lab) FitsCapacity(expectedAttendance int) bool {
	return expectedAttendance <= l.Capacity
}
