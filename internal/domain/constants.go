package domain

// Default booking rules applied when a lab is created without explicit rules
const (
	DefaultMaxBookingDurationMinutes = 240
	DefaultMinAdvanceBookingMinutes  = 60
	DefaultMaxAdvanceBookingMinutes  = 43200 // 30 days
)

// Business validation constants
const (
	MinCapacity               = 1
	MaxCapacity               = 1000
	MaxBookingDurationCeiling = 1440   // 24 hours
	MaxAdvanceBookingCeiling  = 525600 // 1 year
	MaxPurposeLength          = 500
	MaxReasonLength           = 500
)

// Lifecycle guard lead times
const (
	// MinModifyLeadMinutes бронирование можно менять только более чем
	// за 2 часа до начала
	MinModifyLeadMinutes = 120

	// MinCancelLeadMinutes бронирование можно отменить только более чем
	// за 1 час до начала
	MinCancelLeadMinutes = 60
)

// Availability planner constants
const (
	// SlotStepMinutes фиксированный шаг генерации слотов, не зависит от
	// запрошенной длительности
	SlotStepMinutes = 30
)

// Time format constants
const (
	TimeFormat          = "15:04"      // HH:MM
	DateFormat          = "2006-01-02" // YYYY-MM-DD
	ReferenceDateFormat = "060102"     // YYMMDD, префикс номера бронирования
)

// ActiveStatuses статусы, участвующие в обнаружении конфликтов
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusApproved,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []ReservationStatus{
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}
