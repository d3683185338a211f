package get_available_slots

import "time"

// Request модель запроса свободных окон
type Request struct {
	LabID           int64
	Date            time.Time
	DurationMinutes int
}

// Slot свободное окно в пределах рабочего дня
type Slot struct {
	StartTime time.Time
	EndTime   time.Time
}

// Response модель ответа со списком свободных окон
type Response struct {
	LabID int64
	Date  string
	Slots []Slot
}
