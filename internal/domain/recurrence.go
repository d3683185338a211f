package domain

import (
	"errors"
	"time"
)

// RecurrenceFrequency частота повторения бронирования
type RecurrenceFrequency string

const (
	FrequencyDaily   RecurrenceFrequency = "daily"
	FrequencyWeekly  RecurrenceFrequency = "weekly"
	FrequencyMonthly RecurrenceFrequency = "monthly"
)

// Recurrence описание повторяющегося бронирования
// Форма хранится и возвращается как есть; разворачивание в отдельные
// бронирования выполняет RecurrenceExpander
type Recurrence struct {
	Frequency  RecurrenceFrequency `json:"frequency"`
	Interval   int                 `json:"interval"`
	EndDate    *time.Time          `json:"endDate,omitempty"`
	DaysOfWeek []time.Weekday      `json:"daysOfWeek,omitempty"`
}

// Occurrence один временной интервал, порождённый повторяющимся шаблоном
type Occurrence struct {
	StartTime time.Time
	EndTime   time.Time
}

// ErrRecurrenceNotSupported возвращается, пока семантика разворачивания
// повторяющихся бронирований не определена: шаблон сохраняется, но
// отдельные бронирования не порождаются
var ErrRecurrenceNotSupported = errors.New("domain: recurrence expansion is not supported")

// RecurrenceExpander разворачивает шаблон повторяющегося бронирования
// в список интервалов-вхождений
type RecurrenceExpander interface {
	Expand(template *Reservation) ([]Occurrence, error)
}

// UnsupportedExpander реализация RecurrenceExpander, которая всегда
// возвращает ErrRecurrenceNotSupported
// Остаётся до тех пор, пока не решено, проверяется ли каждое вхождение
// на конфликты независимо и подтверждается ли набор атомарно
type UnsupportedExpander struct{}

// Expand всегда возвращает ErrRecurrenceNotSupported
func (UnsupportedExpander) Expand(_ *Reservation) ([]Occurrence, error) {
	return nil, ErrRecurrenceNotSupported
}
