package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// ReservationStatus represents the status of a lab reservation
type ReservationStatus string

const (
	StatusDraft     ReservationStatus = "draft"
	StatusPending   ReservationStatus = "pending"
	StatusApproved  ReservationStatus = "approved"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
	StatusNoShow    ReservationStatus = "no_show"
)

// Priority represents the reporting priority of a reservation.
// Priority is a sort key only; it never takes part in conflict resolution.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Rank returns the sort rank of the priority (higher = more important)
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityNormal:
		return 1
	default:
		return 0
	}
}

// Reservation represents a time-bound exclusive claim on a laboratory
type Reservation struct {
	ID              int64
	ReferenceNumber string
	LabID           int64
	RequesterID     int64
	Purpose         *string

	StartTime          time.Time
	EndTime            time.Time
	ExpectedAttendance int

	Status   ReservationStatus
	Priority Priority

	ApprovedBy *int64
	ApprovedAt *time.Time

	RejectedBy      *int64
	RejectedAt      *time.Time
	RejectionReason *string

	CancelledAt        *time.Time
	CancellationReason *string

	IsRecurring          bool
	Recurrence           *Recurrence
	ParentReservationID  *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation holds its time interval on the lab.
// Only active reservations take part in conflict detection.
func (r *Reservation) IsActive() bool {
	return r.Status == StatusPending || r.Status == StatusApproved
}

// IsModifiable returns true if the reservation may still be updated:
// drafts, pending and approved reservations, and only while more than
// MinModifyLeadMinutes remain before the start. Updating a significant
// field of an approved reservation reverts it to pending for re-approval.
func (r *Reservation) IsModifiable(now time.Time) bool {
	switch r.Status {
	case StatusDraft, StatusPending, StatusApproved:
	default:
		return false
	}
	return r.StartTime.Sub(now) > time.Duration(MinModifyLeadMinutes)*time.Minute
}

// CanBeCancelled returns true if the reservation may be cancelled at now:
// pending or approved, and more than MinCancelLeadMinutes before the start
func (r *Reservation) CanBeCancelled(now time.Time) bool {
	if r.Status != StatusPending && r.Status != StatusApproved {
		return false
	}
	return r.StartTime.Sub(now) > time.Duration(MinCancelLeadMinutes)*time.Minute
}

// IsTerminal returns true for states that allow no further transitions
func (r *Reservation) IsTerminal() bool {
	switch r.Status {
	case StatusRejected, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}

// DurationMinutes returns the length of the reserved interval in minutes
func (r *Reservation) DurationMinutes() int {
	return int(r.EndTime.Sub(r.StartTime).Minutes())
}

// OverlapsWith reports whether the reservation's interval overlaps [start, end)
func (r *Reservation) OverlapsWith(start, end time.Time) bool {
	return Overlaps(r.StartTime, r.EndTime, start, end)
}

// NewReferenceNumber возвращает человекочитаемый номер бронирования:
// две цифры года, месяца и дня плюс трёхзначный случайный суффикс.
// Уникальность гарантирует unique-индекс в БД, при коллизии вставка
// повторяется с новым суффиксом.
func NewReferenceNumber(now time.Time) string {
	return fmt.Sprintf("%s%03d", now.Format(ReferenceDateFormat), rand.Intn(1000))
}

// ValidStatuses список всех допустимых статусов бронирования
var ValidStatuses = []ReservationStatus{
	StatusDraft,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusCancelled,
	StatusCompleted,
	StatusNoShow,
}

// ValidPriorities список всех допустимых приоритетов
var ValidPriorities = []Priority{
	PriorityLow,
	PriorityNormal,
	PriorityHigh,
	PriorityUrgent,
}

// ParseStatus конвертирует строку в ReservationStatus с валидацией
func ParseStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	for _, valid := range ValidStatuses {
		if status == valid {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid reservation status %q", s)
}

// ParsePriority конвертирует строку в Priority с валидацией
// Пустая строка трактуется как normal
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return PriorityNormal, nil
	}
	priority := Priority(s)
	for _, valid := range ValidPriorities {
		if priority == valid {
			return priority, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q", s)
}
