package create_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

var (
	// ErrLabNotFound возвращается, когда лаборатория не найдена
	ErrLabNotFound = errors.New("create_reservation: lab not found")

	// ErrLabNotBookable возвращается, когда лаборатория неактивна или
	// находится на обслуживании
	ErrLabNotBookable = errors.New("create_reservation: lab does not accept reservations")

	// ErrCapacityExceeded возвращается, когда ожидаемое число участников
	// превышает вместимость лаборатории
	ErrCapacityExceeded = errors.New("create_reservation: expected attendance exceeds lab capacity")

	// ErrDurationTooLong возвращается, когда интервал длиннее максимально
	// допустимого для лаборатории
	ErrDurationTooLong = errors.New("create_reservation: duration exceeds lab maximum")

	// ErrTooLateToBook возвращается, когда до начала остаётся меньше
	// минимального обязательного запаса
	ErrTooLateToBook = errors.New("create_reservation: too late to book this interval")

	// ErrTooFarInAdvance возвращается, когда до начала дальше максимального
	// окна предварительного бронирования
	ErrTooFarInAdvance = errors.New("create_reservation: interval is too far in the future")

	// ErrOutsideOperatingHours возвращается, когда интервал выходит за
	// рабочие часы лаборатории или лаборатория закрыта в этот день
	ErrOutsideOperatingHours = errors.New("create_reservation: interval is outside operating hours")

	// ErrRecurringNotAllowed возвращается, когда лаборатория не разрешает
	// повторяющиеся бронирования
	ErrRecurringNotAllowed = errors.New("create_reservation: lab does not allow recurring reservations")

	// ErrTimeConflict возвращается при пересечении с существующими
	// активными бронированиями
	ErrTimeConflict = errors.New("create_reservation: time conflict with existing reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)

// ConflictError несёт список пересекающихся бронирований, чтобы вызывающий
// мог показать, с чем именно конфликтует запрошенный интервал
// errors.Is(err, ErrTimeConflict) возвращает true
type ConflictError struct {
	Conflicts []*domain.Reservation
}

// Error реализует error
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %d overlapping reservation(s)", ErrTimeConflict, len(e.Conflicts))
}

// Unwrap позволяет сопоставлять ошибку с ErrTimeConflict через errors.Is
func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}
