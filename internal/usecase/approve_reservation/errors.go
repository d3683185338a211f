package approve_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("approve_reservation: reservation not found")

	// ErrAccessDenied возвращается, когда роль актора не даёт права
	// подтверждать бронирования
	ErrAccessDenied = errors.New("approve_reservation: access denied")

	// ErrNotPending возвращается при попытке подтвердить бронирование
	// не в статусе pending (повторное подтверждение тоже попадает сюда:
	// операция не должна молча обрабатываться дважды)
	ErrNotPending = errors.New("approve_reservation: reservation is not pending")

	// ErrTimeConflict возвращается, когда интервал пересекается с уже
	// подтверждённым бронированием; бронирование остаётся pending
	ErrTimeConflict = errors.New("approve_reservation: time conflict with approved reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("approve_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("approve_reservation: internal error")
)

// ConflictError несёт список пересекающихся подтверждённых бронирований
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
