package update_reservation

import (
	"errors"
	"fmt"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("update_reservation: reservation not found")

	// ErrLabNotFound возвращается, когда лаборатория бронирования не найдена
	ErrLabNotFound = errors.New("update_reservation: lab not found")

	// ErrAccessDenied возвращается, когда актор не владелец и не имеет
	// повышенной роли
	ErrAccessDenied = errors.New("update_reservation: access denied")

	// ErrNotModifiable возвращается, когда бронирование нельзя менять:
	// терминальный статус или до начала осталось меньше двух часов
	ErrNotModifiable = errors.New("update_reservation: reservation is not modifiable")

	// ErrNotDraft возвращается при попытке отправить на подтверждение
	// бронирование не в статусе черновика
	ErrNotDraft = errors.New("update_reservation: only drafts can be submitted")

	// ErrCapacityExceeded возвращается, когда ожидаемое число участников
	// превышает вместимость лаборатории
	ErrCapacityExceeded = errors.New("update_reservation: expected attendance exceeds lab capacity")

	// ErrDurationTooLong возвращается, когда интервал длиннее максимально
	// допустимого для лаборатории
	ErrDurationTooLong = errors.New("update_reservation: duration exceeds lab maximum")

	// ErrOutsideOperatingHours возвращается, когда интервал выходит за
	// рабочие часы лаборатории
	ErrOutsideOperatingHours = errors.New("update_reservation: interval is outside operating hours")

	// ErrTimeConflict возвращается при пересечении с существующими
	// активными бронированиями
	ErrTimeConflict = errors.New("update_reservation: time conflict with existing reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_reservation: internal error")
)

// ConflictError несёт список пересекающихся бронирований
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
