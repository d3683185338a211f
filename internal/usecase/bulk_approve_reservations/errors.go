package bulk_approve_reservations

import "errors"

var (
	// ErrAccessDenied возвращается, когда роль актора не даёт права
	// подтверждать бронирования
	ErrAccessDenied = errors.New("bulk_approve_reservations: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bulk_approve_reservations: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("bulk_approve_reservations: internal error")
)
