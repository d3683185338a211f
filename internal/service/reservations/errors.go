package reservations

import "errors"

var (
	// ErrReservationNotFound бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied недостаточно прав для операции
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel бронирование нельзя отменить: терминальный статус
	// или до начала осталось меньше часа
	ErrCannotCancel = errors.New("reservation cannot be cancelled")

	// ErrNotPending операция применима только к pending бронированию
	ErrNotPending = errors.New("reservation is not pending")

	// ErrNotApproved операция применима только к approved бронированию
	ErrNotApproved = errors.New("reservation is not approved")

	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal error")
)
