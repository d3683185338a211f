package labs

import "errors"

var (
	// ErrLabNotFound лаборатория не найдена
	ErrLabNotFound = errors.New("lab not found")

	// ErrAccessDenied недостаточно прав для операции
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrCapacityBelowReservations новая вместимость меньше ожидаемой
	// посещаемости уже существующих активных бронирований
	ErrCapacityBelowReservations = errors.New("capacity is below active reservations attendance")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal error")
)
