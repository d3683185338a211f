package get_available_slots

import "errors"

var (
	// ErrLabNotFound возвращается, когда лаборатория не найдена
	ErrLabNotFound = errors.New("get_available_slots: lab not found")

	// ErrLabNotBookable возвращается, когда лаборатория неактивна или
	// находится на обслуживании
	ErrLabNotBookable = errors.New("get_available_slots: lab does not accept reservations")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
