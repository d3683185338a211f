package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrReferenceNumberTaken возвращается при коллизии номера бронирования
	// Вызывающий генерирует новый номер и повторяет вставку
	ErrReferenceNumberTaken = errors.New("reservation.repository: reference number already taken")

	// ErrInvalidTransition возвращается, когда UPDATE перехода не затронул
	// ни одной строки: бронирование отсутствует или уже не в статусе,
	// из которого переход разрешен
	ErrInvalidTransition = errors.New("reservation.repository: status does not allow this transition")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
