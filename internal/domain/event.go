package domain

// EventKind вид события жизненного цикла бронирования
// События публикуются в очередь уведомлений fire-and-forget и никогда
// не блокируют и не откатывают переход
type EventKind string

const (
	EventReservationCreated   EventKind = "reservation.created"
	EventReservationApproved  EventKind = "reservation.approved"
	EventReservationRejected  EventKind = "reservation.rejected"
	EventReservationCancelled EventKind = "reservation.cancelled"
)
