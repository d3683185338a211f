package notifyqueue

import "time"

// ReservationEvent сообщение о событии жизненного цикла бронирования
// Доставкой уведомлений (push, email) занимается отдельный сервис-консьюмер;
// этот сервис только публикует факты переходов
type ReservationEvent struct {
	Kind            string            `json:"kind"`
	ReservationID   int64             `json:"reservationId"`
	ReferenceNumber string            `json:"referenceNumber"`
	LabID           int64             `json:"labId"`
	RequesterID     int64             `json:"requesterId"`
	Status          string            `json:"status"`
	StartTime       time.Time         `json:"startTime"`
	EndTime         time.Time         `json:"endTime"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	EmittedAt       time.Time         `json:"emittedAt"`
}
