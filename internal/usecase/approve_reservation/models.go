package approve_reservation

import "github.com/m04kA/LRS-BookingService/internal/domain"

// Request модель запроса на подтверждение бронирования
type Request struct {
	Actor         domain.Actor
	ReservationID int64
}

// Response модель ответа с подтверждённым бронированием
type Response struct {
	ID              int64
	ReferenceNumber string
	LabID           int64
	Status          string
	ApprovedBy      *int64
	ApprovedAt      string
}
