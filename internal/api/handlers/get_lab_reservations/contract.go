package get_lab_reservations

import (
	"context"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	"github.com/m04kA/LRS-BookingService/internal/service/reservations/models"
)

type ReservationService interface {
	GetLabReservations(ctx context.Context, req *models.GetLabReservationsRequest) (*models.ReservationListResponse, error)
	GetPendingQueue(ctx context.Context, labID int64, actor domain.Actor) (*models.ReservationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
