package get_available_slots

import (
	"context"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	ListByLabAndDate(ctx context.Context, filter domain.LabDayFilter) ([]*domain.Reservation, error)
}

// LabRepository интерфейс каталога лабораторий
type LabRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lab, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
