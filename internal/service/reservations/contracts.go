package reservations

import (
	"context"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByRequester(ctx context.Context, requesterID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	ListByLabAndDate(ctx context.Context, filter domain.LabDayFilter) ([]*domain.Reservation, error)
	ListPendingByLab(ctx context.Context, labID int64) ([]*domain.Reservation, error)
	Reject(ctx context.Context, id int64, rejecterID int64, at time.Time, reason string) error
	Cancel(ctx context.Context, id int64, reason string) error
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus, from []domain.ReservationStatus) error
	CompleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// EventEmitter интерфейс публикации событий жизненного цикла
type EventEmitter interface {
	Emit(kind domain.EventKind, res *domain.Reservation, metadata map[string]string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
