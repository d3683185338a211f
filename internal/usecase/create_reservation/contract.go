package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	FindOverlapping(ctx context.Context, labID int64, start, end time.Time, excludeID *int64, statuses []domain.ReservationStatus) ([]*domain.Reservation, error)
}

// LabRepository интерфейс каталога лабораторий
type LabRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Lab, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventEmitter интерфейс публикации событий жизненного цикла
// Эмиссия асинхронная и не возвращает ошибку
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
