package labs

import (
	"context"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// LabRepository интерфейс каталога лабораторий
type LabRepository interface {
	Create(ctx context.Context, lab *domain.Lab) (*domain.Lab, error)
	GetByID(ctx context.Context, id int64) (*domain.Lab, error)
	List(ctx context.Context, onlyBookable bool) ([]*domain.Lab, error)
	Update(ctx context.Context, lab *domain.Lab) error
}

// ReservationReader читает агрегаты по активным бронированиям лаборатории
// Нужен для защиты уменьшения вместимости: активные бронирования не должны
// превысить новую вместимость
type ReservationReader interface {
	MaxActiveAttendance(ctx context.Context, labID int64) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
