package mark_no_show

import (
	"context"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

type ReservationService interface {
	MarkNoShow(ctx context.Context, reservationID int64, actor domain.Actor) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
