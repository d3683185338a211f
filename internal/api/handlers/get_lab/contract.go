package get_lab

import (
	"context"

	"github.com/m04kA/LRS-BookingService/internal/service/labs/models"
)

type LabService interface {
	GetByID(ctx context.Context, id int64) (*models.LabResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
