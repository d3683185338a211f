package list_labs

import (
	"context"

	"github.com/m04kA/LRS-BookingService/internal/service/labs/models"
)

type LabService interface {
	List(ctx context.Context, onlyBookable bool) (*models.LabListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
