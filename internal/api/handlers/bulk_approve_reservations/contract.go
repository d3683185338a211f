package bulk_approve_reservations

import (
	"context"

	bulkApprove "github.com/m04kA/LRS-BookingService/internal/usecase/bulk_approve_reservations"
)

type BulkApproveUseCase interface {
	Execute(ctx context.Context, req *bulkApprove.Request) (*bulkApprove.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
