package update_reservation

import (
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// Request модель запроса на обновление бронирования
// Nil-поля остаются без изменений
type Request struct {
	Actor         domain.Actor
	ReservationID int64

	StartTime          *time.Time
	EndTime            *time.Time
	ExpectedAttendance *int
	Purpose            *string
	Priority           *domain.Priority

	// Submit переводит черновик в очередь подтверждения (draft -> pending)
	// Конфликты проверяются в этот момент: черновик не держит интервал
	Submit bool
}

// Response модель ответа с обновлённым бронированием
type Response struct {
	ID                 int64
	ReferenceNumber    string
	LabID              int64
	RequesterID        int64
	StartTime          time.Time
	EndTime            time.Time
	ExpectedAttendance int
	Status             string
	Priority           string
	Purpose            *string
	ApprovedBy         *int64
	ApprovedAt         *time.Time
	UpdatedAt          time.Time
}

// fromDomain конвертирует domain модель в ответ usecase
func fromDomain(res *domain.Reservation) *Response {
	return &Response{
		ID:                 res.ID,
		ReferenceNumber:    res.ReferenceNumber,
		LabID:              res.LabID,
		RequesterID:        res.RequesterID,
		StartTime:          res.StartTime,
		EndTime:            res.EndTime,
		ExpectedAttendance: res.ExpectedAttendance,
		Status:             string(res.Status),
		Priority:           string(res.Priority),
		Purpose:            res.Purpose,
		ApprovedBy:         res.ApprovedBy,
		ApprovedAt:         res.ApprovedAt,
		UpdatedAt:          res.UpdatedAt,
	}
}
