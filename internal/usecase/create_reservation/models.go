package create_reservation

import (
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	Actor              domain.Actor       // Аутентифицированный заявитель
	LabID              int64              // ID лаборатории
	StartTime          time.Time          // Начало интервала
	EndTime            time.Time          // Конец интервала (строго позже начала)
	ExpectedAttendance int                // Ожидаемое число участников
	Purpose            *string            // Цель бронирования (опционально)
	Priority           domain.Priority    // Приоритет (только ключ сортировки)
	AsDraft            bool               // Создать черновик: не участвует в конфликтах
	IsRecurring        bool               // Повторяющееся бронирование
	Recurrence         *domain.Recurrence // Описание повторения (если IsRecurring)
}

// Response модель ответа с созданным бронированием
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
	IsRecurring        bool
	Recurrence         *domain.Recurrence
	CreatedAt          time.Time
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
		IsRecurring:        res.IsRecurring,
		Recurrence:         res.Recurrence,
		CreatedAt:          res.CreatedAt,
		UpdatedAt:          res.UpdatedAt,
	}
}
