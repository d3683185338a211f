package create_reservation

import (
	"errors"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	createReservation "github.com/m04kA/LRS-BookingService/internal/usecase/create_reservation"
)

// RecurrenceRequest описание повторения в HTTP запросе
type RecurrenceRequest struct {
	Frequency  string  `json:"frequency"` // daily | weekly | monthly
	Interval   int     `json:"interval"`
	EndDate    *string `json:"endDate,omitempty"` // "2026-06-30"
	DaysOfWeek []int   `json:"daysOfWeek,omitempty"`
}

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	LabID              int64              `json:"labId"`
	StartTime          string             `json:"startTime"` // RFC 3339
	EndTime            string             `json:"endTime"`   // RFC 3339
	ExpectedAttendance int                `json:"expectedAttendance"`
	Purpose            *string            `json:"purpose,omitempty"`
	Priority           string             `json:"priority,omitempty"`
	AsDraft            bool               `json:"asDraft,omitempty"`
	IsRecurring        bool               `json:"isRecurring,omitempty"`
	Recurrence         *RecurrenceRequest `json:"recurrence,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID                 int64   `json:"id"`
	ReferenceNumber    string  `json:"referenceNumber"`
	LabID              int64   `json:"labId"`
	RequesterID        int64   `json:"requesterId"`
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	ExpectedAttendance int     `json:"expectedAttendance"`
	Status             string  `json:"status"`
	Priority           string  `json:"priority"`
	Purpose            *string `json:"purpose,omitempty"`
	ApprovedBy         *int64  `json:"approvedBy,omitempty"`
	ApprovedAt         *string `json:"approvedAt,omitempty"`
	IsRecurring        bool    `json:"isRecurring"`
	CreatedAt          string  `json:"createdAt"`
	UpdatedAt          string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(actor domain.Actor) (*createReservation.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	priority, err := domain.ParsePriority(r.Priority)
	if err != nil {
		return nil, err
	}

	var recurrence *domain.Recurrence
	if r.Recurrence != nil {
		recurrence, err = r.Recurrence.toDomain()
		if err != nil {
			return nil, err
		}
	}

	return &createReservation.Request{
		Actor:              actor,
		LabID:              r.LabID,
		StartTime:          startTime,
		EndTime:            endTime,
		ExpectedAttendance: r.ExpectedAttendance,
		Purpose:            r.Purpose,
		Priority:           priority,
		AsDraft:            r.AsDraft,
		IsRecurring:        r.IsRecurring,
		Recurrence:         recurrence,
	}, nil
}

func (r *RecurrenceRequest) toDomain() (*domain.Recurrence, error) {
	frequency := domain.RecurrenceFrequency(r.Frequency)
	switch frequency {
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly:
	default:
		return nil, errors.New("invalid recurrence frequency")
	}

	out := &domain.Recurrence{
		Frequency: frequency,
		Interval:  r.Interval,
	}

	if r.EndDate != nil {
		endDate, err := time.Parse(domain.DateFormat, *r.EndDate)
		if err != nil {
			return nil, err
		}
		out.EndDate = &endDate
	}

	for _, day := range r.DaysOfWeek {
		if day < 0 || day > 6 {
			return nil, errors.New("invalid day of week")
		}
		out.DaysOfWeek = append(out.DaysOfWeek, time.Weekday(day))
	}

	return out, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(res *createReservation.Response) *ReservationResponse {
	resp := &ReservationResponse{
		ID:                 res.ID,
		ReferenceNumber:    res.ReferenceNumber,
		LabID:              res.LabID,
		RequesterID:        res.RequesterID,
		StartTime:          res.StartTime.Format(time.RFC3339),
		EndTime:            res.EndTime.Format(time.RFC3339),
		ExpectedAttendance: res.ExpectedAttendance,
		Status:             res.Status,
		Priority:           res.Priority,
		Purpose:            res.Purpose,
		ApprovedBy:         res.ApprovedBy,
		IsRecurring:        res.IsRecurring,
		CreatedAt:          res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          res.UpdatedAt.Format(time.RFC3339),
	}

	if res.ApprovedAt != nil {
		approvedAt := res.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}

	return resp
}
