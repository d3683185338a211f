package models

import (
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// Request модели

// CancelReservationRequest запрос на отмену бронирования
type CancelReservationRequest struct {
	Actor              domain.Actor
	CancellationReason string
}

// RejectReservationRequest запрос на отклонение бронирования
type RejectReservationRequest struct {
	Actor           domain.Actor
	RejectionReason string
}

// GetUserReservationsRequest запрос бронирований пользователя
type GetUserReservationsRequest struct {
	Actor       domain.Actor
	RequesterID int64
	Status      *string
}

// GetLabReservationsRequest запрос бронирований лаборатории на дату
type GetLabReservationsRequest struct {
	Actor           domain.Actor
	LabID           int64
	Date            time.Time
	IncludeInactive bool
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID                 int64   `json:"id"`
	ReferenceNumber    string  `json:"referenceNumber"`
	LabID              int64   `json:"labId"`
	RequesterID        int64   `json:"requesterId"`
	Purpose            *string `json:"purpose,omitempty"`
	StartTime          string  `json:"startTime"` // ISO 8601
	EndTime            string  `json:"endTime"`   // ISO 8601
	ExpectedAttendance int     `json:"expectedAttendance"`
	Status             string  `json:"status"`
	Priority           string  `json:"priority"`

	ApprovedBy *int64  `json:"approvedBy,omitempty"`
	ApprovedAt *string `json:"approvedAt,omitempty"`

	RejectedBy      *int64  `json:"rejectedBy,omitempty"`
	RejectedAt      *string `json:"rejectedAt,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`

	CancelledAt        *string `json:"cancelledAt,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	IsRecurring bool `json:"isRecurring"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:                 r.ID,
		ReferenceNumber:    r.ReferenceNumber,
		LabID:              r.LabID,
		RequesterID:        r.RequesterID,
		Purpose:            r.Purpose,
		StartTime:          r.StartTime.Format(time.RFC3339),
		EndTime:            r.EndTime.Format(time.RFC3339),
		ExpectedAttendance: r.ExpectedAttendance,
		Status:             string(r.Status),
		Priority:           string(r.Priority),
		ApprovedBy:         r.ApprovedBy,
		RejectedBy:         r.RejectedBy,
		RejectionReason:    r.RejectionReason,
		CancellationReason: r.CancellationReason,
		IsRecurring:        r.IsRecurring,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}

	resp.ApprovedAt = formatTime(r.ApprovedAt)
	resp.RejectedAt = formatTime(r.RejectedAt)
	resp.CancelledAt = formatTime(r.CancelledAt)

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(reservations []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(reservations)),
	}

	for _, r := range reservations {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}

	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
