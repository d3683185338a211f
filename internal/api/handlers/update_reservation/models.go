package update_reservation

import (
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	updateReservation "github.com/m04kA/LRS-BookingService/internal/usecase/update_reservation"
)

// UpdateReservationRequest HTTP request model; nil поля не меняются
type UpdateReservationRequest struct {
	StartTime          *string `json:"startTime,omitempty"` // RFC 3339
	EndTime            *string `json:"endTime,omitempty"`   // RFC 3339
	ExpectedAttendance *int    `json:"expectedAttendance,omitempty"`
	Purpose            *string `json:"purpose,omitempty"`
	Priority           *string `json:"priority,omitempty"`
	Submit             bool    `json:"submit,omitempty"`
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
	UpdatedAt          string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateReservationRequest) ToUseCaseRequest(actor domain.Actor, reservationID int64) (*updateReservation.Request, error) {
	req := &updateReservation.Request{
		Actor:              actor,
		ReservationID:      reservationID,
		ExpectedAttendance: r.ExpectedAttendance,
		Purpose:            r.Purpose,
		Submit:             r.Submit,
	}

	if r.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}
	if r.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}
	if r.Priority != nil {
		priority, err := domain.ParsePriority(*r.Priority)
		if err != nil {
			return nil, err
		}
		req.Priority = &priority
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(res *updateReservation.Response) *ReservationResponse {
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
		UpdatedAt:          res.UpdatedAt.Format(time.RFC3339),
	}

	if res.ApprovedAt != nil {
		approvedAt := res.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}

	return resp
}
