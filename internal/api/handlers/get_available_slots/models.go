package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/LRS-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse свободное окно
type SlotResponse struct {
	StartTime string `json:"startTime"` // RFC 3339
	EndTime   string `json:"endTime"`   // RFC 3339
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	LabID int64          `json:"labId"`
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(res *getAvailableSlots.Response) *AvailableSlotsResponse {
	resp := &AvailableSlotsResponse{
		LabID: res.LabID,
		Date:  res.Date,
		Slots: make([]SlotResponse, 0, len(res.Slots)),
	}

	for _, slot := range res.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			StartTime: slot.StartTime.Format(time.RFC3339),
			EndTime:   slot.EndTime.Format(time.RFC3339),
		})
	}

	return resp
}
