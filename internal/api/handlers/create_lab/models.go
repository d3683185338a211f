package create_lab

import (
	"github.com/m04kA/LRS-BookingService/internal/domain"
	"github.com/m04kA/LRS-BookingService/internal/service/labs/models"
)

// CreateLabRequest HTTP request model
type CreateLabRequest struct {
	Name           string                      `json:"name"`
	Description    *string                     `json:"description,omitempty"`
	OwnerID        *int64                      `json:"ownerId,omitempty"`
	Capacity       int                         `json:"capacity"`
	OperatingHours models.OperatingHoursInput  `json:"operatingHours"`
	BookingRules   *models.BookingRulesInput   `json:"bookingRules,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateLabRequest) ToServiceRequest(actor domain.Actor) *models.CreateLabRequest {
	return &models.CreateLabRequest{
		Actor:       actor,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		Capacity:    r.Capacity,
		Hours:       r.OperatingHours,
		Rules:       r.BookingRules,
	}
}
