package update_lab

import (
	"github.com/m04kA/LRS-BookingService/internal/domain"
	"github.com/m04kA/LRS-BookingService/internal/service/labs/models"
)

// UpdateLabRequest HTTP request model; nil поля не меняются
type UpdateLabRequest struct {
	Name             *string                     `json:"name,omitempty"`
	Description      *string                     `json:"description,omitempty"`
	Capacity         *int                        `json:"capacity,omitempty"`
	Active           *bool                       `json:"active,omitempty"`
	UnderMaintenance *bool                       `json:"underMaintenance,omitempty"`
	OperatingHours   *models.OperatingHoursInput `json:"operatingHours,omitempty"`
	BookingRules     *models.BookingRulesInput   `json:"bookingRules,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateLabRequest) ToServiceRequest(actor domain.Actor) *models.UpdateLabRequest {
	return &models.UpdateLabRequest{
		Actor:            actor,
		Name:             r.Name,
		Description:      r.Description,
		Capacity:         r.Capacity,
		Active:           r.Active,
		UnderMaintenance: r.UnderMaintenance,
		Hours:            r.OperatingHours,
		Rules:            r.BookingRules,
	}
}
