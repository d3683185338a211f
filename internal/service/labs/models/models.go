package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	"github.com/m04kA/LRS-BookingService/pkg/types"
)

var (
	// ErrInvalidSchedule возвращается при некорректном расписании
	ErrInvalidSchedule = errors.New("invalid operating schedule")
)

// Request модели

// DayScheduleInput расписание одного дня недели
type DayScheduleInput struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`  // "09:00"
	CloseTime *string `json:"closeTime,omitempty"` // "18:00"
}

// OperatingHoursInput расписание работы по дням недели
type OperatingHoursInput struct {
	Monday    DayScheduleInput `json:"monday"`
	Tuesday   DayScheduleInput `json:"tuesday"`
	Wednesday DayScheduleInput `json:"wednesday"`
	Thursday  DayScheduleInput `json:"thursday"`
	Friday    DayScheduleInput `json:"friday"`
	Saturday  DayScheduleInput `json:"saturday"`
	Sunday    DayScheduleInput `json:"sunday"`
}

// BookingRulesInput правила бронирования; nil поля получают значения по умолчанию
type BookingRulesInput struct {
	MaxBookingDurationMinutes *int  `json:"maxBookingDurationMinutes,omitempty"`
	MinAdvanceBookingMinutes  *int  `json:"minAdvanceBookingMinutes,omitempty"`
	MaxAdvanceBookingMinutes  *int  `json:"maxAdvanceBookingMinutes,omitempty"`
	AllowRecurring            *bool `json:"allowRecurring,omitempty"`
	RequireApproval           *bool `json:"requireApproval,omitempty"`
}

// CreateLabRequest запрос на создание лаборатории
type CreateLabRequest struct {
	Actor       domain.Actor
	Name        string
	Description *string
	OwnerID     *int64
	Capacity    int
	Hours       OperatingHoursInput
	Rules       *BookingRulesInput
}

// UpdateLabRequest запрос на обновление лаборатории; nil поля не меняются
type UpdateLabRequest struct {
	Actor            domain.Actor
	Name             *string
	Description      *string
	Capacity         *int
	Active           *bool
	UnderMaintenance *bool
	Hours            *OperatingHoursInput
	Rules            *BookingRulesInput
}

// Response модели

// DayScheduleResponse расписание одного дня недели
type DayScheduleResponse struct {
	IsOpen    bool    `json:"isOpen"`
	OpenTime  *string `json:"openTime,omitempty"`
	CloseTime *string `json:"closeTime,omitempty"`
}

// OperatingHoursResponse расписание работы по дням недели
type OperatingHoursResponse struct {
	Monday    DayScheduleResponse `json:"monday"`
	Tuesday   DayScheduleResponse `json:"tuesday"`
	Wednesday DayScheduleResponse `json:"wednesday"`
	Thursday  DayScheduleResponse `json:"thursday"`
	Friday    DayScheduleResponse `json:"friday"`
	Saturday  DayScheduleResponse `json:"saturday"`
	Sunday    DayScheduleResponse `json:"sunday"`
}

// BookingRulesResponse правила бронирования
type BookingRulesResponse struct {
	MaxBookingDurationMinutes int  `json:"maxBookingDurationMinutes"`
	MinAdvanceBookingMinutes  int  `json:"minAdvanceBookingMinutes"`
	MaxAdvanceBookingMinutes  int  `json:"maxAdvanceBookingMinutes"`
	AllowRecurring            bool `json:"allowRecurring"`
	RequireApproval           bool `json:"requireApproval"`
}

// LabResponse ответ с данными лаборатории
type LabResponse struct {
	ID               int64                  `json:"id"`
	Name             string                 `json:"name"`
	Description      *string                `json:"description,omitempty"`
	OwnerID          int64                  `json:"ownerId"`
	Capacity         int                    `json:"capacity"`
	Active           bool                   `json:"active"`
	UnderMaintenance bool                   `json:"underMaintenance"`
	Hours            OperatingHoursResponse `json:"operatingHours"`
	Rules            BookingRulesResponse   `json:"bookingRules"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

// LabListResponse ответ со списком лабораторий
type LabListResponse struct {
	Labs []LabResponse `json:"labs"`
}

// Методы конвертации

// ToDomainHours конвертирует расписание в domain модель с валидацией
func (h *OperatingHoursInput) ToDomainHours() (domain.OperatingHours, error) {
	var hours domain.OperatingHours
	var err error

	days := []struct {
		name string
		in   DayScheduleInput
		out  *domain.DaySchedule
	}{
		{"monday", h.Monday, &hours.Monday},
		{"tuesday", h.Tuesday, &hours.Tuesday},
		{"wednesday", h.Wednesday, &hours.Wednesday},
		{"thursday", h.Thursday, &hours.Thursday},
		{"friday", h.Friday, &hours.Friday},
		{"saturday", h.Saturday, &hours.Saturday},
		{"sunday", h.Sunday, &hours.Sunday},
	}

	for _, day := range days {
		*day.out, err = toDomainDay(day.in)
		if err != nil {
			return hours, fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, day.name, err)
		}
	}

	return hours, nil
}

func toDomainDay(in DayScheduleInput) (domain.DaySchedule, error) {
	out := domain.DaySchedule{IsOpen: in.IsOpen}
	if !in.IsOpen {
		return out, nil
	}

	if in.OpenTime == nil || in.CloseTime == nil {
		return out, errors.New("open day requires openTime and closeTime")
	}

	open, err := types.NewTimeStringFromString(*in.OpenTime)
	if err != nil {
		return out, err
	}
	closeAt, err := types.NewTimeStringFromString(*in.CloseTime)
	if err != nil {
		return out, err
	}
	if !open.IsBefore(closeAt) {
		return out, errors.New("openTime must be before closeTime")
	}

	out.OpenTime = &open
	out.CloseTime = &closeAt
	return out, nil
}

// ToDomainRules конвертирует правила в domain модель, подставляя значения
// по умолчанию для незаданных полей
func (r *BookingRulesInput) ToDomainRules() domain.BookingRules {
	rules := domain.BookingRules{
		MaxBookingDurationMinutes: domain.DefaultMaxBookingDurationMinutes,
		MinAdvanceBookingMinutes:  domain.DefaultMinAdvanceBookingMinutes,
		MaxAdvanceBookingMinutes:  domain.DefaultMaxAdvanceBookingMinutes,
		AllowRecurring:            false,
		RequireApproval:           true,
	}
	if r == nil {
		return rules
	}

	if r.MaxBookingDurationMinutes != nil {
		rules.MaxBookingDurationMinutes = *r.MaxBookingDurationMinutes
	}
	if r.MinAdvanceBookingMinutes != nil {
		rules.MinAdvanceBookingMinutes = *r.MinAdvanceBookingMinutes
	}
	if r.MaxAdvanceBookingMinutes != nil {
		rules.MaxAdvanceBookingMinutes = *r.MaxAdvanceBookingMinutes
	}
	if r.AllowRecurring != nil {
		rules.AllowRecurring = *r.AllowRecurring
	}
	if r.RequireApproval != nil {
		rules.RequireApproval = *r.RequireApproval
	}

	return rules
}

// ApplyToRules накладывает заданные поля на существующие правила
func (r *BookingRulesInput) ApplyToRules(rules *domain.BookingRules) {
	if r == nil {
		return
	}
	if r.MaxBookingDurationMinutes != nil {
		rules.MaxBookingDurationMinutes = *r.MaxBookingDurationMinutes
	}
	if r.MinAdvanceBookingMinutes != nil {
		rules.MinAdvanceBookingMinutes = *r.MinAdvanceBookingMinutes
	}
	if r.MaxAdvanceBookingMinutes != nil {
		rules.MaxAdvanceBookingMinutes = *r.MaxAdvanceBookingMinutes
	}
	if r.AllowRecurring != nil {
		rules.AllowRecurring = *r.AllowRecurring
	}
	if r.RequireApproval != nil {
		rules.RequireApproval = *r.RequireApproval
	}
}

// FromDomainLab конвертирует domain модель в DTO
func FromDomainLab(l *domain.Lab) *LabResponse {
	if l == nil {
		return nil
	}

	return &LabResponse{
		ID:               l.ID,
		Name:             l.Name,
		Description:      l.Description,
		OwnerID:          l.OwnerID,
		Capacity:         l.Capacity,
		Active:           l.Active,
		UnderMaintenance: l.UnderMaintenance,
		Hours:            fromDomainHours(l.Hours),
		Rules: BookingRulesResponse{
			MaxBookingDurationMinutes: l.Rules.MaxBookingDurationMinutes,
			MinAdvanceBookingMinutes:  l.Rules.MinAdvanceBookingMinutes,
			MaxAdvanceBookingMinutes:  l.Rules.MaxAdvanceBookingMinutes,
			AllowRecurring:            l.Rules.AllowRecurring,
			RequireApproval:           l.Rules.RequireApproval,
		},
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// FromDomainLabList конвертирует список domain моделей в DTO
func FromDomainLabList(labs []*domain.Lab) *LabListResponse {
	resp := &LabListResponse{
		Labs: make([]LabResponse, 0, len(labs)),
	}
	for _, l := range labs {
		if item := FromDomainLab(l); item != nil {
			resp.Labs = append(resp.Labs, *item)
		}
	}
	return resp
}

func fromDomainHours(h domain.OperatingHours) OperatingHoursResponse {
	return OperatingHoursResponse{
		Monday:    fromDomainDay(h.Monday),
		Tuesday:   fromDomainDay(h.Tuesday),
		Wednesday: fromDomainDay(h.Wednesday),
		Thursday:  fromDomainDay(h.Thursday),
		Friday:    fromDomainDay(h.Friday),
		Saturday:  fromDomainDay(h.Saturday),
		Sunday:    fromDomainDay(h.Sunday),
	}
}

func fromDomainDay(d domain.DaySchedule) DayScheduleResponse {
	out := DayScheduleResponse{IsOpen: d.IsOpen}
	if d.OpenTime != nil {
		s := d.OpenTime.String()
		out.OpenTime = &s
	}
	if d.CloseTime != nil {
		s := d.CloseTime.String()
		out.CloseTime = &s
	}
	return out
}
