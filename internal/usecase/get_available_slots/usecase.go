package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	labRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/lab"
)

// UseCase use case расчета свободных окон лаборатории
type UseCase struct {
	reservations ReservationRepository
	labs         LabRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(reservations ReservationRepository, labs LabRepository, logger Logger) *UseCase {
	return &UseCase{
		reservations: reservations,
		labs:         labs,
		logger:       logger,
	}
}

// Execute вычисляет свободные окна на дату.
// Кандидаты генерируются с фиксированным шагом 30 минут от открытия;
// шаг не зависит от запрошенной длительности. Занятость считается против
// pending и approved бронирований, границы интервалов полуоткрытые -
// окно, заканчивающееся ровно в начале брони, свободно.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: lab=%d, date=%s, duration=%d",
		req.LabID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	lab, err := uc.labs.GetByID(ctx, req.LabID)
	if err != nil {
		if errors.Is(err, labRepo.ErrLabNotFound) {
			uc.logger.Warn("GetAvailableSlots: lab id=%d not found", req.LabID)
			return nil, ErrLabNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get lab id=%d: %v", req.LabID, err)
		return nil, fmt.Errorf("%w: failed to get lab: %v", ErrInternal, err)
	}

	if !lab.AcceptsReservations() {
		uc.logger.Warn("GetAvailableSlots: lab id=%d is not bookable", req.LabID)
		return nil, ErrLabNotBookable
	}

	resp := &Response{
		LabID: req.LabID,
		Date:  req.Date.Format(domain.DateFormat),
		Slots: []Slot{},
	}

	day := lab.Hours.ForDate(req.Date)
	if !day.IsOpen || day.OpenTime == nil || day.CloseTime == nil {
		return resp, nil
	}

	windowStart, err := day.OpenTime.OnDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad open time: %v", ErrInternal, err)
	}
	windowEnd, err := day.CloseTime.OnDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: bad close time: %v", ErrInternal, err)
	}

	reservations, err := uc.reservations.ListByLabAndDate(ctx, domain.LabDayFilter{
		LabID: req.LabID,
		Date:  req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list reservations: %v", err)
		return nil, fmt.Errorf("%w: failed to list reservations: %v", ErrInternal, err)
	}

	duration := time.Duration(req.DurationMinutes) * time.Minute
	step := time.Duration(domain.SlotStepMinutes) * time.Minute

	for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(step) {
		end := start.Add(duration)
		if uc.isFree(start, end, reservations) {
			resp.Slots = append(resp.Slots, Slot{StartTime: start, EndTime: end})
		}
	}

	uc.logger.Info("GetAvailableSlots: lab=%d, found %d slots", req.LabID, len(resp.Slots))

	return resp, nil
}

func (uc *UseCase) isFree(start, end time.Time, reservations []*domain.Reservation) bool {
	for _, res := range reservations {
		// TODO: продуктовая команда обсуждает 15-минутный буфер между
		// бронированиями; если его примут, расширить res здесь перед проверкой
		if domain.Overlaps(start, end, res.StartTime, res.EndTime) {
			return false
		}
	}
	return true
}

func validateRequest(req *Request) error {
	if req.LabID <= 0 {
		return fmt.Errorf("%w: labID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.DurationMinutes <= 0 {
		return fmt.Errorf("%w: durationMinutes must be positive", ErrInvalidInput)
	}
	return nil
}
