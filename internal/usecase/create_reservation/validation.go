package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor id must be positive", ErrInvalidInput)
	}

	if req.LabID <= 0 {
		return fmt.Errorf("%w: labID must be positive", ErrInvalidInput)
	}

	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return fmt.Errorf("%w: startTime and endTime are required", ErrInvalidInput)
	}

	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.ExpectedAttendance <= 0 {
		return fmt.Errorf("%w: expectedAttendance must be positive", ErrInvalidInput)
	}

	if req.Purpose != nil && len(*req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose exceeds %d characters", ErrInvalidInput, domain.MaxPurposeLength)
	}

	if req.IsRecurring && req.Recurrence == nil {
		return fmt.Errorf("%w: recurrence descriptor is required for recurring reservations", ErrInvalidInput)
	}

	return nil
}

// validateAgainstRules проверяет интервал по правилам лаборатории:
// вместимость, максимальная длительность, окно предварительного бронирования
func validateAgainstRules(lab *domain.Lab, req *Request, now time.Time) error {
	if !lab.FitsCapacity(req.ExpectedAttendance) {
		return fmt.Errorf("%w: requested %d, capacity %d",
			ErrCapacityExceeded, req.ExpectedAttendance, lab.Capacity)
	}

	durationMinutes := int(req.EndTime.Sub(req.StartTime).Minutes())
	if durationMinutes > lab.Rules.MaxBookingDurationMinutes {
		return fmt.Errorf("%w: requested %d minutes, maximum %d",
			ErrDurationTooLong, durationMinutes, lab.Rules.MaxBookingDurationMinutes)
	}

	leadMinutes := int(req.StartTime.Sub(now).Minutes())
	if leadMinutes < lab.Rules.MinAdvanceBookingMinutes {
		return fmt.Errorf("%w: must book at least %d minutes in advance",
			ErrTooLateToBook, lab.Rules.MinAdvanceBookingMinutes)
	}
	if leadMinutes > lab.Rules.MaxAdvanceBookingMinutes {
		return fmt.Errorf("%w: can only book %d minutes in advance",
			ErrTooFarInAdvance, lab.Rules.MaxAdvanceBookingMinutes)
	}

	return nil
}

// validateOperatingHours проверяет, что интервал целиком лежит внутри
// рабочих часов лаборатории в день начала
func validateOperatingHours(lab *domain.Lab, start, end time.Time) error {
	schedule := lab.Hours.ForDate(start)
	if !schedule.IsOpen || schedule.OpenTime == nil || schedule.CloseTime == nil {
		return fmt.Errorf("%w: lab is closed on %s", ErrOutsideOperatingHours, start.Weekday())
	}

	openAt, err := schedule.OpenTime.OnDate(start)
	if err != nil {
		return fmt.Errorf("%w: invalid open time: %v", ErrInternal, err)
	}
	closeAt, err := schedule.CloseTime.OnDate(start)
	if err != nil {
		return fmt.Errorf("%w: invalid close time: %v", ErrInternal, err)
	}

	if start.Before(openAt) || end.After(closeAt) {
		return fmt.Errorf("%w: window is %s-%s", ErrOutsideOperatingHours,
			schedule.OpenTime, schedule.CloseTime)
	}

	return nil
}

// initialStatus решает начальный статус создаваемого бронирования
// Черновик не проходит через очередь подтверждения; актор с правом
// автоподтверждения или лаборатория без требования подтверждения дают
// сразу approved, иначе pending
func initialStatus(lab *domain.Lab, req *Request) domain.ReservationStatus {
	if req.AsDraft {
		return domain.StatusDraft
	}
	if req.Actor.Can().AutoApprove || !lab.Rules.RequireApproval {
		return domain.StatusApproved
	}
	return domain.StatusPending
}
