package update_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	labRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/lab"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
)

// UseCase use case для обновления бронирования
type UseCase struct {
	reservations ReservationRepository
	labs         LabRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	labs LabRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		labs:         labs,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case обновления бронирования
// Гард "можно менять" - чистая функция статуса и текущего времени,
// перевычисляется при каждой попытке. Изменение значимого поля (время,
// число участников) у approved бронирования откатывает его в pending
// и очищает поля подтверждения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateReservation: actor=%d, reservation=%d, submit=%t",
		req.Actor.ID, req.ReservationID, req.Submit)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	var result *domain.Reservation

	// 3. Читаем, проверяем и пишем в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := uc.reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("UpdateReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// 3.1. Только владелец или актор с повышенной ролью
		if res.RequesterID != req.Actor.ID && !req.Actor.Can().CanApprove {
			uc.logger.Warn("UpdateReservation: access denied for actor=%d to reservation id=%d",
				req.Actor.ID, res.ID)
			return ErrAccessDenied
		}

		// 3.2. Гард изменяемости
		if !res.IsModifiable(now) {
			uc.logger.Warn("UpdateReservation: reservation id=%d is not modifiable (status=%s, start=%s)",
				res.ID, res.Status, res.StartTime.Format(time.RFC3339))
			return ErrNotModifiable
		}

		if req.Submit && res.Status != domain.StatusDraft {
			uc.logger.Warn("UpdateReservation: reservation id=%d is not a draft (status=%s)", res.ID, res.Status)
			return ErrNotDraft
		}

		// 3.3. Применяем изменения поверх текущих значений
		newStart := res.StartTime
		newEnd := res.EndTime
		if req.StartTime != nil {
			newStart = *req.StartTime
		}
		if req.EndTime != nil {
			newEnd = *req.EndTime
		}
		if !newEnd.After(newStart) {
			return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
		}

		newAttendance := res.ExpectedAttendance
		if req.ExpectedAttendance != nil {
			newAttendance = *req.ExpectedAttendance
		}

		intervalChanged := !newStart.Equal(res.StartTime) || !newEnd.Equal(res.EndTime)
		significantChanged := intervalChanged || newAttendance != res.ExpectedAttendance

		// 3.4. Перепроверяем правила лаборатории для новых значений
		lab, err := uc.labs.GetByID(txCtx, res.LabID)
		if err != nil {
			if errors.Is(err, labRepo.ErrLabNotFound) {
				return ErrLabNotFound
			}
			uc.logger.Error("UpdateReservation: failed to get lab id=%d: %v", res.LabID, err)
			return fmt.Errorf("%w: failed to get lab: %v", ErrInternal, err)
		}

		if err := validateAgainstLab(lab, newStart, newEnd, newAttendance); err != nil {
			uc.logger.Warn("UpdateReservation: lab validation failed: %v", err)
			return err
		}

		// 3.5. Конфликты: при изменении интервала (исключая собственное
		// бронирование) и при отправке черновика в очередь
		if intervalChanged || (req.Submit && res.Status == domain.StatusDraft) {
			conflicts, err := uc.reservations.FindOverlapping(
				txCtx, res.LabID, newStart, newEnd, &res.ID, domain.ActiveStatuses)
			if err != nil {
				uc.logger.Error("UpdateReservation: failed to find overlapping: %v", err)
				return fmt.Errorf("%w: failed to find overlapping: %v", ErrInternal, err)
			}
			if len(conflicts) > 0 {
				uc.logger.Warn("UpdateReservation: %d conflicting reservation(s) for id=%d",
					len(conflicts), res.ID)
				return &ConflictError{Conflicts: conflicts}
			}
		}

		res.StartTime = newStart
		res.EndTime = newEnd
		res.ExpectedAttendance = newAttendance
		if req.Purpose != nil {
			res.Purpose = req.Purpose
		}
		if req.Priority != nil {
			res.Priority = *req.Priority
		}

		// 3.6. Переходы статуса: submit черновика и принудительное
		// переподтверждение после значимого изменения
		if req.Submit && res.Status == domain.StatusDraft {
			res.Status = domain.StatusPending
		}
		if significantChanged && res.Status == domain.StatusApproved {
			uc.logger.Info("UpdateReservation: significant change on approved id=%d, reverting to pending", res.ID)
			res.Status = domain.StatusPending
			res.ApprovedBy = nil
			res.ApprovedAt = nil
		}

		if err := uc.reservations.Update(txCtx, res); err != nil {
			uc.logger.Error("UpdateReservation: failed to update reservation id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %v", ErrInternal, err)
		}

		result = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateReservation: updated reservation id=%d status=%s", result.ID, result.Status)
	return fromDomain(result), nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Actor.ID <= 0 {
		return fmt.Errorf("%w: actor id must be positive", ErrInvalidInput)
	}
	if req.ReservationID <= 0 {
		return fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}
	if req.StartTime == nil && req.EndTime == nil && req.ExpectedAttendance == nil &&
		req.Purpose == nil && req.Priority == nil && !req.Submit {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if req.ExpectedAttendance != nil && *req.ExpectedAttendance <= 0 {
		return fmt.Errorf("%w: expectedAttendance must be positive", ErrInvalidInput)
	}
	if req.Purpose != nil && len(*req.Purpose) > domain.MaxPurposeLength {
		return fmt.Errorf("%w: purpose exceeds %d characters", ErrInvalidInput, domain.MaxPurposeLength)
	}
	return nil
}

// validateAgainstLab проверяет новые значения по правилам лаборатории
func validateAgainstLab(lab *domain.Lab, start, end time.Time, attendance int) error {
	if !lab.FitsCapacity(attendance) {
		return fmt.Errorf("%w: requested %d, capacity %d", ErrCapacityExceeded, attendance, lab.Capacity)
	}

	durationMinutes := int(end.Sub(start).Minutes())
	if durationMinutes > lab.Rules.MaxBookingDurationMinutes {
		return fmt.Errorf("%w: requested %d minutes, maximum %d",
			ErrDurationTooLong, durationMinutes, lab.Rules.MaxBookingDurationMinutes)
	}

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
