package approve_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
)

// UseCase use case подтверждения бронирования
type UseCase struct {
	reservations ReservationRepository
	txManager    TransactionManager
	emitter      EventEmitter
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	txManager TransactionManager,
	emitter EventEmitter,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		txManager:    txManager,
		emitter:      emitter,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет подтверждение бронирования
// Перед фиксацией конфликты перепроверяются только против approved
// бронирований: pending соседи не мешают подтверждению. Проверка и запись
// выполняются в одной сериализуемой транзакции - два подтверждающих,
// гонящихся за пересекающиеся pending бронирования, не могут подтвердить оба
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveReservation: actor=%d role=%s, reservation=%d",
		req.Actor.ID, req.Actor.Role, req.ReservationID)

	if req.ReservationID <= 0 {
		return nil, fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	// Роль проверяется один раз по таблице возможностей
	if !req.Actor.Can().CanApprove {
		uc.logger.Warn("ApproveReservation: actor=%d role=%s cannot approve", req.Actor.ID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()

	var result *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := uc.reservations.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("ApproveReservation: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("ApproveReservation: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
		}

		// Подтверждать можно только из pending; повторное подтверждение
		// возвращает ошибку, а не молчаливый успех
		if res.Status != domain.StatusPending {
			uc.logger.Warn("ApproveReservation: reservation id=%d is %s, not pending", res.ID, res.Status)
			return ErrNotPending
		}

		conflicts, err := uc.reservations.FindOverlapping(
			txCtx, res.LabID, res.StartTime, res.EndTime, &res.ID,
			[]domain.ReservationStatus{domain.StatusApproved})
		if err != nil {
			uc.logger.Error("ApproveReservation: failed to find overlapping: %v", err)
			return fmt.Errorf("%w: failed to find overlapping: %v", ErrInternal, err)
		}
		if len(conflicts) > 0 {
			uc.logger.Warn("ApproveReservation: reservation id=%d conflicts with %d approved",
				res.ID, len(conflicts))
			return &ConflictError{Conflicts: conflicts}
		}

		if err := uc.reservations.Approve(txCtx, res.ID, req.Actor.ID, now); err != nil {
			uc.logger.Error("ApproveReservation: failed to approve id=%d: %v", res.ID, err)
			return fmt.Errorf("%w: failed to approve: %v", ErrInternal, err)
		}

		res.Status = domain.StatusApproved
		res.ApprovedBy = &req.Actor.ID
		res.ApprovedAt = &now
		result = res
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("ApproveReservation: approved reservation id=%d by actor=%d", result.ID, req.Actor.ID)

	uc.emitter.Emit(domain.EventReservationApproved, result, map[string]string{
		"approvedBy": fmt.Sprintf("%d", req.Actor.ID),
	})

	return &Response{
		ID:              result.ID,
		ReferenceNumber: result.ReferenceNumber,
		LabID:           result.LabID,
		Status:          string(result.Status),
		ApprovedBy:      result.ApprovedBy,
		ApprovedAt:      now.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}
