package bulk_approve_reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
)

// UseCase use case массового подтверждения бронирований
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

// Execute обрабатывает список бронирований строго в порядке запроса.
// Каждый элемент подтверждается в собственной сериализуемой транзакции,
// поэтому бронирование, подтвержденное раньше по списку, участвует в
// проверке конфликтов для последующих. Отказ одного элемента не
// прерывает обработку остальных.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("BulkApproveReservations: actor=%d role=%s, count=%d",
		req.Actor.ID, req.Actor.Role, len(req.ReservationIDs))

	if len(req.ReservationIDs) == 0 {
		return nil, fmt.Errorf("%w: reservationIDs must not be empty", ErrInvalidInput)
	}

	if !req.Actor.Can().CanApprove {
		uc.logger.Warn("BulkApproveReservations: actor=%d role=%s cannot approve", req.Actor.ID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	now := uc.timeProvider.Now()

	resp := &Response{
		Total:   len(req.ReservationIDs),
		Results: make([]ItemResult, 0, len(req.ReservationIDs)),
	}

	for _, id := range req.ReservationIDs {
		item, approved := uc.approveOne(ctx, req.Actor.ID, id, now)
		resp.Results = append(resp.Results, item)
		switch item.Outcome {
		case OutcomeApproved:
			resp.Approved++
			uc.emitter.Emit(domain.EventReservationApproved, approved, map[string]string{
				"approvedBy": fmt.Sprintf("%d", req.Actor.ID),
				"bulk":       "true",
			})
		case OutcomeConflicted:
			resp.Conflicted++
			resp.Skipped++
		default:
			resp.Skipped++
		}
	}

	uc.logger.Info("BulkApproveReservations: done, approved=%d conflicted=%d skipped=%d of %d",
		resp.Approved, resp.Conflicted, resp.Skipped, resp.Total)

	return resp, nil
}

func (uc *UseCase) approveOne(ctx context.Context, actorID, id int64, now time.Time) (ItemResult, *domain.Reservation) {
	item := ItemResult{ReservationID: id}

	var approved *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := uc.reservations.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				item.Outcome = OutcomeNotFound
				return nil
			}
			return fmt.Errorf("%w: failed to get reservation id=%d: %v", ErrInternal, id, err)
		}

		if res.Status != domain.StatusPending {
			item.Outcome = OutcomeNotPending
			return nil
		}

		conflicts, err := uc.reservations.FindOverlapping(
			txCtx, res.LabID, res.StartTime, res.EndTime, &res.ID,
			[]domain.ReservationStatus{domain.StatusApproved})
		if err != nil {
			return fmt.Errorf("%w: failed to find overlapping for id=%d: %v", ErrInternal, id, err)
		}
		if len(conflicts) > 0 {
			item.Outcome = OutcomeConflicted
			item.ConflictingIDs = make([]int64, 0, len(conflicts))
			for _, c := range conflicts {
				item.ConflictingIDs = append(item.ConflictingIDs, c.ID)
			}
			return nil
		}

		if err := uc.reservations.Approve(txCtx, res.ID, actorID, now); err != nil {
			return fmt.Errorf("%w: failed to approve id=%d: %v", ErrInternal, id, err)
		}

		res.Status = domain.StatusApproved
		res.ApprovedBy = &actorID
		at := now
		res.ApprovedAt = &at
		approved = res
		item.Outcome = OutcomeApproved
		return nil
	})
	if err != nil {
		uc.logger.Error("BulkApproveReservations: item id=%d failed: %v", id, err)
		item.Outcome = OutcomeFailed
		return item, nil
	}

	return item, approved
}
