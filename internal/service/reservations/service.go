package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
	"github.com/m04kA/LRS-BookingService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	reservationRepo ReservationRepository
	emitter         EventEmitter
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	emitter EventEmitter,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		emitter:         emitter,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование, персонал - любое
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.ReservationResponse, error) {
	s.logger.Info("GetByID: fetching reservation id=%d for actor=%d", id, actor.ID)

	res, err := s.getReservation(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if res.RequesterID != actor.ID && !actor.Can().CanApprove {
		s.logger.Warn("GetByID: access denied for actor=%d to reservation id=%d", actor.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(res), nil
}

// GetUserReservations получает историю бронирований пользователя
// Свою историю видит каждый, чужую - только персонал
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: requester=%d, actor=%d, status=%v",
		req.RequesterID, req.Actor.ID, req.Status)

	if req.RequesterID != req.Actor.ID && !req.Actor.Can().CanApprove {
		s.logger.Warn("GetUserReservations: access denied for actor=%d to user=%d", req.Actor.ID, req.RequesterID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.ListByRequester(ctx, req.RequesterID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(reservations), req.RequesterID)
	return models.FromDomainReservationList(reservations), nil
}

// GetLabReservations получает бронирования лаборатории на дату
// Доступно только персоналу; includeInactive добавляет отменённые и отклонённые
func (s *Service) GetLabReservations(ctx context.Context, req *models.GetLabReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetLabReservations: lab=%d, date=%s, actor=%d",
		req.LabID, req.Date.Format(domain.DateFormat), req.Actor.ID)

	if !req.Actor.Can().CanApprove {
		s.logger.Warn("GetLabReservations: access denied for actor=%d role=%s", req.Actor.ID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	reservations, err := s.reservationRepo.ListByLabAndDate(ctx, domain.LabDayFilter{
		LabID:           req.LabID,
		Date:            req.Date,
		IncludeInactive: req.IncludeInactive,
	})
	if err != nil {
		s.logger.Error("GetLabReservations: repository error for lab=%d: %v", req.LabID, err)
		return nil, fmt.Errorf("%w: GetLabReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetLabReservations: fetched %d reservations for lab=%d", len(reservations), req.LabID)
	return models.FromDomainReservationList(reservations), nil
}

// GetPendingQueue получает очередь на подтверждение по лаборатории
// Сортировка по приоритету, затем по времени начала. Только персонал
func (s *Service) GetPendingQueue(ctx context.Context, labID int64, actor domain.Actor) (*models.ReservationListResponse, error) {
	s.logger.Info("GetPendingQueue: lab=%d, actor=%d", labID, actor.ID)

	if !actor.Can().CanApprove {
		s.logger.Warn("GetPendingQueue: access denied for actor=%d role=%s", actor.ID, actor.Role)
		return nil, ErrAccessDenied
	}

	reservations, err := s.reservationRepo.ListPendingByLab(ctx, labID)
	if err != nil {
		s.logger.Error("GetPendingQueue: repository error for lab=%d: %v", labID, err)
		return nil, fmt.Errorf("%w: GetPendingQueue - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование
// Владелец отменяет своё, персонал с правом CanCancelAny - любое.
// Отмена возможна только для pending и approved и не позже чем за час до начала
func (s *Service) Cancel(ctx context.Context, reservationID int64, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation id=%d by actor=%d", reservationID, req.Actor.ID)

	res, err := s.getReservation(ctx, reservationID, "Cancel")
	if err != nil {
		return err
	}

	if res.RequesterID != req.Actor.ID && !req.Actor.Can().CanCancelAny {
		s.logger.Warn("Cancel: access denied for actor=%d to reservation id=%d", req.Actor.ID, reservationID)
		return ErrAccessDenied
	}

	now := s.timeProvider.Now()
	if !res.CanBeCancelled(now) {
		s.logger.Warn("Cancel: reservation id=%d cannot be cancelled, status=%s, start=%s",
			reservationID, res.Status, res.StartTime.Format("2006-01-02T15:04"))
		return ErrCannotCancel
	}

	if err := s.reservationRepo.Cancel(ctx, reservationID, req.CancellationReason); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		// Статус успел смениться между чтением и UPDATE
		if errors.Is(err, reservationRepo.ErrInvalidTransition) {
			s.logger.Warn("Cancel: reservation id=%d left active status concurrently", reservationID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	res.Status = domain.StatusCancelled
	res.CancelledAt = &now
	if req.CancellationReason != "" {
		res.CancellationReason = &req.CancellationReason
	}

	s.logger.Info("Cancel: successfully cancelled reservation id=%d", reservationID)

	s.emitter.Emit(domain.EventReservationCancelled, res, map[string]string{
		"cancelledBy": fmt.Sprintf("%d", req.Actor.ID),
	})

	return nil
}

// Reject отклоняет pending бронирование с обязательной причиной
// Доступно только персоналу с правом подтверждения
func (s *Service) Reject(ctx context.Context, reservationID int64, req *models.RejectReservationRequest) error {
	s.logger.Info("Reject: rejecting reservation id=%d by actor=%d", reservationID, req.Actor.ID)

	if strings.TrimSpace(req.RejectionReason) == "" {
		s.logger.Warn("Reject: empty rejection reason for reservation id=%d", reservationID)
		return fmt.Errorf("%w: rejection reason is required", ErrInvalidInput)
	}

	if !req.Actor.Can().CanApprove {
		s.logger.Warn("Reject: access denied for actor=%d role=%s", req.Actor.ID, req.Actor.Role)
		return ErrAccessDenied
	}

	res, err := s.getReservation(ctx, reservationID, "Reject")
	if err != nil {
		return err
	}

	if res.Status != domain.StatusPending {
		s.logger.Warn("Reject: reservation id=%d is %s, not pending", reservationID, res.Status)
		return ErrNotPending
	}

	now := s.timeProvider.Now()
	if err := s.reservationRepo.Reject(ctx, reservationID, req.Actor.ID, now, req.RejectionReason); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		// Гонка с параллельным подтверждением: UPDATE затрагивает только
		// pending строку, approved не перезаписывается
		if errors.Is(err, reservationRepo.ErrInvalidTransition) {
			s.logger.Warn("Reject: reservation id=%d left pending concurrently", reservationID)
			return ErrNotPending
		}
		s.logger.Error("Reject: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: Reject - repository error: %v", ErrInternal, err)
	}

	res.Status = domain.StatusRejected
	res.RejectedBy = &req.Actor.ID
	res.RejectedAt = &now
	res.RejectionReason = &req.RejectionReason

	s.logger.Info("Reject: successfully rejected reservation id=%d", reservationID)

	s.emitter.Emit(domain.EventReservationRejected, res, map[string]string{
		"rejectedBy": fmt.Sprintf("%d", req.Actor.ID),
		"reason":     req.RejectionReason,
	})

	return nil
}

// MarkNoShow помечает approved бронирование как no_show
// Доступно только персоналу
func (s *Service) MarkNoShow(ctx context.Context, reservationID int64, actor domain.Actor) error {
	s.logger.Info("MarkNoShow: reservation id=%d by actor=%d", reservationID, actor.ID)

	if !actor.Can().CanApprove {
		s.logger.Warn("MarkNoShow: access denied for actor=%d role=%s", actor.ID, actor.Role)
		return ErrAccessDenied
	}

	res, err := s.getReservation(ctx, reservationID, "MarkNoShow")
	if err != nil {
		return err
	}

	if res.Status != domain.StatusApproved {
		s.logger.Warn("MarkNoShow: reservation id=%d is %s, not approved", reservationID, res.Status)
		return ErrNotApproved
	}

	noShowFrom := []domain.ReservationStatus{domain.StatusApproved}
	if err := s.reservationRepo.UpdateStatus(ctx, reservationID, domain.StatusNoShow, noShowFrom); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		if errors.Is(err, reservationRepo.ErrInvalidTransition) {
			s.logger.Warn("MarkNoShow: reservation id=%d left approved concurrently", reservationID)
			return ErrNotApproved
		}
		s.logger.Error("MarkNoShow: repository error for reservation id=%d: %v", reservationID, err)
		return fmt.Errorf("%w: MarkNoShow - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("MarkNoShow: reservation id=%d marked as no_show", reservationID)
	return nil
}

// CompleteExpired закрывает approved бронирования с прошедшим временем окончания
// Вызывается фоновой задачей по таймеру
func (s *Service) CompleteExpired(ctx context.Context) (int64, error) {
	now := s.timeProvider.Now()

	completed, err := s.reservationRepo.CompleteExpired(ctx, now)
	if err != nil {
		s.logger.Error("CompleteExpired: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteExpired - repository error: %v", ErrInternal, err)
	}

	if completed > 0 {
		s.logger.Info("CompleteExpired: marked %d reservations as completed", completed)
	}

	return completed, nil
}

// getReservation достает бронирование и маппит ошибку репозитория
func (s *Service) getReservation(ctx context.Context, id int64, op string) (*domain.Reservation, error) {
	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation id=%d not found", op, id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reservation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return res, nil
}
