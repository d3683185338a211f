package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	labRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/lab"
	reservationRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/reservation"
)

// maxReferenceAttempts число попыток вставки при коллизии номера бронирования
const maxReferenceAttempts = 3

// UseCase use case для создания бронирования
type UseCase struct {
	reservations ReservationRepository
	labs         LabRepository
	txManager    TransactionManager
	emitter      EventEmitter
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservations ReservationRepository,
	labs LabRepository,
	txManager TransactionManager,
	emitter EventEmitter,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservations: reservations,
		labs:         labs,
		txManager:    txManager,
		emitter:      emitter,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка конфликтов и запись выполняются в одной сериализуемой
// транзакции: два конкурирующих создания на одном таймлайне лаборатории
// не могут оба пройти проверку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: actor=%d role=%s, lab=%d, interval=%s - %s, attendance=%d",
		req.Actor.ID, req.Actor.Role, req.LabID,
		req.StartTime.Format(domain.DateFormat+" "+domain.TimeFormat),
		req.EndTime.Format(domain.TimeFormat), req.ExpectedAttendance)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// Переменная для хранения результата
	var result *domain.Reservation

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем лабораторию (без кэширования: ограничения проверяются
		// по последней зафиксированной конфигурации)
		lab, err := uc.labs.GetByID(txCtx, req.LabID)
		if err != nil {
			if errors.Is(err, labRepo.ErrLabNotFound) {
				uc.logger.Warn("CreateReservation: lab id=%d not found", req.LabID)
				return ErrLabNotFound
			}
			uc.logger.Error("CreateReservation: failed to get lab id=%d: %v", req.LabID, err)
			return fmt.Errorf("%w: failed to get lab: %v", ErrInternal, err)
		}

		// 3.2. Лаборатория должна принимать бронирования
		if !lab.AcceptsReservations() {
			uc.logger.Warn("CreateReservation: lab id=%d is inactive or under maintenance", lab.ID)
			return ErrLabNotBookable
		}

		// 3.3. Правила лаборатории: вместимость, длительность, окно бронирования
		if err := validateAgainstRules(lab, req, now); err != nil {
			uc.logger.Warn("CreateReservation: rules validation failed: %v", err)
			return err
		}

		// 3.4. Интервал должен лежать внутри рабочих часов
		if err := validateOperatingHours(lab, req.StartTime, req.EndTime); err != nil {
			uc.logger.Warn("CreateReservation: operating hours validation failed: %v", err)
			return err
		}

		// 3.5. Повторяющиеся бронирования: лаборатория должна их разрешать.
		// Разворачивание шаблона в отдельные вхождения не поддерживается -
		// сохраняется только шаблон
		if req.IsRecurring {
			if !lab.Rules.AllowRecurring {
				uc.logger.Warn("CreateReservation: lab id=%d does not allow recurring", lab.ID)
				return ErrRecurringNotAllowed
			}
			uc.logger.Warn("CreateReservation: recurrence expansion unsupported, storing template only (lab=%d)", lab.ID)
		}

		// 3.6. Черновик не держит интервал, конфликты проверяются при submit.
		// Для остальных статусов ищем пересечения с активными бронированиями
		// (строки блокируются FOR UPDATE до конца транзакции)
		if !req.AsDraft {
			conflicts, err := uc.reservations.FindOverlapping(
				txCtx, req.LabID, req.StartTime, req.EndTime, nil, domain.ActiveStatuses)
			if err != nil {
				uc.logger.Error("CreateReservation: failed to find overlapping: %v", err)
				return fmt.Errorf("%w: failed to find overlapping: %v", ErrInternal, err)
			}
			if len(conflicts) > 0 {
				uc.logger.Warn("CreateReservation: %d conflicting reservation(s) on lab=%d",
					len(conflicts), req.LabID)
				return &ConflictError{Conflicts: conflicts}
			}
		}

		// 3.7. Начальный статус
		status := initialStatus(lab, req)

		res := &domain.Reservation{
			LabID:              req.LabID,
			RequesterID:        req.Actor.ID,
			Purpose:            req.Purpose,
			StartTime:          req.StartTime,
			EndTime:            req.EndTime,
			ExpectedAttendance: req.ExpectedAttendance,
			Status:             status,
			Priority:           req.Priority,
			IsRecurring:        req.IsRecurring,
			Recurrence:         req.Recurrence,
		}

		// Автоподтверждение фиксирует, кто подтвердил и когда
		if status == domain.StatusApproved && req.Actor.Can().AutoApprove {
			res.ApprovedBy = &req.Actor.ID
			res.ApprovedAt = &now
		}

		// 3.8. Сохраняем с генерацией номера; при коллизии номера пробуем
		// ещё раз с новым суффиксом
		created, err := uc.createWithReference(txCtx, res, now)
		if err != nil {
			return err
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateReservation: created reservation id=%d ref=%s status=%s",
		result.ID, result.ReferenceNumber, result.Status)

	// 4. Публикуем событие (fire-and-forget, вне транзакции)
	uc.emitter.Emit(domain.EventReservationCreated, result, map[string]string{
		"actorRole": string(req.Actor.Role),
	})

	return fromDomain(result), nil
}

// createWithReference сохраняет бронирование, повторяя вставку с новым
// номером при коллизии unique-индекса
func (uc *UseCase) createWithReference(ctx context.Context, res *domain.Reservation, now time.Time) (*domain.Reservation, error) {
	var lastErr error

	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		res.ReferenceNumber = domain.NewReferenceNumber(now)

		created, err := uc.reservations.Create(ctx, res)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, reservationRepo.ErrReferenceNumberTaken) {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return nil, fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		uc.logger.Warn("CreateReservation: reference number collision (%s), retrying", res.ReferenceNumber)
		lastErr = err
	}

	return nil, fmt.Errorf("%w: exhausted reference number attempts: %v", ErrInternal, lastErr)
}
