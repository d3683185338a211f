package labs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/LRS-BookingService/internal/domain"
	labRepo "github.com/m04kA/LRS-BookingService/internal/infra/storage/lab"
	"github.com/m04kA/LRS-BookingService/internal/service/labs/models"
)

// Service сервис каталога лабораторий
type Service struct {
	labRepo      LabRepository
	reservations ReservationReader
	logger       Logger
}

// NewService создает новый экземпляр сервиса лабораторий
func NewService(labRepo LabRepository, reservations ReservationReader, logger Logger) *Service {
	return &Service{
		labRepo:      labRepo,
		reservations: reservations,
		logger:       logger,
	}
}

// Create создает лабораторию
// Доступно только ролям с правом управления каталогом; по умолчанию
// владельцем становится создатель
func (s *Service) Create(ctx context.Context, req *models.CreateLabRequest) (*models.LabResponse, error) {
	s.logger.Info("Create: creating lab %q by actor=%d", req.Name, req.Actor.ID)

	if !req.Actor.Can().CanManageLabs {
		s.logger.Warn("Create: access denied for actor=%d role=%s", req.Actor.ID, req.Actor.Role)
		return nil, ErrAccessDenied
	}

	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	hours, err := req.Hours.ToDomainHours()
	if err != nil {
		s.logger.Warn("Create: invalid operating hours for lab %q: %v", req.Name, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ownerID := req.Actor.ID
	if req.OwnerID != nil {
		ownerID = *req.OwnerID
	}

	lab := &domain.Lab{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		OwnerID:     ownerID,
		Capacity:    req.Capacity,
		Active:      true,
		Hours:       hours,
		Rules:       req.Rules.ToDomainRules(),
	}

	created, err := s.labRepo.Create(ctx, lab)
	if err != nil {
		s.logger.Error("Create: repository error for lab %q: %v", req.Name, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created lab id=%d %q", created.ID, created.Name)
	return models.FromDomainLab(created), nil
}

// GetByID получает лабораторию по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.LabResponse, error) {
	lab, err := s.labRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, labRepo.ErrLabNotFound) {
			s.logger.Warn("GetByID: lab id=%d not found", id)
			return nil, ErrLabNotFound
		}
		s.logger.Error("GetByID: repository error for lab id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainLab(lab), nil
}

// List возвращает каталог лабораторий
// onlyBookable скрывает неактивные и находящиеся на обслуживании
func (s *Service) List(ctx context.Context, onlyBookable bool) (*models.LabListResponse, error) {
	labs, err := s.labRepo.List(ctx, onlyBookable)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainLabList(labs), nil
}

// Update обновляет лабораторию
// Разрешено владельцу лаборатории и ролям с правом управления каталогом
func (s *Service) Update(ctx context.Context, labID int64, req *models.UpdateLabRequest) (*models.LabResponse, error) {
	s.logger.Info("Update: updating lab id=%d by actor=%d", labID, req.Actor.ID)

	lab, err := s.labRepo.GetByID(ctx, labID)
	if err != nil {
		if errors.Is(err, labRepo.ErrLabNotFound) {
			s.logger.Warn("Update: lab id=%d not found", labID)
			return nil, ErrLabNotFound
		}
		s.logger.Error("Update: repository error for lab id=%d: %v", labID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	if lab.OwnerID != req.Actor.ID && !req.Actor.Can().CanManageLabs {
		s.logger.Warn("Update: access denied for actor=%d to lab id=%d", req.Actor.ID, labID)
		return nil, ErrAccessDenied
	}

	// Уменьшение вместимости не должно делать невыполнимыми уже принятые
	// активные бронирования
	if req.Capacity != nil && *req.Capacity < lab.Capacity {
		maxAttendance, err := s.reservations.MaxActiveAttendance(ctx, labID)
		if err != nil {
			s.logger.Error("Update: attendance lookup error for lab id=%d: %v", labID, err)
			return nil, fmt.Errorf("%w: Update - attendance lookup error: %v", ErrInternal, err)
		}
		if *req.Capacity < maxAttendance {
			s.logger.Warn("Update: capacity %d below active attendance %d for lab id=%d",
				*req.Capacity, maxAttendance, labID)
			return nil, fmt.Errorf("%w: requested capacity %d, active reservations expect up to %d",
				ErrCapacityBelowReservations, *req.Capacity, maxAttendance)
		}
	}

	if err := applyUpdate(lab, req); err != nil {
		s.logger.Warn("Update: invalid update for lab id=%d: %v", labID, err)
		return nil, err
	}

	if err := s.labRepo.Update(ctx, lab); err != nil {
		if errors.Is(err, labRepo.ErrLabNotFound) {
			return nil, ErrLabNotFound
		}
		s.logger.Error("Update: repository error for lab id=%d: %v", labID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: updated lab id=%d", labID)
	return models.FromDomainLab(lab), nil
}

func applyUpdate(lab *domain.Lab, req *models.UpdateLabRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		lab.Name = name
	}
	if req.Description != nil {
		lab.Description = req.Description
	}
	if req.Capacity != nil {
		if err := validateCapacity(*req.Capacity); err != nil {
			return err
		}
		lab.Capacity = *req.Capacity
	}
	if req.Active != nil {
		lab.Active = *req.Active
	}
	if req.UnderMaintenance != nil {
		lab.UnderMaintenance = *req.UnderMaintenance
	}
	if req.Hours != nil {
		hours, err := req.Hours.ToDomainHours()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		lab.Hours = hours
	}
	req.Rules.ApplyToRules(&lab.Rules)

	return validateRules(lab.Rules)
}

func validateCreateRequest(req *models.CreateLabRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := validateCapacity(req.Capacity); err != nil {
		return err
	}
	return validateRules(req.Rules.ToDomainRules())
}

func validateCapacity(capacity int) error {
	if capacity < domain.MinCapacity || capacity > domain.MaxCapacity {
		return fmt.Errorf("%w: capacity must be between %d and %d",
			ErrInvalidInput, domain.MinCapacity, domain.MaxCapacity)
	}
	return nil
}

func validateRules(rules domain.BookingRules) error {
	if rules.MaxBookingDurationMinutes <= 0 || rules.MaxBookingDurationMinutes > domain.MaxBookingDurationCeiling {
		return fmt.Errorf("%w: maxBookingDurationMinutes must be between 1 and %d",
			ErrInvalidInput, domain.MaxBookingDurationCeiling)
	}
	if rules.MinAdvanceBookingMinutes < 0 {
		return fmt.Errorf("%w: minAdvanceBookingMinutes must not be negative", ErrInvalidInput)
	}
	if rules.MaxAdvanceBookingMinutes <= rules.MinAdvanceBookingMinutes {
		return fmt.Errorf("%w: maxAdvanceBookingMinutes must exceed minAdvanceBookingMinutes", ErrInvalidInput)
	}
	if rules.MaxAdvanceBookingMinutes > domain.MaxAdvanceBookingCeiling {
		return fmt.Errorf("%w: maxAdvanceBookingMinutes must not exceed %d",
			ErrInvalidInput, domain.MaxAdvanceBookingCeiling)
	}
	return nil
}
