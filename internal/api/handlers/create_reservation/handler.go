package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	createReservation "github.com/m04kA/LRS-BookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingActor          = "отсутствуют данные пользователя"
	msgLabNotFound           = "лаборатория не найдена"
	msgLabNotBookable        = "лаборатория не принимает бронирования"
	msgCapacityExceeded      = "число участников превышает вместимость лаборатории"
	msgDurationTooLong       = "длительность превышает максимум лаборатории"
	msgTooLateToBook         = "слишком поздно для бронирования этого интервала"
	msgTooFarInAdvance       = "интервал слишком далеко в будущем"
	msgOutsideOperatingHours = "интервал выходит за рабочие часы лаборатории"
	msgRecurringNotAllowed   = "лаборатория не разрешает повторяющиеся бронирования"
	msgTimeConflict          = "интервал пересекается с существующими бронированиями"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *createReservation.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /reservations - Time conflict: actor=%d, lab=%d, conflicts=%d",
				actor.ID, req.LabID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, msgTimeConflict, conflictIDs(conflictErr))

		case errors.Is(err, createReservation.ErrLabNotFound):
			h.logger.Warn("POST /reservations - Lab not found: lab=%d", req.LabID)
			handlers.RespondNotFound(w, msgLabNotFound)

		case errors.Is(err, createReservation.ErrLabNotBookable):
			h.logger.Warn("POST /reservations - Lab not bookable: lab=%d", req.LabID)
			handlers.RespondError(w, http.StatusConflict, msgLabNotBookable)

		case errors.Is(err, createReservation.ErrCapacityExceeded):
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, createReservation.ErrDurationTooLong):
			handlers.RespondBadRequest(w, msgDurationTooLong)

		case errors.Is(err, createReservation.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createReservation.ErrTooFarInAdvance):
			handlers.RespondBadRequest(w, msgTooFarInAdvance)

		case errors.Is(err, createReservation.ErrOutsideOperatingHours):
			handlers.RespondBadRequest(w, msgOutsideOperatingHours)

		case errors.Is(err, createReservation.ErrRecurringNotAllowed):
			handlers.RespondBadRequest(w, msgRecurringNotAllowed)

		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: actor=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: actor=%d, lab=%d, error=%v",
				actor.ID, req.LabID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: id=%d, ref=%s, actor=%d, lab=%d, status=%s",
		result.ID, result.ReferenceNumber, actor.ID, req.LabID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func conflictIDs(err *createReservation.ConflictError) []int64 {
	ids := make([]int64, 0, len(err.Conflicts))
	for _, c := range err.Conflicts {
		ids = append(ids, c.ID)
	}
	return ids
}
