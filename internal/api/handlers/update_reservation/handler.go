package update_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	updateReservation "github.com/m04kA/LRS-BookingService/internal/usecase/update_reservation"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidReservationID  = "некорректный ID бронирования"
	msgMissingActor          = "отсутствуют данные пользователя"
	msgNotFound              = "бронирование не найдено"
	msgForbidden             = "доступ запрещен"
	msgNotModifiable         = "бронирование уже нельзя изменить"
	msgNotDraft              = "отправить на подтверждение можно только черновик"
	msgCapacityExceeded      = "число участников превышает вместимость лаборатории"
	msgDurationTooLong       = "длительность превышает максимум лаборатории"
	msgOutsideOperatingHours = "интервал выходит за рабочие часы лаборатории"
	msgTimeConflict          = "интервал пересекается с существующими бронированиями"
)

type Handler struct {
	useCase UpdateReservationUseCase
	logger  Logger
}

func NewHandler(useCase UpdateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PATCH /reservations/{id} - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	var req UpdateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor, reservationID)
	if err != nil {
		h.logger.Warn("PATCH /reservations/{id} - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflictErr *updateReservation.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("PATCH /reservations/{id} - Time conflict: id=%d, conflicts=%d",
				reservationID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, msgTimeConflict, conflictIDs(conflictErr))

		case errors.Is(err, updateReservation.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{id} - Not found: id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateReservation.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{id} - Access denied: id=%d, actor=%d", reservationID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, updateReservation.ErrNotModifiable):
			handlers.RespondError(w, http.StatusConflict, msgNotModifiable)

		case errors.Is(err, updateReservation.ErrNotDraft):
			handlers.RespondError(w, http.StatusConflict, msgNotDraft)

		case errors.Is(err, updateReservation.ErrCapacityExceeded):
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, updateReservation.ErrDurationTooLong):
			handlers.RespondBadRequest(w, msgDurationTooLong)

		case errors.Is(err, updateReservation.ErrOutsideOperatingHours):
			handlers.RespondBadRequest(w, msgOutsideOperatingHours)

		case errors.Is(err, updateReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /reservations/{id} - Failed to update: id=%d, actor=%d, error=%v",
				reservationID, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{id} - Reservation updated: id=%d, actor=%d, status=%s",
		reservationID, actor.ID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

func conflictIDs(err *updateReservation.ConflictError) []int64 {
	ids := make([]int64, 0, len(err.Conflicts))
	for _, c := range err.Conflicts {
		ids = append(ids, c.ID)
	}
	return ids
}
