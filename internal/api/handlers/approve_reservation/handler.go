package approve_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	approveReservation "github.com/m04kA/LRS-BookingService/internal/usecase/approve_reservation"
)

const (
	msgInvalidReservationID = "некорректный ID бронирования"
	msgMissingActor         = "отсутствуют данные пользователя"
	msgNotFound             = "бронирование не найдено"
	msgForbidden            = "доступ запрещен"
	msgNotPending           = "бронирование не ожидает подтверждения"
	msgTimeConflict         = "интервал пересекается с подтверждёнными бронированиями"
)

type Handler struct {
	useCase ApproveReservationUseCase
	logger  Logger
}

func NewHandler(useCase ApproveReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/{reservationId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/{id}/approve - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /reservations/{id}/approve - Invalid reservation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &approveReservation.Request{
		Actor:         actor,
		ReservationID: reservationID,
	})
	if err != nil {
		var conflictErr *approveReservation.ConflictError

		switch {
		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /reservations/{id}/approve - Time conflict: id=%d, conflicts=%d",
				reservationID, len(conflictErr.Conflicts))
			handlers.RespondConflict(w, msgTimeConflict, conflictIDs(conflictErr))

		case errors.Is(err, approveReservation.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{id}/approve - Not found: id=%d", reservationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, approveReservation.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{id}/approve - Access denied: id=%d, actor=%d role=%s",
				reservationID, actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, approveReservation.ErrNotPending):
			handlers.RespondError(w, http.StatusConflict, msgNotPending)

		case errors.Is(err, approveReservation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReservationID)

		default:
			h.logger.Error("POST /reservations/{id}/approve - Failed to approve: id=%d, actor=%d, error=%v",
				reservationID, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{id}/approve - Reservation approved: id=%d, actor=%d",
		reservationID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func conflictIDs(err *approveReservation.ConflictError) []int64 {
	ids := make([]int64, 0, len(err.Conflicts))
	for _, c := range err.Conflicts {
		ids = append(ids, c.ID)
	}
	return ids
}
