package bulk_approve_reservations

import (
	"errors"
	"net/http"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	bulkApprove "github.com/m04kA/LRS-BookingService/internal/usecase/bulk_approve_reservations"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "отсутствуют данные пользователя"
	msgForbidden          = "доступ запрещен"
	msgEmptyList          = "список бронирований пуст"
)

type Handler struct {
	useCase BulkApproveUseCase
	logger  Logger
}

func NewHandler(useCase BulkApproveUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations/bulk-approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations/bulk-approve - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req BulkApproveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations/bulk-approve - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &bulkApprove.Request{
		Actor:          actor,
		ReservationIDs: req.ReservationIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, bulkApprove.ErrAccessDenied):
			h.logger.Warn("POST /reservations/bulk-approve - Access denied: actor=%d role=%s", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bulkApprove.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgEmptyList)

		default:
			h.logger.Error("POST /reservations/bulk-approve - Failed: actor=%d, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/bulk-approve - Done: actor=%d, approved=%d of %d",
		actor.ID, result.Approved, result.Total)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
