package create_lab

import (
	"errors"
	"net/http"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	"github.com/m04kA/LRS-BookingService/internal/service/labs"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingActor       = "отсутствуют данные пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service LabService
	logger  Logger
}

func NewHandler(service LabService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/labs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /labs - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	var req CreateLabRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /labs - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, labs.ErrAccessDenied):
			h.logger.Warn("POST /labs - Access denied: actor=%d role=%s", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, labs.ErrInvalidInput):
			h.logger.Warn("POST /labs - Invalid input: actor=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /labs - Failed to create lab: actor=%d, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /labs - Lab created: id=%d, name=%q, actor=%d", result.ID, result.Name, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
