package update_lab

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	"github.com/m04kA/LRS-BookingService/internal/service/labs"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidLabID       = "некорректный ID лаборатории"
	msgMissingActor       = "отсутствуют данные пользователя"
	msgNotFound           = "лаборатория не найдена"
	msgForbidden          = "доступ запрещен"
	msgCapacityConflict   = "вместимость меньше посещаемости активных бронирований"
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

// Handle PUT /api/v1/labs/{labId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("PUT /labs/{id} - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	labID, err := strconv.ParseInt(mux.Vars(r)["labId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /labs/{id} - Invalid lab ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLabID)
		return
	}

	var req UpdateLabRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /labs/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), labID, req.ToServiceRequest(actor))
	if err != nil {
		switch {
		case errors.Is(err, labs.ErrLabNotFound):
			h.logger.Warn("PUT /labs/{id} - Lab not found: lab=%d", labID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, labs.ErrAccessDenied):
			h.logger.Warn("PUT /labs/{id} - Access denied: lab=%d, actor=%d", labID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, labs.ErrCapacityBelowReservations):
			h.logger.Warn("PUT /labs/{id} - Capacity below active reservations: lab=%d, error=%v", labID, err)
			handlers.RespondError(w, http.StatusConflict, msgCapacityConflict)

		case errors.Is(err, labs.ErrInvalidInput):
			h.logger.Warn("PUT /labs/{id} - Invalid input: lab=%d, error=%v", labID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /labs/{id} - Failed to update lab: lab=%d, actor=%d, error=%v",
				labID, actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /labs/{id} - Lab updated: id=%d, actor=%d", labID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
