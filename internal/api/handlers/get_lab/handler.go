package get_lab

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/service/labs"
)

const (
	msgInvalidLabID = "некорректный ID лаборатории"
	msgNotFound     = "лаборатория не найдена"
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

// Handle GET /api/v1/labs/{labId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	labID, err := strconv.ParseInt(mux.Vars(r)["labId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /labs/{id} - Invalid lab ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLabID)
		return
	}

	lab, err := h.service.GetByID(r.Context(), labID)
	if err != nil {
		switch {
		case errors.Is(err, labs.ErrLabNotFound):
			h.logger.Warn("GET /labs/{id} - Lab not found: lab=%d", labID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("GET /labs/{id} - Failed to get lab: lab=%d, error=%v", labID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, lab)
}
