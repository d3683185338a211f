package list_labs

import (
	"net/http"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
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

// Handle GET /api/v1/labs?onlyBookable=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	onlyBookable := r.URL.Query().Get("onlyBookable") == "true"

	result, err := h.service.List(r.Context(), onlyBookable)
	if err != nil {
		h.logger.Error("GET /labs - Failed to list labs: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /labs - Retrieved %d labs", len(result.Labs))
	handlers.RespondJSON(w, http.StatusOK, result)
}
