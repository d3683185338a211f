package get_lab_reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/api/middleware"
	"github.com/m04kA/LRS-BookingService/internal/domain"
	"github.com/m04kA/LRS-BookingService/internal/service/reservations"
	"github.com/m04kA/LRS-BookingService/internal/service/reservations/models"
)

const (
	msgInvalidLabID = "некорректный ID лаборатории"
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingActor = "отсутствуют данные пользователя"
	msgForbidden    = "доступ запрещен"
)

type Handler struct {
	service ReservationService
	logger  Logger
}

func NewHandler(service ReservationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/labs/{labId}/reservations?date=&includeInactive=&pending=
// pending=true возвращает очередь на подтверждение, отсортированную по
// приоритету; date в этом режиме игнорируется
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /labs/{id}/reservations - Missing actor in context")
		handlers.RespondUnauthorized(w, msgMissingActor)
		return
	}

	labID, err := strconv.ParseInt(mux.Vars(r)["labId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /labs/{id}/reservations - Invalid lab ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLabID)
		return
	}

	query := r.URL.Query()

	var result *models.ReservationListResponse
	if query.Get("pending") == "true" {
		result, err = h.service.GetPendingQueue(r.Context(), labID, actor)
	} else {
		date := time.Now()
		if dateStr := query.Get("date"); dateStr != "" {
			date, err = time.Parse(domain.DateFormat, dateStr)
			if err != nil {
				h.logger.Warn("GET /labs/{id}/reservations - Invalid date: %v", err)
				handlers.RespondBadRequest(w, msgInvalidDate)
				return
			}
		}

		result, err = h.service.GetLabReservations(r.Context(), &models.GetLabReservationsRequest{
			Actor:           actor,
			LabID:           labID,
			Date:            date,
			IncludeInactive: query.Get("includeInactive") == "true",
		})
	}

	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("GET /labs/{id}/reservations - Access denied: lab=%d, actor=%d", labID, actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /labs/{id}/reservations - Failed: lab=%d, error=%v", labID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /labs/{id}/reservations - Retrieved %d reservations: lab=%d, actor=%d",
		len(result.Reservations), labID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
