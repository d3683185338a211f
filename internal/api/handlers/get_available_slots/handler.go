package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/LRS-BookingService/internal/api/handlers"
	"github.com/m04kA/LRS-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/LRS-BookingService/internal/usecase/get_available_slots"
)

const (
	msgInvalidLabID    = "некорректный ID лаборатории"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration = "некорректная длительность, ожидается положительное число минут"
	msgLabNotFound     = "лаборатория не найдена"
	msgLabNotBookable  = "лаборатория не принимает бронирования"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/labs/{labId}/available-slots?date=YYYY-MM-DD&duration=60
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	labID, err := strconv.ParseInt(mux.Vars(r)["labId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /labs/{id}/available-slots - Invalid lab ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLabID)
		return
	}

	query := r.URL.Query()

	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		h.logger.Warn("GET /labs/{id}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	duration, err := strconv.Atoi(query.Get("duration"))
	if err != nil || duration <= 0 {
		h.logger.Warn("GET /labs/{id}/available-slots - Invalid duration: %q", query.Get("duration"))
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		LabID:           labID,
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrLabNotFound):
			h.logger.Warn("GET /labs/{id}/available-slots - Lab not found: lab=%d", labID)
			handlers.RespondNotFound(w, msgLabNotFound)

		case errors.Is(err, getAvailableSlots.ErrLabNotBookable):
			h.logger.Warn("GET /labs/{id}/available-slots - Lab not bookable: lab=%d", labID)
			handlers.RespondError(w, http.StatusConflict, msgLabNotBookable)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidDuration)

		default:
			h.logger.Error("GET /labs/{id}/available-slots - Failed: lab=%d, error=%v", labID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /labs/{id}/available-slots - Found %d slots: lab=%d, date=%s",
		len(result.Slots), labID, result.Date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
