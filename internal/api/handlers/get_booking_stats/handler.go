package get_booking_stats

import (
	"net/http"

	"github.com/m04kA/StayFinder-BookingService/internal/api/handlers"
	"github.com/m04kA/StayFinder-BookingService/internal/api/middleware"
)

const msgMissingUserID = "authentication required"

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	stats, err := h.service.GetStats(r.Context(), userID)
	if err != nil {
		h.logger.Error("GET /bookings/stats - Failed to get stats: user_id=%s, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/stats - Stats retrieved successfully: user_id=%s, total=%d", userID, stats.TotalBookings)
	handlers.RespondJSON(w, http.StatusOK, stats)
}
