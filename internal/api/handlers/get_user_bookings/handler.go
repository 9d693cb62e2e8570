package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/StayFinder-BookingService/internal/api/handlers"
	"github.com/m04kA/StayFinder-BookingService/internal/api/middleware"
	"github.com/m04kA/StayFinder-BookingService/internal/domain"
	"github.com/m04kA/StayFinder-BookingService/internal/service/bookings"
	"github.com/m04kA/StayFinder-BookingService/internal/service/bookings/models"
)

const (
	msgMissingUserID  = "authentication required"
	msgInvalidPage    = "page must be a positive integer"
	msgInvalidLimit   = "limit must be a positive integer"
	msgInvalidRequest = "invalid status or pagination parameters"
)

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

// Handle GET /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()

	page, err := intParam(query.Get("page"), domain.DefaultPage)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid page: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPage)
		return
	}

	limit, err := intParam(query.Get("limit"), domain.DefaultPageLimit)
	if err != nil {
		h.logger.Warn("GET /bookings - Invalid limit: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLimit)
		return
	}

	// status опционален, "all" равносилен отсутствию фильтра
	var statusPtr *string
	if status := query.Get("status"); status != "" && status != "all" {
		statusPtr = &status
	}

	serviceReq := &models.GetUserBookingsRequest{
		RenterID: userID,
		Status:   statusPtr,
		Page:     page,
		Limit:    limit,
	}

	result, err := h.service.GetUserBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /bookings - Invalid request: user_id=%s, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /bookings - Failed to get bookings: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings - Bookings retrieved successfully: user_id=%s, count=%d, total=%d",
		userID, len(result.Bookings), result.Pagination.TotalBookings)
	handlers.RespondJSON(w, http.StatusOK, result)
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
