package create_checkout_session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/m04kA/StayFinder-BookingService/internal/api/handlers"
	"github.com/m04kA/StayFinder-BookingService/internal/api/middleware"
	createCheckoutSession "github.com/m04kA/StayFinder-BookingService/internal/usecase/create_checkout_session"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidStayWindow  = "check-out date must be after check-in date"
	msgPaymentUnavailable = "payment provider is unavailable, please try again later"
)

type Handler struct {
	useCase CreateCheckoutSessionUseCase
	logger  Logger
}

func NewHandler(useCase CreateCheckoutSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/checkout-sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/checkout-sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Аутентификация необязательна: без токена это гостевое бронирование
	var renterID *string
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		renterID = &userID
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(renterID))
	if err != nil {
		switch {
		case errors.Is(err, createCheckoutSession.ErrInvalidStayWindow):
			h.logger.Warn("POST /payments/checkout-sessions - Invalid stay window: listing=%s", req.ListingID)
			handlers.RespondBadRequest(w, msgInvalidStayWindow)

		case errors.Is(err, createCheckoutSession.ErrInvalidInput):
			h.logger.Warn("POST /payments/checkout-sessions - Invalid input: %v", err)
			handlers.RespondBadRequest(w, validationMessage(err))

		case errors.Is(err, createCheckoutSession.ErrUpstreamPayment):
			h.logger.Error("POST /payments/checkout-sessions - Payment provider error: listing=%s, error=%v", req.ListingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentUnavailable)

		default:
			h.logger.Error("POST /payments/checkout-sessions - Failed to create session: listing=%s, error=%v", req.ListingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/checkout-sessions - Session created: session_id=%s, listing=%s", result.SessionID, req.ListingID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// validationMessage оставляет от ошибки валидации только описание полей
func validationMessage(err error) string {
	msg := err.Error()
	prefix := createCheckoutSession.ErrInvalidInput.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
