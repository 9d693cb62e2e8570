package payment_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/StayFinder-BookingService/internal/api/handlers"
	recordPayment "github.com/m04kA/StayFinder-BookingService/internal/usecase/record_payment"
)

const (
	msgUnreadableBody   = "unable to read request body"
	msgMissingSignature = "missing signature header"
	msgInvalidSignature = "webhook signature verification failed"
)

type Handler struct {
	useCase      RecordPaymentUseCase
	maxBodyBytes int64
	logger       Logger
}

// NewHandler создает обработчик вебхука. maxBodyBytes <= 0 означает DefaultMaxBodyBytes.
func NewHandler(useCase RecordPaymentUseCase, maxBodyBytes int64, logger Logger) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		useCase:      useCase,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Handle POST /api/v1/payments/webhook
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Подпись считается по сырому телу, поэтому читаем его целиком до разбора
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgUnreadableBody)
		return
	}

	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		h.logger.Warn("POST /payments/webhook - Missing %s header", SignatureHeader)
		handlers.RespondBadRequest(w, msgMissingSignature)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &recordPayment.Request{
		Payload:         payload,
		SignatureHeader: signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, recordPayment.ErrInvalidSignature):
			h.logger.Warn("POST /payments/webhook - Invalid signature")
			handlers.RespondBadRequest(w, msgInvalidSignature)

		default:
			// Ответ 5xx заставит процессор повторить доставку
			h.logger.Error("POST /payments/webhook - Failed to process event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Event acknowledged: event_id=%s, session_id=%s, outcome=%s",
		result.EventID, result.SessionID, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, AckResponse{Received: true})
}
