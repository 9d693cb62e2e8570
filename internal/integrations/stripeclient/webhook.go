package stripeclient

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// ConstructEvent проверяет подпись доставки и разбирает событие.
// Подпись проверяется по сырому телу до любого разбора JSON.
func (c *Client) ConstructEvent(payload []byte, signatureHeader string) (*Event, error) {
	if err := webhook.ValidatePayloadWithTolerance(payload, signatureHeader, c.webhookSecret, c.signatureTolerance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var raw stripe.Event
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	// Разбираются только используемые поля сессии, поэтому другая версия API не мешает записи
	if raw.APIVersion != "" && raw.APIVersion != stripe.APIVersion {
		c.log.Warn("Stripe event %s has api version %s, client is built for %s", raw.ID, raw.APIVersion, stripe.APIVersion)
	}

	event := &Event{ID: raw.ID, Type: string(raw.Type)}
	if !carriesSession(event.Type) {
		return event, nil
	}

	if raw.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", ErrMalformedEvent, raw.ID)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(raw.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: checkout session: %v", ErrMalformedEvent, err)
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}

	event.Session = &CompletedSession{
		ID:            session.ID,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		CustomerEmail: email,
		PaymentStatus: string(session.PaymentStatus),
		Metadata:      session.Metadata,
	}

	return event, nil
}

func carriesSession(eventType string) bool {
	return eventType == EventCheckoutSessionCompleted || eventType == EventCheckoutSessionAsyncPaymentSucceeded
}
