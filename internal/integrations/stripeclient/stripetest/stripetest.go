// Package stripetest помощники для тестов, работающих с вебхуками Stripe
package stripetest

import (
	"encoding/json"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Session описание сессии для событий checkout.session.*
type Session struct {
	ID            string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	// PaymentStatus пусто - "paid"
	PaymentStatus string
	Metadata      map[string]string
}

// Event сериализует событие Stripe с произвольным объектом
func Event(eventID, eventType string, object map[string]interface{}) []byte {
	payload, err := json.Marshal(map[string]interface{}{
		"id":          eventID,
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"created":     time.Now().Unix(),
		"data":        map[string]interface{}{"object": object},
	})
	if err != nil {
		panic(err)
	}
	return payload
}

// CompletedSessionEvent сериализует событие checkout.session.completed
func CompletedSessionEvent(eventID string, s Session) []byte {
	return SessionEvent(eventID, "checkout.session.completed", s)
}

// SessionEvent сериализует событие заданного типа с объектом checkout.session
func SessionEvent(eventID, eventType string, s Session) []byte {
	paymentStatus := s.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = "paid"
	}
	return Event(eventID, eventType, map[string]interface{}{
		"id":             s.ID,
		"object":         "checkout.session",
		"amount_total":   s.AmountTotal,
		"currency":       s.Currency,
		"customer_email": s.CustomerEmail,
		"payment_status": paymentStatus,
		"status":         "complete",
		"mode":           "payment",
		"metadata":       s.Metadata,
	})
}

// WithAPIVersion возвращает копию события с другой версией API
func WithAPIVersion(payload []byte, version string) []byte {
	var event map[string]interface{}
	if err := json.Unmarshal(payload, &event); err != nil {
		panic(err)
	}
	event["api_version"] = version
	out, err := json.Marshal(event)
	if err != nil {
		panic(err)
	}
	return out
}

// SignatureHeader возвращает значение заголовка Stripe-Signature для тела
func SignatureHeader(payload []byte, secret string) string {
	return SignatureHeaderAt(payload, secret, time.Now())
}

// SignatureHeaderAt то же, что SignatureHeader, с явным временем подписи
func SignatureHeaderAt(payload []byte, secret string, at time.Time) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: at,
	})
	return signed.Header
}
