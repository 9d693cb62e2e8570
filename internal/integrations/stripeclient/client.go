package stripeclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stripe/stripe-go/v79"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
)

// Config настройки клиента Stripe
type Config struct {
	SecretKey     string
	WebhookSecret string
	// APIURL переопределяет адрес API (stripe-mock, тесты). Пусто - боевой адрес.
	APIURL             string
	Timeout            time.Duration
	MaxNetworkRetries  int64
	SignatureTolerance time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// Client клиент для работы со Stripe: создание платёжных сессий и проверка вебхуков
type Client struct {
	sessions *checkoutsession.Client
	breaker  *gobreaker.CircuitBreaker[*stripe.CheckoutSession]

	webhookSecret      string
	signatureTolerance time.Duration

	log Logger
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(cfg Config, log Logger) *Client {
	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     leveledLogger{log: log},
		MaxNetworkRetries: stripe.Int64(cfg.MaxNetworkRetries),
	}
	if cfg.APIURL != "" {
		backendConfig.URL = stripe.String(cfg.APIURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)

	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}

	breaker := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name:        "stripe-checkout",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// отказы Stripe по существу запроса не говорят о недоступности сервиса
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &Client{
		sessions:           &checkoutsession.Client{B: backend, Key: cfg.SecretKey},
		breaker:            breaker,
		webhookSecret:      cfg.WebhookSecret,
		signatureTolerance: cfg.SignatureTolerance,
		log:                log,
	}
}

// CreateCheckoutSession создаёт hosted checkout сессию в режиме payment с одной позицией
func (c *Client) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
					UnitAmount: stripe.Int64(req.AmountMinor),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(req.CustomerEmail),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := c.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return c.sessions.New(params)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: circuit breaker: %v", ErrUnavailable, err)
		case isClientError(err):
			return nil, fmt.Errorf("%w: %v", ErrRejected, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	c.log.Info("Stripe checkout session created: id=%s", session.ID)
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// isClientError true для ответов Stripe с кодом 4xx
func isClientError(err error) bool {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return false
	}
	return stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500
}
