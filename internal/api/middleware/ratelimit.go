package middleware

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/m04kA/StayFinder-BookingService/internal/api/handlers"
)

const msgTooManyRequests = "too many requests, please try again later"

// RateLimitConfig настройки ограничения частоты запросов
type RateLimitConfig struct {
	// Rate в формате limiter: "10-M", "100-H"
	Rate               string
	Prefix             string
	TrustForwardHeader bool
}

// NewRateLimit создает middleware ограничения частоты по IP клиента.
// Если client == nil, счётчики хранятся в памяти процесса.
func NewRateLimit(cfg RateLimitConfig, client *redis.Client, logger Logger) (func(http.Handler) http.Handler, error) {
	rate, err := limiter.NewRateFromFormatted(cfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("rate limit: invalid rate %q: %w", cfg.Rate, err)
	}

	options := limiter.StoreOptions{Prefix: cfg.Prefix}

	var store limiter.Store
	if client != nil {
		store, err = redisstore.NewStoreWithOptions(client, options)
		if err != nil {
			return nil, fmt.Errorf("rate limit: redis store: %w", err)
		}
	} else {
		store = memory.NewStoreWithOptions(options)
	}

	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(cfg.TrustForwardHeader))

	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("%s %s - Rate limit reached", r.Method, r.URL.Path)
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
		}),
		stdlib.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("%s %s - Rate limiter store error: %v", r.Method, r.URL.Path, err)
			handlers.RespondInternalError(w)
		}),
	)

	return mw.Handler, nil
}
