package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func hit(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/checkout-sessions", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_MemoryStore(t *testing.T) {
	mw, err := NewRateLimit(RateLimitConfig{Rate: "2-M", Prefix: "test"}, nil, testLogger(t))
	require.NoError(t, err)
	h := mw(okHandler())

	assert.Equal(t, http.StatusCreated, hit(h, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusCreated, hit(h, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1234"))

	// другой клиент считается отдельно
	assert.Equal(t, http.StatusCreated, hit(h, "10.0.0.2:1234"))
}

func TestRateLimit_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	mw, err := NewRateLimit(RateLimitConfig{Rate: "1-H", Prefix: "stayfinder"}, client, testLogger(t))
	require.NoError(t, err)
	h := mw(okHandler())

	assert.Equal(t, http.StatusCreated, hit(h, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1234"))
	assert.NotEmpty(t, mr.Keys())
}

func TestRateLimit_InvalidRate(t *testing.T) {
	_, err := NewRateLimit(RateLimitConfig{Rate: "lots"}, nil, testLogger(t))
	assert.Error(t, err)
}
