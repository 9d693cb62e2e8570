package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/StayFinder-BookingService/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "user_id"

const (
	msgMissingToken = "authorization token is required"
	msgInvalidToken = "invalid or expired token"
)

var (
	errNoToken      = errors.New("auth: no bearer token")
	errInvalidToken = errors.New("auth: invalid token")
)

// Authenticator проверяет bearer токены (HS256). Subject токена - идентификатор арендатора.
type Authenticator struct {
	secret []byte
	logger Logger
}

// NewAuthenticator создает middleware аутентификации
func NewAuthenticator(secret string, logger Logger) *Authenticator {
	return &Authenticator{secret: []byte(secret), logger: logger}
}

// Required пропускает только запросы с валидным токеном
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.authenticate(r)
		if err != nil {
			a.logger.Warn("%s %s - Unauthorized: %v", r.Method, r.URL.Path, err)
			if errors.Is(err, errNoToken) {
				handlers.RespondUnauthorized(w, msgMissingToken)
				return
			}
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// Optional пропускает запросы без токена как гостевые, но отклоняет предъявленный невалидный токен
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.authenticate(r)
		switch {
		case err == nil:
			r = r.WithContext(WithUserID(r.Context(), userID))
		case errors.Is(err, errNoToken):
		default:
			a.logger.Warn("%s %s - Unauthorized: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) authenticate(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoToken
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: malformed authorization header", errInvalidToken)
	}

	token, err := jwt.Parse(strings.TrimSpace(raw), func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidToken, err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", errInvalidToken)
	}

	return subject, nil
}

// WithUserID кладёт идентификатор арендатора в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID достаёт идентификатор арендатора из контекста
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
