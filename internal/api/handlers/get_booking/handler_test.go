package get_booking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/StayFinder-BookingService/internal/api/middleware"
	"github.com/m04kA/StayFinder-BookingService/internal/service/bookings"
	"github.com/m04kA/StayFinder-BookingService/internal/service/bookings/models"
	"github.com/m04kA/StayFinder-BookingService/pkg/logger"
)

type mockService struct {
	booking *models.BookingResponse
	err     error
}

func (m *mockService) GetByID(_ context.Context, id int64, renterID string) (*models.BookingResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.booking, nil
}

func serve(t *testing.T, svc BookingService, path, userID string) *httptest.ResponseRecorder {
	t.Helper()
	log, err := logger.NewWithWriter(io.Discard, "debug")
	require.NoError(t, err)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, log).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &mockService{booking: &models.BookingResponse{ID: 7, ListingID: "L1", Amount: 1500, ComputedStatus: "upcoming"}}

	rec := serve(t, svc, "/api/v1/bookings/7", "u1")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, 1500.0, body.Amount)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		userID     string
		err        error
		wantStatus int
	}{
		{"bad id", "/api/v1/bookings/abc", "u1", nil, http.StatusBadRequest},
		{"zero id", "/api/v1/bookings/0", "u1", nil, http.StatusBadRequest},
		{"no user", "/api/v1/bookings/7", "", nil, http.StatusUnauthorized},
		{"not found", "/api/v1/bookings/7", "u1", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"internal", "/api/v1/bookings/7", "u1", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &mockService{err: tt.err}, tt.path, tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
