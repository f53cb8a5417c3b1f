package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/Domenick1991/thsrbook/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type stubHistory struct{}

func (stubHistory) List(context.Context) ([]domain.Reservation, error) {
	return []domain.Reservation{}, nil
}

func (stubHistory) Get(_ context.Context, ticketID string) (*domain.Reservation, error) {
	return nil, domain.ErrReservationMissing
}

func (stubHistory) Record(context.Context, *domain.Reservation) error { return nil }

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("test", reg)
	m.ReservationsBooked.Inc()
	router := NewRouter(stubHistory{}, reg)

	cases := []struct {
		path     string
		code     int
		contains string
	}{
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/metrics", http.StatusOK, "test_reservations_booked_total 1"},
		{"/reservations", http.StatusOK, "[]"},
		{"/reservations/unknown", http.StatusNotFound, "reservation not found"},
		{"/stations", http.StatusOK, `"name":"Taichung"`},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.code, w.Code)
			assert.Contains(t, w.Body.String(), tc.contains)
		})
	}
}
