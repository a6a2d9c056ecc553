package create

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/staycation/internal/http/middlewarectx"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/services/booking"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, identity models.Identity, hotelName string, checkIn time.Time) (*models.Booking, error) {
	args := m.Called(ctx, identity, hotelName, checkIn)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	alice := models.Identity{Email: "alice@example.com", Name: "Alice"}
	july := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		identity   *models.Identity
		body       string
		setupMock  func(*ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name:     "booked",
			identity: &alice,
			body:     `{"check_in_date":"2024-07-01"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, alice, "Raffles", july).
					Return(&models.Booking{ID: 9, CheckInDate: july, TotalCost: 450}, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `"total_cost":450`,
		},
		{
			name:     "unknown hotel",
			identity: &alice,
			body:     `{"check_in_date":"2024-07-01"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, alice, "Raffles", july).
					Return(nil, fmt.Errorf("booking.Create: %w", booking.ErrPackageNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "package not found",
		},
		{
			name:     "deleted customer",
			identity: &alice,
			body:     `{"check_in_date":"2024-07-01"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, alice, "Raffles", july).
					Return(nil, fmt.Errorf("booking.Create: %w", booking.ErrCustomerNotFound)).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "unauthorized",
		},
		{
			name:     "storage failure",
			identity: &alice,
			body:     `{"check_in_date":"2024-07-01"}`,
			setupMock: func(m *ServiceMock) {
				m.On("Create", mock.Anything, alice, "Raffles", july).Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "could not create booking",
		},
		{name: "bad date", identity: &alice, body: `{"check_in_date":"01.07.2024"}`,
			wantStatus: http.StatusBadRequest, wantBody: "YYYY-MM-DD"},
		{name: "missing date", identity: &alice, body: `{}`,
			wantStatus: http.StatusUnprocessableEntity, wantBody: "field CheckInDate is a required field"},
		{name: "broken json", identity: &alice, body: `{`,
			wantStatus: http.StatusBadRequest, wantBody: "invalid request body"},
		{name: "anonymous", body: `{"check_in_date":"2024-07-01"}`,
			wantStatus: http.StatusUnauthorized, wantBody: "unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/Raffles/bookings", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("hotel", "Raffles")
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-1")
			if tt.identity != nil {
				ctx = middlewarectx.WithIdentity(ctx, *tt.identity)
			}
			rec := httptest.NewRecorder()

			New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
