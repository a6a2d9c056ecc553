package staycation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/services/auth"
	"github.com/magabrotheeeer/staycation/internal/services/dashboard"
	"github.com/magabrotheeeer/staycation/internal/services/importer"
)

const goodToken = "good-token"

var alice = models.Identity{Email: "alice@example.com", Name: "Alice", Role: models.RoleUser, TokenID: "jti"}

type fakeAuth struct{}

func (fakeAuth) Register(_ context.Context, email, name, _ string) (*auth.Session, error) {
	return &auth.Session{Token: goodToken, Customer: models.Customer{Email: email, Name: name}}, nil
}

func (fakeAuth) Login(context.Context, string, string) (*auth.Session, error) {
	return nil, auth.ErrNoSuchUser
}

func (fakeAuth) Logout(context.Context, models.Identity) error { return nil }

func (fakeAuth) ValidateToken(_ context.Context, token string) (models.Identity, error) {
	if token != goodToken {
		return models.Identity{}, auth.ErrInvalidToken
	}
	return alice, nil
}

type fakeCatalog struct{}

func (fakeCatalog) ListPackages(context.Context) ([]models.Package, error) {
	return []models.Package{{ID: 1, HotelName: "Raffles", Duration: 2, UnitCost: 100}}, nil
}

func (fakeCatalog) GetPackage(context.Context, string) (*models.Package, error) {
	return &models.Package{ID: 1, HotelName: "Raffles", Duration: 2, UnitCost: 100}, nil
}

type fakeBookings struct{}

func (fakeBookings) Create(_ context.Context, _ models.Identity, _ string, checkIn time.Time) (*models.Booking, error) {
	return &models.Booking{ID: 1, CheckInDate: checkIn, TotalCost: 200}, nil
}

func (fakeBookings) ListForCustomer(context.Context, models.Identity) ([]models.Booking, error) {
	return nil, nil
}

type fakeDashboard struct{}

func (fakeDashboard) TrendChart(context.Context) (*dashboard.TrendPayload, error) {
	return &dashboard.TrendPayload{ChartDim: map[string][]float64{}, Labels: []string{}}, nil
}

func (fakeDashboard) BarChart(_ context.Context, axis models.Axis, target string) (*dashboard.BarPayload, error) {
	if !axis.Valid() {
		return nil, models.ErrInvalidAxis
	}
	return &dashboard.BarPayload{ChartDim: []string{}, Labels: []int{}, Axis: axis, Target: target}, nil
}

func (fakeDashboard) UserNames(context.Context) ([]string, error)  { return []string{"Alice"}, nil }
func (fakeDashboard) HotelNames(context.Context) ([]string, error) { return []string{"Raffles"}, nil }

type fakeImporter struct{}

func (fakeImporter) Import(context.Context, importer.DataType, io.Reader) (importer.Result, error) {
	return importer.Result{}, errors.New("not used")
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	r := chi.NewRouter()
	RegisterRoutes(r, slog.New(slog.NewTextHandler(io.Discard, nil)), Deps{
		Auth:           fakeAuth{},
		Catalog:        fakeCatalog{},
		Bookings:       fakeBookings{},
		Dashboard:      fakeDashboard{},
		Importer:       fakeImporter{},
		Metrics:        metrics.New(reg),
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return r
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		token      string
		wantStatus int
		wantBody   string
	}{
		{name: "health is public", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "register is public", method: http.MethodPost, path: "/api/v1/register",
			body: `{"email":"bob@example.com","name":"Bob","password":"secret1"}`, wantStatus: http.StatusCreated},
		{name: "login unknown user", method: http.MethodPost, path: "/api/v1/login",
			body: `{"email":"bob@example.com","password":"secret1"}`, wantStatus: http.StatusUnauthorized},
		{name: "packages need a token", method: http.MethodGet, path: "/api/v1/packages", wantStatus: http.StatusUnauthorized},
		{name: "packages with bad token", method: http.MethodGet, path: "/api/v1/packages", token: "forged",
			wantStatus: http.StatusUnauthorized},
		{name: "packages", method: http.MethodGet, path: "/api/v1/packages", token: goodToken,
			wantStatus: http.StatusOK, wantBody: "Raffles"},
		{name: "package by hotel", method: http.MethodGet, path: "/api/v1/packages/Raffles", token: goodToken,
			wantStatus: http.StatusOK, wantBody: `"unit_cost":100`},
		{name: "book a package", method: http.MethodPost, path: "/api/v1/packages/Raffles/bookings", token: goodToken,
			body: `{"check_in_date":"2024-07-01"}`, wantStatus: http.StatusCreated, wantBody: `"total_cost":200`},
		{name: "my bookings", method: http.MethodGet, path: "/api/v1/bookings", token: goodToken,
			wantStatus: http.StatusOK, wantBody: `"data":[]`},
		{name: "trend chart", method: http.MethodPost, path: "/api/v1/dashboard/trend_chart", token: goodToken,
			wantStatus: http.StatusOK, wantBody: `"chartDim":{}`},
		{name: "bar chart by user", method: http.MethodPost, path: "/api/v1/dashboard/bar_chart_by_user", token: goodToken,
			body: `{"username":"Alice"}`, wantStatus: http.StatusOK, wantBody: `"user_name":"Alice"`},
		{name: "bar chart by hotel", method: http.MethodPost, path: "/api/v1/dashboard/bar_chart_by_hotel", token: goodToken,
			body: `{"hotelname":"Raffles"}`, wantStatus: http.StatusOK, wantBody: `"hotel_name":"Raffles"`},
		{name: "bar chart unknown axis", method: http.MethodPost, path: "/api/v1/dashboard/bar_chart", token: goodToken,
			body: `{"axis":"by month","target":"x"}`, wantStatus: http.StatusBadRequest},
		{name: "user names", method: http.MethodGet, path: "/api/v1/dashboard/users", token: goodToken,
			wantStatus: http.StatusOK, wantBody: `["Alice"]`},
		{name: "hotel names", method: http.MethodGet, path: "/api/v1/dashboard/hotels", token: goodToken,
			wantStatus: http.StatusOK, wantBody: `["Raffles"]`},
		{name: "logout", method: http.MethodPost, path: "/api/v1/logout", token: goodToken, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRoutes_MetricsExposeRequests(t *testing.T) {
	router := newTestRouter(t)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `staycation_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
