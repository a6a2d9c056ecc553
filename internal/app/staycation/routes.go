// Package staycation собирает HTTP API портала: хранилища, сервисы и маршруты.
package staycation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/staycation/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/staycation/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/staycation/internal/http/handlers/auth/register"
	bookingcreate "github.com/magabrotheeeer/staycation/internal/http/handlers/bookings/create"
	bookinglist "github.com/magabrotheeeer/staycation/internal/http/handlers/bookings/list"
	"github.com/magabrotheeeer/staycation/internal/http/handlers/dashboard/bar"
	"github.com/magabrotheeeer/staycation/internal/http/handlers/dashboard/names"
	"github.com/magabrotheeeer/staycation/internal/http/handlers/dashboard/trend"
	"github.com/magabrotheeeer/staycation/internal/http/handlers/health"
	packageget "github.com/magabrotheeeer/staycation/internal/http/handlers/packages/get"
	packagelist "github.com/magabrotheeeer/staycation/internal/http/handlers/packages/list"
	"github.com/magabrotheeeer/staycation/internal/http/handlers/upload"
	"github.com/magabrotheeeer/staycation/internal/http/middlewarectx"
	"github.com/magabrotheeeer/staycation/internal/metrics"
)

// AuthService регистрация, вход, выход и проверка токенов.
type AuthService interface {
	register.Service
	login.Service
	logout.Service
	middlewarectx.TokenValidator
}

// CatalogService каталог пакетов.
type CatalogService interface {
	packagelist.Service
	packageget.Service
}

// BookingService бронирования.
type BookingService interface {
	bookingcreate.Service
	bookinglist.Service
}

// DashboardService графики и списки целей дашборда.
type DashboardService interface {
	trend.Service
	bar.Service
	UserNames(ctx context.Context) ([]string, error)
	HotelNames(ctx context.Context) ([]string, error)
}

// Deps зависимости маршрутов.
type Deps struct {
	Auth      AuthService
	Catalog   CatalogService
	Bookings  BookingService
	Dashboard DashboardService
	Importer  upload.Service
	DB        health.Pinger
	Limiter   *middlewarectx.RateLimiter
	Metrics   *metrics.Metrics
	// MetricsHandler отдаёт метрики Prometheus, nil отключает маршрут /metrics
	MetricsHandler http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		d.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware(logger))
		}

		// Открытые конечные точки
		r.Post("/register", register.New(logger, d.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, d.Auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Auth, logger))

			r.Post("/logout", logout.New(logger, d.Auth).ServeHTTP)

			r.Get("/packages", packagelist.New(logger, d.Catalog).ServeHTTP)
			r.Get("/packages/{hotel}", packageget.New(logger, d.Catalog).ServeHTTP)
			r.Post("/packages/{hotel}/bookings", bookingcreate.New(logger, d.Bookings).ServeHTTP)
			r.Get("/bookings", bookinglist.New(logger, d.Bookings).ServeHTTP)

			r.Post("/upload", upload.New(logger, d.Importer).ServeHTTP)

			r.Route("/dashboard", func(r chi.Router) {
				r.Post("/trend_chart", trend.New(logger, d.Dashboard).ServeHTTP)
				r.Post("/bar_chart_by_user", bar.NewByUser(logger, d.Dashboard).ServeHTTP)
				r.Post("/bar_chart_by_hotel", bar.NewByHotel(logger, d.Dashboard).ServeHTTP)
				r.Post("/bar_chart", bar.New(logger, d.Dashboard).ServeHTTP)
				r.Get("/users", names.NewUsers(logger, d.Dashboard.UserNames).ServeHTTP)
				r.Get("/hotels", names.NewHotels(logger, d.Dashboard.HotelNames).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, d.DB).ServeHTTP)
	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
