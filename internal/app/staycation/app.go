package staycation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/staycation/internal/cache"
	"github.com/magabrotheeeer/staycation/internal/config"
	"github.com/magabrotheeeer/staycation/internal/http/middlewarectx"
	"github.com/magabrotheeeer/staycation/internal/lib/jwt"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/migrations"
	"github.com/magabrotheeeer/staycation/internal/rabbitmq"
	"github.com/magabrotheeeer/staycation/internal/services/auth"
	"github.com/magabrotheeeer/staycation/internal/services/booking"
	"github.com/magabrotheeeer/staycation/internal/services/catalog"
	"github.com/magabrotheeeer/staycation/internal/services/dashboard"
	"github.com/magabrotheeeer/staycation/internal/services/importer"
	"github.com/magabrotheeeer/staycation/internal/storage/mongostore"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP API портала.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []func(ctx context.Context) error
}

// New подключает хранилища и брокер, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "staycation.New"
	app := &App{logger: logger}
	fail := func(err error) (*App, error) {
		app.close(context.Background())
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return fail(err)
	}
	app.onClose(func(context.Context) error { return db.Close() })

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return fail(err)
	}

	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return fail(err)
	}
	app.onClose(func(context.Context) error { return redisCache.Close() })

	charts, err := app.chartStore(ctx, cfg.ChartStore, db)
	if err != nil {
		return fail(err)
	}

	publisher, err := app.bookingPublisher(ctx, cfg.RabbitMQ)
	if err != nil {
		return fail(err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	authService := auth.New(db, redisCache, jwtMaker)
	catalogService := catalog.New(db, redisCache, cfg.Cache.PackageTTL, logger)
	bookingService := booking.New(db, publisher, m, logger)
	dashboardService := dashboard.New(db, charts, m, logger)
	importService := importer.New(db, catalogService, m, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Auth:           authService,
		Catalog:        catalogService,
		Bookings:       bookingService,
		Dashboard:      dashboardService,
		Importer:       importService,
		DB:             db,
		Limiter:        middlewarectx.NewRateLimiter(cfg.HTTPServer.RateLimit, cfg.HTTPServer.RateBurst),
		Metrics:        m,
		MetricsHandler: promhttp.Handler(),
	})

	app.server = &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
	return app, nil
}

// chartStore выбирает хранилище снимков графиков.
func (a *App) chartStore(ctx context.Context, cfg config.ChartStore, db *repository.Storage) (dashboard.ChartStore, error) {
	if cfg.Backend != config.ChartStoreMongo {
		return db, nil
	}
	store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	a.onClose(store.Close)
	a.logger.Info("chart snapshots are stored in mongodb", slog.String("database", cfg.MongoDatabase))
	return store, nil
}

// bookingPublisher подключается к RabbitMQ. Без URL события не публикуются.
func (a *App) bookingPublisher(ctx context.Context, cfg config.RabbitMQ) (booking.Publisher, error) {
	if cfg.URL == "" {
		a.logger.Warn("rabbitmq url is empty, booking events are not published")
		return nil, nil
	}
	conn, err := rabbitmq.Connect(ctx, cfg.URL, cfg.MaxRetries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.onClose(func(context.Context) error { return conn.Close() })

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.BookingQueues(), 0)
	if err != nil {
		return nil, err
	}
	a.onClose(func(context.Context) error { return closeChannel(ch) })
	return rabbitmq.NewPublisher(ch), nil
}

func closeChannel(ch *amqp.Channel) error {
	if err := ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}

func (a *App) onClose(fn func(ctx context.Context) error) {
	a.closers = append(a.closers, fn)
}

// close освобождает ресурсы в обратном порядке.
func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Error("failed to release resource", sl.Err(err))
		}
	}
	a.closers = nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close(context.Background())
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close(timeoutCtx)
		return err
	}
}
