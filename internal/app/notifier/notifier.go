// Package notifier собирает рассыльщик подтверждений бронирования:
// читает очередь bookings.created и отправляет письма через SMTP.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/staycation/internal/config"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/lib/smtp"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/rabbitmq"
	"github.com/magabrotheeeer/staycation/internal/services/notification"
)

// App рассыльщик подтверждений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	workers       int
	notifications *notification.Service
	metricsServer *http.Server
	logger        *slog.Logger
}

// New подключается к RabbitMQ и объявляет очередь событий бронирования.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "notifier.New"
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("%s: rabbitmq url is required", op)
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.BookingQueues(), cfg.RabbitMQ.Workers)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	app := &App{
		conn:          conn,
		ch:            ch,
		workers:       cfg.RabbitMQ.Workers,
		notifications: notification.New(smtp.NewTransport(cfg.SMTP, logger), m, logger),
		logger:        logger,
	}
	if cfg.Notifier.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{
			Addr:              cfg.Notifier.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return app, nil
}

// Run обрабатывает события до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server stopped", sl.Err(err))
			}
		}()
	}

	a.logger.Info("consuming booking events",
		slog.String("queue", rabbitmq.BookingCreatedQueue),
		slog.Int("workers", a.workers),
	)
	err := rabbitmq.Consume(ctx, a.ch, rabbitmq.BookingCreatedQueue, a.workers, a.notifications.HandleBookingCreated, a.logger)
	if err != nil {
		a.logger.Error("booking events consumer stopped", sl.Err(err))
	}

	a.logger.Info("notifier shutting down gracefully")
	a.shutdown()
	return err
}

func (a *App) shutdown() {
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.Error("failed to stop metrics server", sl.Err(err))
		}
	}
	if err := a.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
