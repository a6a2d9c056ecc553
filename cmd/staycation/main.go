// Package main Staycation API
//
// @title           Staycation API
// @version         1.0
// @description     Бронирование пакетов проживания в отелях и дашборд с доходом и количеством бронирований.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/staycation/internal/app/staycation"
	"github.com/magabrotheeeer/staycation/internal/config"
	"github.com/magabrotheeeer/staycation/internal/lib/logger"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env, cfg.Log)

	log.Info("starting staycation", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := staycation.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("staycation stopped gracefully")
}
