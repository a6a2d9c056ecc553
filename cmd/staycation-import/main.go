// Команда staycation-import загружает CSV-файлы в базу портала без HTTP API.
//
//	staycation-import -type staycation packages.csv
//	staycation-import -type booking bookings-2024-*.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/staycation/internal/cache"
	"github.com/magabrotheeeer/staycation/internal/config"
	"github.com/magabrotheeeer/staycation/internal/lib/logger"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/migrations"
	"github.com/magabrotheeeer/staycation/internal/services/catalog"
	"github.com/magabrotheeeer/staycation/internal/services/importer"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

func main() {
	dataTypeFlag := flag.String("type", "", "data type of the files: staycation, booking or user")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -type <staycation|booking|user> file.csv [file.csv ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	dataType, err := importer.ParseDataType(*dataTypeFlag)
	if err != nil || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.MustLoad()
	log := logger.Setup(cfg.Env, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, dataType, flag.Args()); err != nil {
		log.Error("import failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, dataType importer.DataType, files []string) error {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return err
	}

	// кэш каталога сбрасывается, только если Redis доступен
	var invalidator importer.CatalogInvalidator
	redisCache, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		log.Warn("redis is unavailable, package cache is not invalidated", sl.Err(err))
	} else {
		defer redisCache.Close()
		invalidator = catalog.New(db, redisCache, cfg.Cache.PackageTTL, log)
	}

	svc := importer.New(db, invalidator, metrics.New(prometheus.NewRegistry()), log)

	var total importer.Result
	for _, path := range files {
		res, err := importFile(ctx, svc, dataType, path)
		if err != nil {
			return err
		}
		log.Info("file imported",
			slog.String("file", path),
			slog.Int("created", res.Created),
			slog.Int("skipped", res.Skipped),
		)
		total.Created += res.Created
		total.Skipped += res.Skipped
	}

	log.Info("import finished",
		slog.String("datatype", string(dataType)),
		slog.Int("files", len(files)),
		slog.Int("created", total.Created),
		slog.Int("skipped", total.Skipped),
	)
	return nil
}

func importFile(ctx context.Context, svc *importer.Service, dataType importer.DataType, path string) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, err
	}
	defer f.Close()

	res, err := svc.Import(ctx, dataType, f)
	if err != nil {
		return importer.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
