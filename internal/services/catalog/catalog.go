// Package catalog отдаёт каталог пакетов проживания с кэшированием в Redis.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

const allPackagesKey = "packages:all"

// ErrPackageNotFound возвращается, если пакета для отеля нет.
var ErrPackageNotFound = errors.New("package not found")

// PackageRepository хранилище пакетов.
type PackageRepository interface {
	ListPackages(ctx context.Context) ([]models.Package, error)
	GetPackageByHotel(ctx context.Context, hotelName string) (*models.Package, error)
}

// Cache кэш значений в JSON.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service сервис каталога. Ошибки кэша не прерывают запрос: данные берутся из базы.
type Service struct {
	repo  PackageRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создает Service. cache может быть nil.
func New(repo PackageRepository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, ttl: ttl, log: log}
}

// ListPackages возвращает все пакеты.
func (s *Service) ListPackages(ctx context.Context) ([]models.Package, error) {
	const op = "catalog.ListPackages"

	var cached []models.Package
	if s.fromCache(ctx, allPackagesKey, &cached) {
		return cached, nil
	}

	list, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, allPackagesKey, list)
	return list, nil
}

// GetPackage возвращает пакет отеля hotelName.
func (s *Service) GetPackage(ctx context.Context, hotelName string) (*models.Package, error) {
	const op = "catalog.GetPackage"

	var cached models.Package
	if s.fromCache(ctx, packageKey(hotelName), &cached) {
		return &cached, nil
	}

	p, err := s.repo.GetPackageByHotel(ctx, hotelName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPackageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.toCache(ctx, packageKey(hotelName), p)
	return p, nil
}

// InvalidatePackages сбрасывает список пакетов и записи перечисленных отелей.
func (s *Service) InvalidatePackages(ctx context.Context, hotelNames ...string) error {
	const op = "catalog.InvalidatePackages"
	if s.cache == nil {
		return nil
	}
	keys := make([]string, 0, len(hotelNames)+1)
	keys = append(keys, allPackagesKey)
	for _, h := range hotelNames {
		keys = append(keys, packageKey(h))
	}
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.log.Warn("failed to read cache", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

func (s *Service) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.log.Warn("failed to write cache", slog.String("key", key), sl.Err(err))
	}
}

func packageKey(hotelName string) string {
	return "package:" + hotelName
}
