// Package booking оформляет бронирования пакетов клиентами.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

var (
	// ErrPackageNotFound возвращается, если отеля нет в каталоге.
	ErrPackageNotFound = errors.New("package not found")
	// ErrCustomerNotFound возвращается, если клиент из токена не найден в базе.
	ErrCustomerNotFound = errors.New("customer not found")
)

// Repository хранилище, нужное для оформления бронирований.
type Repository interface {
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	GetPackageByHotel(ctx context.Context, hotelName string) (*models.Package, error)
	CreateBooking(ctx context.Context, b models.Booking) (int64, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
}

// Publisher публикует события о новых бронированиях.
type Publisher interface {
	PublishBookingCreated(ctx context.Context, event models.BookingCreated) error
}

// Service сервис бронирований.
type Service struct {
	repo      Repository
	publisher Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// New создает Service. publisher и m могут быть nil.
func New(repo Repository, publisher Publisher, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, metrics: m, log: log}
}

// Create бронирует пакет отеля hotelName для клиента с датой заезда checkIn.
// Стоимость равна стоимости ночи, умноженной на длительность пакета.
func (s *Service) Create(ctx context.Context, identity models.Identity, hotelName string, checkIn time.Time) (*models.Booking, error) {
	const op = "booking.Create"

	customer, err := s.repo.GetCustomerByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pkg, err := s.repo.GetPackageByHotel(ctx, hotelName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrPackageNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b := models.NewBooking(checkIn, customer, pkg)
	id, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	b.ID = id
	s.metrics.BookingCreated()

	s.log.Info("booking created",
		slog.Int64("id", id),
		slog.String("hotel", pkg.HotelName),
		slog.Float64("total_cost", b.TotalCost),
	)

	if s.publisher != nil {
		event := models.BookingCreated{
			BookingID:   id,
			Email:       customer.Email,
			Name:        customer.Name,
			HotelName:   pkg.HotelName,
			CheckInDate: b.CheckInDate,
			TotalCost:   b.TotalCost,
		}
		if err = s.publisher.PublishBookingCreated(ctx, event); err != nil {
			s.log.Warn("failed to publish booking event", slog.Int64("id", id), sl.Err(err))
		}
	}
	return &b, nil
}

// ListForCustomer возвращает бронирования клиента.
func (s *Service) ListForCustomer(ctx context.Context, identity models.Identity) ([]models.Booking, error) {
	const op = "booking.ListForCustomer"
	list, err := s.repo.ListBookings(ctx, repository.BookingFilter{CustomerEmail: identity.Email})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}
