// Package importer загружает клиентов, пакеты и бронирования из CSV.
//
// Форматы файлов (первая строка - заголовок):
//
//	staycation: hotel_name,duration,unit_cost,image_url,description
//	booking:    check_in_date,customer,hotel_name   (customer - email клиента)
//	user:       email,password,name
//
// Строки, которые нельзя загрузить (дубликат, неизвестная ссылка, неверное значение),
// пропускаются и учитываются в Result.Skipped. Ошибка хранилища прерывает импорт.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/magabrotheeeer/staycation/internal/lib/password"
	"github.com/magabrotheeeer/staycation/internal/lib/sl"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

// ErrUnknownDataType возвращается для типа данных вне {staycation, booking, user}.
var ErrUnknownDataType = errors.New("unknown data type")

// DataType тип загружаемого файла.
type DataType string

// Поддерживаемые типы файлов.
const (
	Staycation DataType = "staycation"
	Booking    DataType = "booking"
	User       DataType = "user"
)

// ParseDataType разбирает тип файла, допускаются формы во множественном числе.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "staycation", "staycations":
		return Staycation, nil
	case "booking", "bookings":
		return Booking, nil
	case "user", "users":
		return User, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDataType, s)
	}
}

// Result итог импорта одного файла.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Repository хранилище, в которое пишет импорт.
type Repository interface {
	CreateCustomer(ctx context.Context, c models.Customer) (int64, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	CreatePackage(ctx context.Context, p models.Package) (int64, error)
	GetPackageByHotel(ctx context.Context, hotelName string) (*models.Package, error)
	CreateBooking(ctx context.Context, b models.Booking) (int64, error)
}

// CatalogInvalidator сбрасывает кэш каталога после загрузки пакетов.
type CatalogInvalidator interface {
	InvalidatePackages(ctx context.Context, hotelNames ...string) error
}

// Service сервис импорта.
type Service struct {
	repo    Repository
	catalog CatalogInvalidator
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New создает Service. catalog и m могут быть nil.
func New(repo Repository, catalog CatalogInvalidator, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, metrics: m, log: log}
}

type staycationRow struct {
	HotelName   string `csv:"hotel_name"`
	Duration    string `csv:"duration"`
	UnitCost    string `csv:"unit_cost"`
	ImageURL    string `csv:"image_url"`
	Description string `csv:"description"`
}

type bookingRow struct {
	CheckInDate string `csv:"check_in_date"`
	Customer    string `csv:"customer"`
	HotelName   string `csv:"hotel_name"`
}

type userRow struct {
	Email    string `csv:"email"`
	Password string `csv:"password"`
	Name     string `csv:"name"`
}

// Import загружает CSV типа dataType из r.
func (s *Service) Import(ctx context.Context, dataType DataType, r io.Reader) (Result, error) {
	const op = "importer.Import"

	var (
		res Result
		err error
	)
	switch dataType {
	case Staycation:
		res, err = s.importStaycations(ctx, r)
	case Booking:
		res, err = s.importBookings(ctx, r)
	case User:
		res, err = s.importUsers(ctx, r)
	default:
		return Result{}, fmt.Errorf("%s: %w: %q", op, ErrUnknownDataType, dataType)
	}

	s.metrics.ImportRows(string(dataType), metrics.ImportCreated, res.Created)
	s.metrics.ImportRows(string(dataType), metrics.ImportSkipped, res.Skipped)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("csv imported",
		slog.String("datatype", string(dataType)),
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (s *Service) importStaycations(ctx context.Context, r io.Reader) (Result, error) {
	var rows []*staycationRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return Result{}, fmt.Errorf("decode csv: %w", err)
	}

	var (
		res    Result
		hotels []string
	)
	for i, row := range rows {
		p, err := row.toPackage()
		if err != nil {
			s.skip(&res, "staycation", i, err)
			continue
		}
		id, err := s.repo.CreatePackage(ctx, p)
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.skip(&res, "staycation", i, err)
			continue
		}
		if err != nil {
			return res, err
		}
		p.ID = id
		res.Created++
		hotels = append(hotels, p.HotelName)
	}

	if s.catalog != nil && len(hotels) > 0 {
		if err := s.catalog.InvalidatePackages(ctx, hotels...); err != nil {
			s.log.Warn("failed to invalidate package cache", sl.Err(err))
		}
	}
	return res, nil
}

func (s *Service) importBookings(ctx context.Context, r io.Reader) (Result, error) {
	var rows []*bookingRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return Result{}, fmt.Errorf("decode csv: %w", err)
	}

	customers := map[string]*models.Customer{}
	packages := map[string]*models.Package{}

	var res Result
	for i, row := range rows {
		checkIn, err := ParseCheckIn(row.CheckInDate)
		if err != nil {
			s.skip(&res, "booking", i, err)
			continue
		}

		email := strings.ToLower(strings.TrimSpace(row.Customer))
		customer, ok := customers[email]
		if !ok {
			customer, err = s.repo.GetCustomerByEmail(ctx, email)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return res, err
			}
			customers[email] = customer
		}

		hotel := strings.TrimSpace(row.HotelName)
		pkg, ok := packages[hotel]
		if !ok {
			pkg, err = s.repo.GetPackageByHotel(ctx, hotel)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return res, err
			}
			packages[hotel] = pkg
		}

		if customer == nil || pkg == nil {
			s.skip(&res, "booking", i, fmt.Errorf("unknown customer %q or hotel %q", email, hotel))
			continue
		}

		if _, err = s.repo.CreateBooking(ctx, models.NewBooking(checkIn, customer, pkg)); err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

func (s *Service) importUsers(ctx context.Context, r io.Reader) (Result, error) {
	var rows []*userRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return Result{}, fmt.Errorf("decode csv: %w", err)
	}

	var res Result
	for i, row := range rows {
		email := strings.ToLower(strings.TrimSpace(row.Email))
		name := strings.TrimSpace(row.Name)
		if email == "" || name == "" || row.Password == "" {
			s.skip(&res, "user", i, errors.New("email, password and name are required"))
			continue
		}

		hash, err := password.GetHash(row.Password)
		if err != nil {
			s.skip(&res, "user", i, err)
			continue
		}
		_, err = s.repo.CreateCustomer(ctx, models.Customer{
			Email:        email,
			Name:         name,
			PasswordHash: hash,
			Role:         models.RoleUser,
		})
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.skip(&res, "user", i, err)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Created++
	}
	return res, nil
}

func (s *Service) skip(res *Result, dataType string, index int, err error) {
	res.Skipped++
	// +2: заголовок и нумерация строк с единицы
	s.log.Debug("csv row skipped",
		slog.String("datatype", dataType),
		slog.Int("line", index+2),
		sl.Err(err),
	)
}

func (row staycationRow) toPackage() (models.Package, error) {
	hotel := strings.TrimSpace(row.HotelName)
	if hotel == "" {
		return models.Package{}, errors.New("hotel_name is required")
	}
	// packages.duration - INTEGER
	duration, err := strconv.ParseInt(strings.TrimSpace(row.Duration), 10, 32)
	if err != nil || duration < 0 {
		return models.Package{}, fmt.Errorf("invalid duration %q", row.Duration)
	}
	unitCost, err := strconv.ParseFloat(strings.TrimSpace(row.UnitCost), 64)
	if err != nil || !finite(unitCost) || unitCost < 0 {
		return models.Package{}, fmt.Errorf("invalid unit_cost %q", row.UnitCost)
	}
	if !finite(unitCost * float64(duration)) {
		return models.Package{}, fmt.Errorf("total cost overflows for unit_cost %q and duration %q", row.UnitCost, row.Duration)
	}
	return models.Package{
		HotelName:   hotel,
		Duration:    int(duration),
		UnitCost:    unitCost,
		ImageURL:    strings.TrimSpace(row.ImageURL),
		Description: strings.TrimSpace(row.Description),
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

var checkInLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseCheckIn разбирает дату заезда из CSV. Дата без часового пояса считается в UTC.
func ParseCheckIn(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range checkInLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid check_in_date %q", s)
}
