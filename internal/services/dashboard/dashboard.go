// Package dashboard строит данные графиков дашборда.
//
// Каждый запрос графика заново проходит по всем бронированиям: агрегирует их,
// сохраняет свежий снимок в хранилище графиков, перечитывает его по ID
// и только затем приводит к виду, который ожидает фронтенд.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/staycation/internal/aggregator"
	"github.com/magabrotheeeer/staycation/internal/metrics"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

// Типы графиков для метрик и логов.
const (
	ChartTrend = "trend"
	ChartBar   = "bar"
)

// BookingSource источник бронирований с разрешёнными ссылками.
type BookingSource interface {
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, error)
	ListCustomerNames(ctx context.Context, exclude ...string) ([]string, error)
	ListHotelNames(ctx context.Context) ([]string, error)
}

// ChartStore хранилище снимков графиков.
type ChartStore interface {
	SaveTrend(ctx context.Context, rec models.TrendRecord) (string, error)
	GetTrend(ctx context.Context, id string) (models.TrendRecord, error)
	SaveBar(ctx context.Context, rec models.BarRecord) (string, error)
	GetBar(ctx context.Context, id string) (models.BarRecord, error)
}

// TrendPayload данные линейного графика дохода. Значение -1 означает отсутствие дохода в дату.
type TrendPayload struct {
	ChartDim map[string][]float64 `json:"chartDim"`
	Labels   []string             `json:"labels"`
}

// BarPayload данные столбчатой диаграммы.
// Цель сериализуется в поле user_name или hotel_name в зависимости от оси.
type BarPayload struct {
	ChartDim []string
	Labels   []int
	Axis     models.Axis
	Target   string
}

// MarshalJSON реализует json.Marshaler.
func (p BarPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"chartDim":          p.ChartDim,
		"labels":            p.Labels,
		p.Axis.TargetField(): p.Target,
	})
}

// Service сервис дашборда.
type Service struct {
	bookings BookingSource
	charts   ChartStore
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New создает Service.
func New(bookings BookingSource, charts ChartStore, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{bookings: bookings, charts: charts, metrics: m, log: log}
}

// TrendChart возвращает доход отелей по датам заезда.
func (s *Service) TrendChart(ctx context.Context) (*TrendPayload, error) {
	const op = "dashboard.TrendChart"

	bookings, err := s.bookings.ListBookings(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	income, skipped := aggregator.ComputeDailyIncome(bookings)
	s.observe(op, ChartTrend, len(bookings), skipped)

	id, err := s.charts.SaveTrend(ctx, models.NewTrendRecord(income))
	if err != nil {
		return nil, fmt.Errorf("%s: save: %w", op, err)
	}
	rec, err := s.charts.GetTrend(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: read back %s: %w", op, id, err)
	}

	chartDim, labels := aggregator.BuildTrendSeries(rec)
	return &TrendPayload{ChartDim: chartDim, Labels: labels}, nil
}

// BarChart возвращает количество бронирований по оси axis для цели target.
// Цель без бронирований даёт пустую диаграмму.
func (s *Service) BarChart(ctx context.Context, axis models.Axis, target string) (*BarPayload, error) {
	const op = "dashboard.BarChart"
	if !axis.Valid() {
		return nil, fmt.Errorf("%s: %w: %q", op, models.ErrInvalidAxis, axis)
	}

	bookings, err := s.bookings.ListBookings(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	counts, skipped, err := aggregator.ComputeBookingCounts(bookings, axis, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.observe(op, ChartBar, len(bookings), skipped)

	id, err := s.charts.SaveBar(ctx, models.BarRecord{Axis: axis, Target: target, Data: counts})
	if err != nil {
		return nil, fmt.Errorf("%s: save: %w", op, err)
	}
	rec, err := s.charts.GetBar(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: read back %s: %w", op, id, err)
	}

	names, values := aggregator.BarSeries(rec)
	return &BarPayload{ChartDim: names, Labels: values, Axis: rec.Axis, Target: rec.Target}, nil
}

// UserNames возвращает имена клиентов для выбора цели, без служебного администратора.
func (s *Service) UserNames(ctx context.Context) ([]string, error) {
	const op = "dashboard.UserNames"
	names, err := s.bookings.ListCustomerNames(ctx, models.AdminName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return names, nil
}

// HotelNames возвращает названия отелей для выбора цели.
func (s *Service) HotelNames(ctx context.Context) ([]string, error) {
	const op = "dashboard.HotelNames"
	names, err := s.bookings.ListHotelNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return names, nil
}

func (s *Service) observe(op, chart string, total, skipped int) {
	s.metrics.Aggregated(chart, skipped)
	if skipped > 0 {
		s.log.Warn("skipped bookings with missing customer or package",
			slog.String("op", op),
			slog.Int("skipped", skipped),
			slog.Int("total", total),
		)
	}
}
