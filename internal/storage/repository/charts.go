package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/staycation/internal/lib/datekey"
	"github.com/magabrotheeeer/staycation/internal/models"
)

// SaveTrend проверяет и сохраняет новый снимок дохода, возвращая его ID.
func (s *Storage) SaveTrend(ctx context.Context, rec models.TrendRecord) (string, error) {
	const op = "repository.SaveTrend"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	dates, err := json.Marshal(rec.Dates)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.NewString()
	query := `INSERT INTO trend_charts (id, dates, start_date, end_date, data)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err = s.DB.ExecContext(ctx, query, id, dates, dateArg(rec.StartDate), dateArg(rec.EndDate), data); err != nil {
		return "", mapError(op, err)
	}
	return id, nil
}

// GetTrend читает снимок дохода по ID.
func (s *Storage) GetTrend(ctx context.Context, id string) (models.TrendRecord, error) {
	const op = "repository.GetTrend"
	if err := checkCtx(ctx, op); err != nil {
		return models.TrendRecord{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return models.TrendRecord{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var (
		rec         = models.TrendRecord{ID: id}
		dates, data []byte
		start, end  sql.NullTime
	)
	query := `SELECT dates, start_date, end_date, data, created_at FROM trend_charts WHERE id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&dates, &start, &end, &data, &rec.CreatedAt); err != nil {
		return models.TrendRecord{}, mapError(op, err)
	}
	if err := json.Unmarshal(dates, &rec.Dates); err != nil {
		return models.TrendRecord{}, fmt.Errorf("%s: dates: %w", op, err)
	}
	if err := json.Unmarshal(data, &rec.Data); err != nil {
		return models.TrendRecord{}, fmt.Errorf("%s: data: %w", op, err)
	}
	rec.StartDate = dateFromDB(start)
	rec.EndDate = dateFromDB(end)
	return rec, nil
}

// SaveBar проверяет и сохраняет новый снимок счётчиков бронирований, возвращая его ID.
func (s *Storage) SaveBar(ctx context.Context, rec models.BarRecord) (string, error) {
	const op = "repository.SaveBar"
	if err := checkCtx(ctx, op); err != nil {
		return "", err
	}
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	data, err := json.Marshal(rec.Data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.NewString()
	query := `INSERT INTO bar_charts (id, axis, target, data) VALUES ($1, $2, $3, $4)`
	if _, err = s.DB.ExecContext(ctx, query, id, string(rec.Axis), rec.Target, data); err != nil {
		return "", mapError(op, err)
	}
	return id, nil
}

// GetBar читает снимок счётчиков по ID.
func (s *Storage) GetBar(ctx context.Context, id string) (models.BarRecord, error) {
	const op = "repository.GetBar"
	if err := checkCtx(ctx, op); err != nil {
		return models.BarRecord{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return models.BarRecord{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	var (
		rec  = models.BarRecord{ID: id}
		axis string
		data []byte
	)
	query := `SELECT axis, target, data, created_at FROM bar_charts WHERE id = $1`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&axis, &rec.Target, &data, &rec.CreatedAt); err != nil {
		return models.BarRecord{}, mapError(op, err)
	}
	rec.Axis = models.Axis(axis)
	if err := json.Unmarshal(data, &rec.Data); err != nil {
		return models.BarRecord{}, fmt.Errorf("%s: data: %w", op, err)
	}
	return rec, nil
}

// dateArg передаёт дату как строку YYYY-MM-DD, чтобы часовой пояс не сдвигал день.
func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return datekey.Format(*t)
}

func dateFromDB(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	d := time.Date(v.Time.Year(), v.Time.Month(), v.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
