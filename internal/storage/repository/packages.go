package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/staycation/internal/models"
)

const packageColumns = "id, hotel_name, duration, unit_cost, image_url, description"

// CreatePackage сохраняет пакет проживания и возвращает его ID.
// Пакет с уже существующим названием отеля даёт ErrAlreadyExists.
func (s *Storage) CreatePackage(ctx context.Context, p models.Package) (int64, error) {
	const op = "repository.CreatePackage"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO packages (hotel_name, duration, unit_cost, image_url, description)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		p.HotelName, p.Duration, p.UnitCost, p.ImageURL, p.Description).Scan(&id); err != nil {
		return 0, mapError(op, err)
	}
	return id, nil
}

// GetPackageByHotel возвращает пакет по названию отеля.
func (s *Storage) GetPackageByHotel(ctx context.Context, hotelName string) (*models.Package, error) {
	const op = "repository.GetPackageByHotel"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := builder().Select(packageColumns).
		From("packages").
		Where(sq.Eq{"hotel_name": hotelName}).
		ToSql()
	if err != nil {
		return nil, mapError(op, err)
	}

	var p models.Package
	if err = s.DB.QueryRowContext(ctx, query, args...).
		Scan(&p.ID, &p.HotelName, &p.Duration, &p.UnitCost, &p.ImageURL, &p.Description); err != nil {
		return nil, mapError(op, err)
	}
	return &p, nil
}

// ListPackages возвращает все пакеты, отсортированные по названию отеля.
func (s *Storage) ListPackages(ctx context.Context) ([]models.Package, error) {
	const op = "repository.ListPackages"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := builder().Select(packageColumns).From("packages").OrderBy("hotel_name").ToSql()
	if err != nil {
		return nil, mapError(op, err)
	}
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Package{}
	for rows.Next() {
		var p models.Package
		if err = rows.Scan(&p.ID, &p.HotelName, &p.Duration, &p.UnitCost, &p.ImageURL, &p.Description); err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

// ListHotelNames возвращает названия отелей по алфавиту.
func (s *Storage) ListHotelNames(ctx context.Context) ([]string, error) {
	const op = "repository.ListHotelNames"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryStrings(ctx, op, builder().Select("hotel_name").From("packages").OrderBy("hotel_name"))
}
