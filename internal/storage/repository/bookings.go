package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/staycation/internal/models"
)

// BookingFilter сужает выборку бронирований. Пустой фильтр означает все бронирования.
type BookingFilter struct {
	CustomerEmail string
	HotelName     string
}

// CreateBooking сохраняет бронирование и возвращает его ID.
func (s *Storage) CreateBooking(ctx context.Context, b models.Booking) (int64, error) {
	const op = "repository.CreateBooking"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO bookings (check_in_date, customer_id, package_id, total_cost)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query,
		b.CheckInDate, b.CustomerID, b.PackageID, b.TotalCost).Scan(&id); err != nil {
		return 0, mapError(op, err)
	}
	return id, nil
}

// ListBookings возвращает бронирования вместе с клиентом и пакетом.
//
// Если клиент или пакет удалены, соответствующее поле бронирования остаётся nil.
func (s *Storage) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	const op = "repository.ListBookings"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	q := builder().Select(
		"b.id", "b.check_in_date", "b.customer_id", "b.package_id", "b.total_cost", "b.created_at",
		"c.email", "c.name", "c.role", "c.created_at",
		"p.hotel_name", "p.duration", "p.unit_cost", "p.image_url", "p.description",
	).
		From("bookings b").
		LeftJoin("customers c ON c.id = b.customer_id").
		LeftJoin("packages p ON p.id = b.package_id").
		OrderBy("b.check_in_date", "b.id")
	if filter.CustomerEmail != "" {
		q = q.Where(sq.Eq{"c.email": filter.CustomerEmail})
	}
	if filter.HotelName != "" {
		q = q.Where(sq.Eq{"p.hotel_name": filter.HotelName})
	}

	query, args, err := q.ToSql()
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

	result := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, b)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}

func scanBooking(rows *sql.Rows) (models.Booking, error) {
	var (
		b          models.Booking
		customerID sql.NullInt64
		packageID  sql.NullInt64

		email, name, role, hotel, image, description sql.NullString
		customerCreated                              sql.NullTime
		duration                                     sql.NullInt32
		unitCost                                     sql.NullFloat64
	)
	if err := rows.Scan(
		&b.ID, &b.CheckInDate, &customerID, &packageID, &b.TotalCost, &b.CreatedAt,
		&email, &name, &role, &customerCreated,
		&hotel, &duration, &unitCost, &image, &description,
	); err != nil {
		return b, err
	}

	if customerID.Valid {
		id := customerID.Int64
		b.CustomerID = &id
		b.Customer = &models.Customer{
			ID:        id,
			Email:     email.String,
			Name:      name.String,
			Role:      role.String,
			CreatedAt: customerCreated.Time,
		}
	}
	if packageID.Valid {
		id := packageID.Int64
		b.PackageID = &id
		b.Package = &models.Package{
			ID:          id,
			HotelName:   hotel.String,
			Duration:    int(duration.Int32),
			UnitCost:    unitCost.Float64,
			ImageURL:    image.String,
			Description: description.String,
		}
	}
	return b, nil
}
