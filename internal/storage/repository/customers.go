package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/staycation/internal/models"
)

const customerColumns = "id, email, name, password_hash, role, created_at"

// CreateCustomer сохраняет клиента и возвращает его ID.
// Клиент с уже существующим email даёт ErrAlreadyExists.
func (s *Storage) CreateCustomer(ctx context.Context, c models.Customer) (int64, error) {
	const op = "repository.CreateCustomer"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}
	if c.Role == "" {
		c.Role = models.RoleUser
	}

	query := `INSERT INTO customers (email, name, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var id int64
	if err := s.DB.QueryRowContext(ctx, query, c.Email, c.Name, c.PasswordHash, c.Role).Scan(&id); err != nil {
		return 0, mapError(op, err)
	}
	return id, nil
}

// GetCustomerByEmail возвращает клиента по email.
func (s *Storage) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	const op = "repository.GetCustomerByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query, args, err := builder().Select(customerColumns).
		From("customers").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, mapError(op, err)
	}

	var c models.Customer
	if err = s.DB.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.Role, &c.CreatedAt); err != nil {
		return nil, mapError(op, err)
	}
	return &c, nil
}

// ListCustomerNames возвращает имена клиентов по алфавиту, кроме перечисленных в exclude.
func (s *Storage) ListCustomerNames(ctx context.Context, exclude ...string) ([]string, error) {
	const op = "repository.ListCustomerNames"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	q := builder().Select("DISTINCT name").From("customers").OrderBy("name")
	if len(exclude) > 0 {
		q = q.Where(sq.NotEq{"name": exclude})
	}
	return s.queryStrings(ctx, op, q)
}

func (s *Storage) queryStrings(ctx context.Context, op string, q sq.SelectBuilder) ([]string, error) {
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

	result := []string{}
	for rows.Next() {
		var v string
		if err = rows.Scan(&v); err != nil {
			return nil, mapError(op, err)
		}
		result = append(result, v)
	}
	if err = rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return result, nil
}
