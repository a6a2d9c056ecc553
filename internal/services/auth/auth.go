// Package auth регистрирует клиентов, выдаёт и отзывает их токены.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/staycation/internal/lib/jwt"
	"github.com/magabrotheeeer/staycation/internal/lib/password"
	"github.com/magabrotheeeer/staycation/internal/models"
	"github.com/magabrotheeeer/staycation/internal/storage/repository"
)

var (
	// ErrUserExists возвращается при регистрации на уже занятый email.
	ErrUserExists = errors.New("user already exists")
	// ErrNoSuchUser возвращается при входе с неизвестным email.
	ErrNoSuchUser = errors.New("no such user")
	// ErrIncorrectPassword возвращается при входе с неверным паролем.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrInvalidToken возвращается для повреждённого, истёкшего или отозванного токена.
	ErrInvalidToken = models.ErrInvalidToken
)

// CustomerRepository хранилище клиентов.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, c models.Customer) (int64, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
}

// Denylist хранит идентификаторы отозванных токенов.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Session результат успешной регистрации или входа.
type Session struct {
	Token    string
	Customer models.Customer
}

// Service сервис аутентификации.
type Service struct {
	customers CustomerRepository
	denylist  Denylist
	jwtMaker  jwt.Maker
}

// New создает Service. denylist может быть nil, тогда выход из системы не отзывает токен.
func New(customers CustomerRepository, denylist Denylist, jwtMaker jwt.Maker) *Service {
	return &Service{
		customers: customers,
		denylist:  denylist,
		jwtMaker:  jwtMaker,
	}
}

// Register создает клиента с ролью user и сразу выдаёт ему токен.
func (s *Service) Register(ctx context.Context, email, name, rawPassword string) (*Session, error) {
	const op = "auth.Register"
	email = normalizeEmail(email)

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	customer := models.Customer{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	id, err := s.customers.CreateCustomer(ctx, customer)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	customer.ID = id

	return s.issue(op, customer)
}

// Login проверяет пароль клиента и выдаёт токен.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*Session, error) {
	const op = "auth.Login"

	customer, err := s.customers.GetCustomerByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoSuchUser)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = password.CompareHash(customer.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, fmt.Errorf("%s: %w", op, ErrIncorrectPassword)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issue(op, *customer)
}

// Logout отзывает токен до конца срока его действия.
func (s *Service) Logout(ctx context.Context, identity models.Identity) error {
	const op = "auth.Logout"
	if s.denylist == nil || identity.TokenID == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет токен и возвращает личность клиента.
func (s *Service) ValidateToken(ctx context.Context, token string) (models.Identity, error) {
	const op = "auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return models.Identity{}, fmt.Errorf("%s: check denylist: %w", op, err)
		}
		if revoked {
			return models.Identity{}, fmt.Errorf("%s: %w: revoked", op, ErrInvalidToken)
		}
	}

	identity := models.Identity{
		Email:   claims.Email,
		Name:    claims.Name,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

func (s *Service) issue(op string, customer models.Customer) (*Session, error) {
	token, err := s.jwtMaker.GenerateToken(customer.Email, customer.Name, customer.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{Token: token, Customer: customer}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
