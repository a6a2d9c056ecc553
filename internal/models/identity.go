package models

import (
	"errors"
	"time"
)

// ErrInvalidToken возвращается для повреждённого, истёкшего или отозванного токена.
var ErrInvalidToken = errors.New("invalid token")

// Identity - аутентифицированный клиент текущего запроса, извлечённый из токена.
type Identity struct {
	Email     string
	Name      string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin сообщает, что клиент - администратор.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
