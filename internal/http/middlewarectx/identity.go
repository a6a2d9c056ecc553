// Package middlewarectx содержит HTTP middleware портала и доступ к данным запроса в контексте.
package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/staycation/internal/models"
)

// Key тип ключей контекста HTTP-запроса.
type Key string

// IdentityKey ключ аутентифицированного клиента в контексте.
const IdentityKey Key = "identity"

// WithIdentity возвращает контекст с клиентом id.
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// IdentityFrom достаёт клиента из контекста запроса.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(models.Identity)
	if !ok || id.Email == "" {
		return models.Identity{}, false
	}
	return id, true
}
