package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskbridge.backend/internal/domain/entities"
)

// RefreshTokenRepository defines refresh token persistence. Delete is the
// rotation primitive: it must be atomic so that two concurrent consumers of
// the same token see exactly one successful delete.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entities.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*entities.RefreshToken, error)
	// Delete removes the row by token value. Returns ErrNotFound when no row
	// was deleted, which a rotating caller must treat as token reuse.
	Delete(ctx context.Context, token string) error
	DeleteForUser(ctx context.Context, userID uuid.UUID, token string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
