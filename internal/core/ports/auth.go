package ports

import (
	"context"
	"time"

	"github.com/pawhaven/canine-care/internal/core/domain"
)

// OwnerRepository defines persistence for authenticated actors.
type OwnerRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Owner, error)
	FindByID(ctx context.Context, id string) (*domain.Owner, error)
	Create(ctx context.Context, owner *domain.Owner) (*domain.Owner, error)
	// UpdatePassword persists a new password hash and refreshes UpdatedAt.
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
}

// Session is the server-side mirror of an issued token, used for restore and
// logout.
type Session struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner_id"`
	Role    string    `json:"role"`
	Expires time.Time `json:"expires"`
}

// SessionStore persists sessions for the authenticated period. A nil-backed
// implementation may silently drop sessions; login still succeeds.
type SessionStore interface {
	Put(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthService is the credential boundary consumed by the transport layer.
type AuthService interface {
	Register(ctx context.Context, username, password, email, role string) (*domain.Owner, error)
	Login(ctx context.Context, username, password string) (string, *domain.Owner, error)
	ChangePassword(ctx context.Context, ownerID, current, next string) error
	Logout(ctx context.Context, ownerID string) error
	Restore(ctx context.Context, ownerID string) (*domain.Owner, error)
}
