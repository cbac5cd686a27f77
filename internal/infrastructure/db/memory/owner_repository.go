// Package memory holds the in-process owner repository used when no remote
// backend is configured. It starts from the seed dataset so demo logins work
// out of the box.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/seed"
)

type OwnerRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Owner
}

// NewOwnerRepository builds a repository preloaded with the seeded owners.
func NewOwnerRepository() *OwnerRepository {
	r := &OwnerRepository{byID: make(map[string]domain.Owner)}
	for _, o := range seed.Generate().Owners {
		r.byID[o.ID] = o
	}
	return r
}

func (r *OwnerRepository) Create(_ context.Context, owner *domain.Owner) (*domain.Owner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.byID {
		if existing.Username == owner.Username {
			return nil, domain.ErrOwnerExists
		}
	}
	if owner.ID == "" {
		owner.ID = uuid.NewString()
	}
	r.byID[owner.ID] = *owner
	return owner, nil
}

func (r *OwnerRepository) FindByUsername(_ context.Context, username string) (*domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.byID {
		if o.Username == username {
			clone := o
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *OwnerRepository) FindByID(_ context.Context, id string) (*domain.Owner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := o
	return &clone, nil
}

func (r *OwnerRepository) UpdatePassword(_ context.Context, id, passwordHash string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.PasswordHash = passwordHash
	o.UpdatedAt = updatedAt
	r.byID[id] = o
	return nil
}
