package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
)

// SessionStore mirrors issued tokens so sessions can be restored and revoked.
// Key format: session:<owner_id>
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Put(ctx context.Context, sess ports.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, s.key(sess.OwnerID), payload, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, ownerID string) (*ports.Session, error) {
	raw, err := s.client.Get(ctx, s.key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess ports.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, ownerID string) error {
	return s.client.Del(ctx, s.key(ownerID)).Err()
}

func (s *SessionStore) key(ownerID string) string {
	return fmt.Sprintf("session:%s", ownerID)
}
