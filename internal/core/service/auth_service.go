package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login, password changes, and the
// session boundary. Every successful actor change re-runs the scoped loader,
// so the entity store always reflects exactly the authenticated actor.
type AuthService struct {
	repo      ports.OwnerRepository
	sessions  ports.SessionStore
	loader    *Loader
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewAuthService wires the credential boundary. sessions may be nil; the
// flow then degrades to stateless tokens without restore.
func NewAuthService(repo ports.OwnerRepository, sessions ports.SessionStore, loader *Loader, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		loader:    loader,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password, email, role string) (*domain.Owner, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if role != domain.RoleAdministrator && role != domain.RoleOwner {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	owner := &domain.Owner{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, owner)
}

// Login verifies credentials, issues a token, mirrors the session, and loads
// the entity store for the actor.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Owner, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrAuthentication
	}

	owner, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrAuthentication
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrAuthentication
	}

	token, err := s.generateToken(owner)
	if err != nil {
		return "", nil, err
	}

	if s.sessions != nil {
		sess := ports.Session{
			ID:      token,
			OwnerID: owner.ID,
			Role:    owner.Role,
			Expires: s.now().Add(s.tokenTTL),
		}
		if err := s.sessions.Put(ctx, sess, s.tokenTTL); err != nil {
			s.log.Warn().Err(err).Str("owner_id", owner.ID).Msg("session mirror failed")
		}
	}

	if err := s.loader.Load(ctx, owner); err != nil {
		s.log.Error().Err(err).Str("owner_id", owner.ID).Msg("store load after login failed")
	}

	return token, owner, nil
}

// ChangePassword is a guarded state transition on the owner record. It never
// touches the entity store's record collections.
func (s *AuthService) ChangePassword(ctx context.Context, ownerID, current, next string) error {
	owner, err := s.repo.FindByID(ctx, ownerID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(current)) != nil {
		return domain.ErrAuthentication
	}
	if len(next) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if next == current {
		return fmt.Errorf("%w: new password must differ from the current one", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, ownerID, string(hash), s.now().UTC())
}

// Logout drops the mirrored session and clears the store.
func (s *AuthService) Logout(ctx context.Context, ownerID string) error {
	if s.sessions != nil {
		if err := s.sessions.Delete(ctx, ownerID); err != nil {
			s.log.Warn().Err(err).Str("owner_id", ownerID).Msg("session delete failed")
		}
	}
	return s.loader.Load(ctx, nil)
}

// Restore revalidates a mirrored session and reloads the store for its
// actor.
func (s *AuthService) Restore(ctx context.Context, ownerID string) (*domain.Owner, error) {
	if s.sessions == nil {
		return nil, domain.ErrNotFound
	}
	sess, err := s.sessions.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if s.now().After(sess.Expires) {
		return nil, domain.ErrAuthentication
	}

	owner, err := s.repo.FindByID(ctx, sess.OwnerID)
	if err != nil {
		return nil, err
	}
	if err := s.loader.Load(ctx, owner); err != nil {
		s.log.Error().Err(err).Str("owner_id", owner.ID).Msg("store load after restore failed")
	}
	return owner, nil
}

func (s *AuthService) generateToken(owner *domain.Owner) (string, error) {
	claims := jwt.MapClaims{
		"sub":      owner.ID,
		"username": owner.Username,
		"role":     owner.Role,
		"exp":      s.now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
