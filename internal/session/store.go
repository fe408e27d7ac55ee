// internal/session/store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"puppy-admin/internal/common/config"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/models"
)

var (
	ErrSessionNotFound = errors.New("SESSION_NOT_FOUND")
	ErrSessionExpired  = errors.New("SESSION_EXPIRED")
	ErrStoreFailure    = errors.New("SESSION_STORE_FAILURE")
)

// Store keeps admin sessions in Redis under prefix+token. Every successful
// lookup slides the expiry forward by the configured TTL.
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	clock  clockwork.Clock
	log    logger.Logger
}

func NewStore(client redis.Cmdable, cfg config.SessionConfig, clock clockwork.Clock, log logger.Logger) *Store {
	return &Store{
		client: client,
		prefix: cfg.KeyPrefix,
		ttl:    config.GetSeconds(cfg.TTL),
		clock:  clock,
		log:    logger.Component(log, "session"),
	}
}

func (s *Store) key(token string) string {
	return s.prefix + token
}

// Create opens a session for an operator and returns it with a fresh token.
func (s *Store) Create(ctx context.Context, email string) (*models.AdminSession, error) {
	now := s.clock.Now().UTC()
	sess := &models.AdminSession{
		Token:        uuid.NewString(),
		Email:        email,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
		LastActivity: now,
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info("Admin session created", map[string]interface{}{"email": email})
	return sess, nil
}

// Get resolves a token and extends the session.
func (s *Store) Get(ctx context.Context, token string) (*models.AdminSession, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	var sess models.AdminSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: corrupt session: %w", ErrStoreFailure, err)
	}

	now := s.clock.Now().UTC()
	if sess.IsExpired(now) {
		_ = s.client.Del(ctx, s.key(token)).Err()
		return nil, ErrSessionExpired
	}

	sess.LastActivity = now
	sess.ExpiresAt = now.Add(s.ttl)
	if err := s.save(ctx, &sess); err != nil {
		s.log.WithError(err).Warn("Failed to extend admin session", nil)
	}
	return &sess, nil
}

// Delete ends a session. Deleting an unknown token is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, sess *models.AdminSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sess.Token), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return nil
}
