package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"puppy-admin/internal/common/config"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/models"
	"puppy-admin/internal/waitlist"
)

var testSessionConfig = config.SessionConfig{KeyPrefix: "admin:session:", TTL: 3600}

func newMiniStore(t *testing.T) (*Store, *miniredis.Miniredis, *clockwork.FakeClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	return NewStore(client, testSessionConfig, clock, logger.NewNoOpLogger()), mr, clock
}

func TestStore_CreateAndGet(t *testing.T) {
	store, mr, clock := newMiniStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "admin@puppies.example")
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	assert.True(t, mr.Exists("admin:session:"+created.Token))
	assert.Equal(t, time.Hour, mr.TTL("admin:session:"+created.Token))

	clock.Advance(30 * time.Minute)
	got, err := store.Get(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@puppies.example", got.Email)
	assert.Equal(t, clock.Now().UTC(), got.LastActivity)
	assert.Equal(t, clock.Now().UTC().Add(time.Hour), got.ExpiresAt, "lookups slide the expiry")
}

func TestStore_Expiry(t *testing.T) {
	store, mr, clock := newMiniStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "admin@puppies.example")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	_, err = store.Get(ctx, created.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, mr.Exists("admin:session:"+created.Token), "expired sessions are removed")

	other, err := store.Create(ctx, "other@puppies.example")
	require.NoError(t, err)
	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, other.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_Delete(t *testing.T) {
	store, _, _ := newMiniStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "admin@puppies.example")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, created.Token))
	require.NoError(t, store.Delete(ctx, created.Token))

	_, err = store.Get(ctx, created.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_RedisFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, testSessionConfig, clockwork.NewFakeClock(), logger.NewNoOpLogger())

	mock.ExpectGet("admin:session:tok").SetErr(errors.New("connection refused"))
	_, err := store.Get(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrStoreFailure)

	mock.ExpectGet("admin:session:bad").SetVal("{not json")
	_, err = store.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrStoreFailure)

	mock.ExpectDel("admin:session:tok").SetErr(errors.New("connection refused"))
	assert.ErrorIs(t, store.Delete(context.Background(), "tok"), ErrStoreFailure)

	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubService struct {
	listed  int
	updated int
}

func (s *stubService) ListApplications(context.Context) ([]models.WaitlistApplication, error) {
	s.listed++
	return nil, nil
}

func (s *stubService) UpdateStatus(context.Context, string, models.ApplicationStatus) error {
	s.updated++
	return nil
}

func TestGuard(t *testing.T) {
	store, _, clock := newMiniStore(t)
	ctx := context.Background()
	created, err := store.Create(ctx, "admin@puppies.example")
	require.NoError(t, err)

	inner := &stubService{}
	guard := NewGuard(store, created.Token, inner)

	_, err = guard.ListApplications(ctx)
	require.NoError(t, err)
	require.NoError(t, guard.UpdateStatus(ctx, "1", models.StatusApproved))
	assert.Equal(t, 1, inner.listed)
	assert.Equal(t, 1, inner.updated)

	clock.Advance(3 * time.Hour)
	_, err = guard.ListApplications(ctx)
	assert.ErrorIs(t, err, waitlist.ErrUnauthenticated)
	assert.Equal(t, 1, inner.listed, "the store is not consulted without a session")

	missing := NewGuard(store, "nope", inner)
	assert.ErrorIs(t, missing.UpdateStatus(ctx, "1", models.StatusApproved), waitlist.ErrUnauthenticated)
}

func TestGuard_StoreDownIsTransport(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, testSessionConfig, clockwork.NewFakeClock(), logger.NewNoOpLogger())
	mock.ExpectGet("admin:session:tok").SetErr(errors.New("connection refused"))

	_, err := NewGuard(store, "tok", &stubService{}).ListApplications(context.Background())
	assert.ErrorIs(t, err, waitlist.ErrTransport)
}
