// internal/session/guard.go
package session

import (
	"context"
	"errors"
	"fmt"

	"puppy-admin/internal/models"
	"puppy-admin/internal/waitlist"
)

// Guard re-checks the operator's session before every remote call a waitlist
// screen makes, so a screen outliving its session fails as unauthenticated.
type Guard struct {
	store *Store
	token string
	next  waitlist.Service
}

var _ waitlist.Service = (*Guard)(nil)

func NewGuard(store *Store, token string, next waitlist.Service) *Guard {
	return &Guard{store: store, token: token, next: next}
}

func (g *Guard) ListApplications(ctx context.Context) ([]models.WaitlistApplication, error) {
	if err := g.check(ctx); err != nil {
		return nil, err
	}
	return g.next.ListApplications(ctx)
}

func (g *Guard) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	if err := g.check(ctx); err != nil {
		return err
	}
	return g.next.UpdateStatus(ctx, id, status)
}

func (g *Guard) check(ctx context.Context) error {
	_, err := g.store.Get(ctx, g.token)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return fmt.Errorf("%w: %w", waitlist.ErrUnauthenticated, err)
	default:
		return fmt.Errorf("%w: %w", waitlist.ErrTransport, err)
	}
}
