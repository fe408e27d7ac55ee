// internal/screens/registry.go
package screens

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/common/metrics"
	"puppy-admin/internal/common/observability"
	"puppy-admin/internal/models"
	"puppy-admin/internal/notify"
	"puppy-admin/internal/waitlist"
)

var (
	ErrScreenNotFound = errors.New("SCREEN_NOT_FOUND")
	ErrTooManyScreens = errors.New("TOO_MANY_SCREENS")
)

// ServiceFactory builds the remote data service a screen uses on behalf of
// the operator holding token.
type ServiceFactory func(token string) waitlist.Service

// Screen is one operator's open waitlist page.
type Screen struct {
	ID         string
	Owner      string
	Controller *waitlist.Controller
	OpenedAt   time.Time

	lastUsed time.Time
}

// Config bounds the registry.
type Config struct {
	IdleTTL    time.Duration
	MaxScreens int
	Waitlist   waitlist.Options
}

// Registry tracks open screens and tears down the ones left idle.
type Registry struct {
	cfg        Config
	newService ServiceFactory
	clock      clockwork.Clock
	obs        *observability.Observability
	log        logger.Logger

	mu      sync.Mutex
	screens map[string]*Screen
}

func NewRegistry(cfg Config, newService ServiceFactory, clock clockwork.Clock, obs *observability.Observability, log logger.Logger) *Registry {
	return &Registry{
		cfg:        cfg,
		newService: newService,
		clock:      clock,
		obs:        obs,
		log:        logger.Component(log, "screens"),
		screens:    make(map[string]*Screen),
	}
}

// Open creates an idle screen for the session. The caller loads it.
func (r *Registry) Open(ctx context.Context, sess *models.AdminSession) (*Screen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked(ctx)
	if r.cfg.MaxScreens > 0 && len(r.screens) >= r.cfg.MaxScreens {
		return nil, ErrTooManyScreens
	}

	id := uuid.NewString()
	now := r.clock.Now()
	sink := notify.NewLogSink(r.log, map[string]interface{}{"screenId": id})

	s := &Screen{
		ID:         id,
		Owner:      sess.Email,
		Controller: waitlist.NewController(r.newService(sess.Token), sink, r.cfg.Waitlist, r.log),
		OpenedAt:   now,
		lastUsed:   now,
	}
	r.screens[id] = s

	metrics.WaitlistScreensActive.Set(float64(len(r.screens)))
	r.obs.RecordScreenEvent(ctx, "opened")
	r.log.Info("Waitlist screen opened", map[string]interface{}{"screenId": id, "owner": sess.Email})
	return s, nil
}

// Get returns a live screen owned by owner and marks it used.
func (r *Registry) Get(ctx context.Context, id, owner string) (*Screen, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked(ctx)
	s, ok := r.screens[id]
	if !ok || s.Owner != owner {
		return nil, ErrScreenNotFound
	}
	s.lastUsed = r.clock.Now()
	return s, nil
}

// Close tears a screen down. In-flight calls it started complete as no-ops.
func (r *Registry) Close(ctx context.Context, id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.screens[id]
	if !ok || s.Owner != owner {
		return ErrScreenNotFound
	}
	r.removeLocked(ctx, s, "closed")
	return nil
}

// Sweep tears down screens idle for longer than the TTL.
func (r *Registry) Sweep(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(ctx)
}

// CloseAll tears down every screen, used on shutdown.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.screens {
		r.removeLocked(ctx, s, "closed")
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.screens)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	interval := r.cfg.IdleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := r.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.CloseAll(context.WithoutCancel(ctx))
			return nil
		case <-ticker.Chan():
			if n := r.Sweep(ctx); n > 0 {
				r.log.Debug("Expired idle screens", map[string]interface{}{"count": n})
			}
		}
	}
}

func (r *Registry) sweepLocked(ctx context.Context) int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}
	now := r.clock.Now()
	expired := 0
	for _, s := range r.screens {
		if now.Sub(s.lastUsed) >= r.cfg.IdleTTL {
			r.removeLocked(ctx, s, "expired")
			expired++
		}
	}
	return expired
}

func (r *Registry) removeLocked(ctx context.Context, s *Screen, event string) {
	s.Controller.Teardown()
	delete(r.screens, s.ID)
	metrics.WaitlistScreensActive.Set(float64(len(r.screens)))
	r.obs.RecordScreenEvent(ctx, event)
	r.log.Info("Waitlist screen "+event, map[string]interface{}{"screenId": s.ID})
}
