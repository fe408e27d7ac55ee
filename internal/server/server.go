// internal/server/server.go
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"puppy-admin/internal/common/config"
	apperrors "puppy-admin/internal/common/errors"
	"puppy-admin/internal/common/logger"
	"puppy-admin/internal/common/observability"
	"puppy-admin/internal/common/validation"
	"puppy-admin/internal/models"
	"puppy-admin/internal/screens"
)

// SessionStore resolves bearer tokens to admin sessions.
type SessionStore interface {
	Get(ctx context.Context, token string) (*models.AdminSession, error)
	Delete(ctx context.Context, token string) error
}

type PuppyStore interface {
	List(ctx context.Context) ([]models.Puppy, error)
	Create(ctx context.Context, in models.NewPuppy) (*models.Puppy, error)
}

type TestimonialStore interface {
	List(ctx context.Context) ([]models.Testimonial, error)
	Create(ctx context.Context, in models.NewTestimonial) (*models.Testimonial, error)
}

// Deps collects everything the HTTP surface talks to.
type Deps struct {
	Config       config.HTTPConfig
	Screens      *screens.Registry
	MaxScreens   int
	Sessions     SessionStore
	Puppies      PuppyStore
	Testimonials TestimonialStore
	Validator    *validation.Validator
	Obs          *observability.Observability
	HealthChecks []HealthCheck
	Clock        clockwork.Clock
	Logger       logger.Logger
}

type Server struct {
	echo *echo.Echo
	cfg  config.HTTPConfig

	screens      *screens.Registry
	maxScreens   int
	sessions     SessionStore
	puppies      PuppyStore
	testimonials TestimonialStore
	validator    *validation.Validator
	obs          *observability.Observability
	healthChecks []HealthCheck

	clock     clockwork.Clock
	startTime time.Time
	log       logger.Logger
}

func NewServer(deps Deps) *Server {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	log := logger.Component(deps.Logger, "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperrors.NewErrorHandler(log).Handle

	s := &Server{
		echo:         e,
		cfg:          deps.Config,
		screens:      deps.Screens,
		maxScreens:   deps.MaxScreens,
		sessions:     deps.Sessions,
		puppies:      deps.Puppies,
		testimonials: deps.Testimonials,
		validator:    deps.Validator,
		obs:          deps.Obs,
		healthChecks: deps.HealthChecks,
		clock:        deps.Clock,
		startTime:    deps.Clock.Now(),
		log:          log,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Millisecond,
	}
	s.log.Info("Starting server", map[string]interface{}{"address": s.cfg.Address})
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
