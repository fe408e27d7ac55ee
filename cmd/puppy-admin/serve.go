// cmd/puppy-admin/serve.go
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	awsclient "puppy-admin/internal/common/aws"
	"puppy-admin/internal/common/breaker"
	"puppy-admin/internal/common/database"
	"puppy-admin/internal/common/observability"
	"puppy-admin/internal/common/validation"
	"puppy-admin/internal/notify"
	"puppy-admin/internal/repository"
	"puppy-admin/internal/screens"
	"puppy-admin/internal/server"
	"puppy-admin/internal/session"
	"puppy-admin/internal/waitlist"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting puppy admin...", nil)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		return err
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("Failed to shut down meter provider", nil)
		}
	}()

	pg, err := connectPostgres(ctx)
	if err != nil {
		log.WithError(err).Error("postgres failed after retries", nil)
		return err
	}
	defer pg.Close()

	if migrateOnStart {
		if _, err := database.Migrate(ctx, pg.DB); err != nil {
			return err
		}
	}

	rdb, err := connectRedis(ctx)
	if err != nil {
		log.WithError(err).Error("redis failed after retries", nil)
		return err
	}
	defer rdb.Close()

	clock := clockwork.NewRealClock()
	timeout := time.Duration(cfg.Waitlist.RequestTimeout) * time.Millisecond
	pgBreaker := breaker.New("postgres", cfg.Breaker, log, waitlist.ErrNotFound, sql.ErrNoRows)

	waitlistRepo := repository.NewWaitlistRepository(pg.DB, pgBreaker, timeout, log)
	sessions := session.NewStore(rdb.Client, cfg.Session, clock, log)

	opts := waitlist.Options{PageSize: cfg.Waitlist.PageSize}
	if cfg.Notifications.Enabled() {
		mailer, err := newDecisionMailer(ctx)
		if err != nil {
			return err
		}
		defer mailer.Wait()
		opts.OnDecision = mailer.OnDecision
	}

	registry := screens.NewRegistry(screens.Config{
		IdleTTL:    time.Duration(cfg.Waitlist.ScreenTTL) * time.Second,
		MaxScreens: cfg.Waitlist.MaxScreens,
		Waitlist:   opts,
	}, func(token string) waitlist.Service {
		return session.NewGuard(sessions, token, waitlistRepo)
	}, clock, obs, log)

	validator, err := validation.NewValidator()
	if err != nil {
		return err
	}

	srv := server.NewServer(server.Deps{
		Config:       cfg.HTTP,
		Screens:      registry,
		MaxScreens:   cfg.Waitlist.MaxScreens,
		Sessions:     sessions,
		Puppies:      repository.NewPuppyRepository(pg.DB, pgBreaker, timeout, log),
		Testimonials: repository.NewTestimonialRepository(pg.DB, pgBreaker, timeout, log),
		Validator:    validator,
		Obs:          obs,
		HealthChecks: []server.HealthCheck{
			{Name: "postgres", Check: pg.Ping},
			{Name: "redis", Check: rdb.Ping},
		},
		Clock:  clock,
		Logger: log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		return registry.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutdown signal received, cleaning up...", nil)
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx),
			time.Duration(cfg.HTTP.ShutdownTimeout)*time.Millisecond)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server stopped with error", nil)
		return err
	}
	log.Info("Server stopped", nil)
	return nil
}

// newDecisionMailer wires only the channels that are switched on; a nil
// sender disables its channel.
func newDecisionMailer(ctx context.Context) (*notify.DecisionMailer, error) {
	var (
		email notify.EmailSender
		sms   notify.SMSSender
	)
	region := cfg.Notifications.AWS.Region

	if cfg.Notifications.Email.Enabled {
		c, err := awsclient.NewSESClient(ctx, region)
		if err != nil {
			return nil, err
		}
		email = c
	}
	if cfg.Notifications.SMS.Enabled {
		c, err := awsclient.NewSNSClient(ctx, region)
		if err != nil {
			return nil, err
		}
		sms = c
	}
	return notify.NewDecisionMailer(cfg.Notifications, email, sms, log), nil
}
