// cmd/puppy-admin/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"puppy-admin/internal/common/config"
	"puppy-admin/internal/common/database"
	"puppy-admin/internal/common/logger"
)

var (
	configPath string

	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
)

var rootCmd = &cobra.Command{
	Use:          "puppy-admin",
	Short:        "Admin backend for the puppy adoption site",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("config load failed: %w", err)
		}

		zapLog = logger.New(logger.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Output: cfg.Logging.Output,
		})
		log = logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zapLog != nil {
			_ = zapLog.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (default: configs/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, sessionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.WithError(err).Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func connectPostgres(ctx context.Context) (*database.PostgresClient, error) {
	var pg *database.PostgresClient
	err := retryWithBackoff(ctx, func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		if err := pg.Ping(ctx); err != nil {
			pg.Close()
			return err
		}
		return nil
	}, 15, 2*time.Second, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}
	log.Info("PostgreSQL connected successfully", nil)
	return pg, nil
}

func connectRedis(ctx context.Context) (*database.RedisClient, error) {
	rdb := database.NewRedis(cfg.Database.Redis)
	err := retryWithBackoff(ctx, func() error {
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, "Redis connection")
	if err != nil {
		rdb.Close()
		return nil, err
	}
	log.Info("Redis connected successfully", nil)
	return rdb, nil
}
