// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	HTTP          HTTPConfig         `mapstructure:"http"`
	Database      DatabaseConfig     `mapstructure:"database"`
	Session       SessionConfig      `mapstructure:"session"`
	Waitlist      WaitlistConfig     `mapstructure:"waitlist"`
	Breaker       BreakerConfig      `mapstructure:"breaker"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Notifications NotificationConfig `mapstructure:"notifications"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	MaxLifetime    int    `mapstructure:"max_lifetime"`  // seconds
	MaxIdleTime    int    `mapstructure:"max_idle_time"` // seconds
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address      string `mapstructure:"address"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  int    `mapstructure:"dial_timeout"`  // milliseconds
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

// SessionConfig controls admin session lookups in Redis.
type SessionConfig struct {
	KeyPrefix string `mapstructure:"key_prefix"`
	TTL       int    `mapstructure:"ttl"` // seconds, sliding
}

// WaitlistConfig holds settings for the waitlist table screens.
type WaitlistConfig struct {
	PageSize       int `mapstructure:"page_size"`
	ScreenTTL      int `mapstructure:"screen_ttl"`      // seconds of inactivity before teardown
	MaxScreens     int `mapstructure:"max_screens"`     // per process
	RequestTimeout int `mapstructure:"request_timeout"` // milliseconds per remote call
}

// BreakerConfig configures the circuit breaker in front of Postgres.
type BreakerConfig struct {
	SuccessThreshold uint `mapstructure:"success_threshold"` // successes in half-open to close
	Interval         int  `mapstructure:"interval"`          // milliseconds, failure counting window
	Timeout          int  `mapstructure:"timeout"`           // milliseconds open before half-open
	FailureThreshold uint `mapstructure:"failure_threshold"` // failures within interval to trip
}

// NotificationConfig holds settings for applicant decision notices.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		SenderID string `mapstructure:"sender_id"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// Enabled reports whether any outbound channel is switched on.
func (n NotificationConfig) Enabled() bool {
	return n.Email.Enabled || n.SMS.Enabled
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
