package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const minimalConfig = `
database:
  postgres:
    host: localhost
    database: puppies
    user: admin
    password: ${TEST_PG_PASSWORD}
  redis:
    address: localhost:6379
`

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 300, cfg.Database.Postgres.MaxLifetime)
	assert.Equal(t, 10, cfg.Database.Redis.PoolSize)
	assert.Equal(t, 3000, cfg.Database.Redis.ReadTimeout)
	assert.Equal(t, 10, cfg.Waitlist.PageSize)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "admin:session:", cfg.Session.KeyPrefix)
	assert.Equal(t, uint(5), cfg.Breaker.FailureThreshold)
	assert.Equal(t, uint(1), cfg.Breaker.SuccessThreshold)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t,
		"host=localhost port=5432 user=admin password=s3cret dbname=puppies sslmode=disable",
		cfg.Database.Postgres.GetDSN())
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing postgres host",
			body:    "database:\n  postgres:\n    database: p\n    user: u\n  redis:\n    address: x\n",
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "missing redis",
			body:    "database:\n  postgres:\n    host: h\n    database: p\n    user: u\n",
			wantErr: "database.redis.address is required",
		},
		{
			name: "email without sender",
			body: minimalConfig + `
notifications:
  email:
    enabled: true
  aws:
    region: eu-west-1
`,
			wantErr: "notifications.email.from_email is required",
		},
		{
			name: "notifications without region",
			body: minimalConfig + `
notifications:
  sms:
    enabled: true
`,
			wantErr: "notifications.aws.region is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AWS_REGION", "")
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestOverrideEmptyConfig(t *testing.T) {
	t.Setenv("DB_USER", "env-user")
	t.Setenv("AWS_REGION", "us-east-1")

	cfg := &Config{}
	overrideEmptyConfig(cfg)

	assert.Equal(t, "env-user", cfg.Database.Postgres.User)
	assert.Equal(t, "us-east-1", cfg.Notifications.AWS.Region)
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
	assert.Equal(t, 2*time.Minute, GetSeconds(120))
}
