package database

import (
	"testing"
	"time"

	"puppy-admin/internal/common/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_UsesConfiguredPool(t *testing.T) {
	rc := NewRedis(config.RedisConfig{
		Address:      "localhost:6379",
		DB:           2,
		PoolSize:     4,
		MinIdleConns: 1,
		DialTimeout:  750,
		ReadTimeout:  200,
		WriteTimeout: 300,
	})
	defer rc.Close()

	opts := rc.Client.Options()
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 4, opts.PoolSize)
	assert.Equal(t, 1, opts.MinIdleConns)
	assert.Equal(t, 750*time.Millisecond, opts.DialTimeout)
	assert.Equal(t, 200*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 300*time.Millisecond, opts.WriteTimeout)
}

func TestNewPostgres_UsesConfiguredPool(t *testing.T) {
	pc, err := NewPostgres(config.PostgresConfig{
		Host:           "localhost",
		Port:           5432,
		Database:       "puppies",
		User:           "admin",
		SSLMode:        "disable",
		MaxConnections: 7,
		MaxIdle:        3,
		MaxLifetime:    60,
		MaxIdleTime:    30,
	})
	require.NoError(t, err)
	defer pc.Close()

	assert.Equal(t, 7, pc.DB.Stats().MaxOpenConnections)
}
