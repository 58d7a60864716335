package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tenis-ops/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 45, cfg.Transfers.ClientReservationMinutes)
	assert.Equal(t, 24, cfg.Redis.IdempotencyTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("TRANSFER_CLIENT_RESERVATION_MINUTES", "30")
	t.Setenv("DB_AUTO_MIGRATE", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 30, cfg.Transfers.ClientReservationMinutes)
	assert.True(t, cfg.DB.AutoMigrate)
}

func TestLoad_DriverInvalido(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ProduccionSinSecretoJWT(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_PoolDeConexiones(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.DB.MaxConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.False(t, cfg.DB.ForceIPv4)

	t.Setenv("DB_MAX_CONNS", "40")
	t.Setenv("DB_MAX_CONN_IDLE_MINUTES", "2")
	t.Setenv("DB_FORCE_IPV4", "true")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.DB.MaxConns)
	assert.Equal(t, 2*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.True(t, cfg.DB.ForceIPv4)
}
