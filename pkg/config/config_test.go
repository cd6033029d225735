package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicops/leakwatch/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sheets", cfg.Source.Backend)
	assert.Equal(t, 300, cfg.Source.SnapshotTTLSeconds)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SOURCE_BACKEND", "postgres")
	t.Setenv("SNAPSHOT_TTL_SECONDS", "60")
	t.Setenv("SHEETS_OFFER_URL", "https://example.com/offers.csv")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Source.Backend)
	assert.Equal(t, 60, cfg.Source.SnapshotTTLSeconds)
	assert.Equal(t, "https://example.com/offers.csv", cfg.Sheets.OfferURL)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "leak",
		Password: "secret",
		Database: "leakwatch",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=leak password=secret dbname=leakwatch sslmode=require",
		cfg.DatabaseDSN(),
	)
}

func TestRedisAddr(t *testing.T) {
	cfg := config.RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
