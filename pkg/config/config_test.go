package config_test

import (
	"testing"
	"time"

	"github.com/farmstead/farmstead-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("farmstead-test")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 15*time.Minute, cfg.Alerts.ScanInterval)
	assert.Equal(t, 30, cfg.Alerts.ExpiryWindowDays)
	assert.Equal(t, "static", cfg.Weather.Provider)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FARMSTEAD_SERVER_PORT", "9090")
	t.Setenv("FARMSTEAD_DATABASE_HOST", "db.internal")
	t.Setenv("FARMSTEAD_WEATHER_PROVIDER", "open-meteo")

	cfg, err := config.Load("farmstead-test")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "open-meteo", cfg.Weather.Provider)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "farmstead",
		Password: "secret",
		Database: "farmstead",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Equal(t, "host=db.internal port=5432 user=farmstead password=secret dbname=farmstead sslmode=require", dsn)
}

func TestDatabaseConfig_Validate(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "localhost"}

	assert.NoError(t, cfg.Validate(config.EnvDevelopment))
	assert.Error(t, cfg.Validate(config.EnvProduction))
	assert.Error(t, cfg.Validate(config.EnvStaging))

	cfg.Host = "db.internal"
	assert.NoError(t, cfg.Validate(config.EnvProduction))
}

func TestLoadWithValidation_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("FARMSTEAD_SERVER_ENVIRONMENT", "production")
	t.Setenv("FARMSTEAD_DATABASE_HOST", "db.internal")

	// Default JWT secret must be rejected in production
	_, err := config.LoadWithValidation("farmstead-test")
	require.Error(t, err)

	t.Setenv("FARMSTEAD_JWT_SECRET", "a-real-secret")
	t.Setenv("FARMSTEAD_RABBITMQ_URL", "amqp://farmstead:pw@mq.internal:5672/")

	cfg, err := config.LoadWithValidation("farmstead-test")
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Server.Environment)
}
