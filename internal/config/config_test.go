package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SBERPAY_DATABASE__HOST", "localhost")
	t.Setenv("SBERPAY_DATABASE__PORT", "5432")
	t.Setenv("SBERPAY_DATABASE__USER", "sberpay")
	t.Setenv("SBERPAY_DATABASE__PASSWORD", "p@ss:word")
	t.Setenv("SBERPAY_DATABASE__NAME", "sberpay")
	t.Setenv("SBERPAY_SBERBANK__USERNAME", "merchant-api")
	t.Setenv("SBERPAY_SBERBANK__PASSWORD", "merchant-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.True(t, cfg.Sberbank.UseTest)
	assert.Equal(t, 30*time.Second, cfg.Sberbank.ConnTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 50, cfg.Worker.BatchSize)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SBERPAY_SBERBANK__USE_TEST", "false")
	t.Setenv("SBERPAY_WORKER__INTERVAL", "5s")
	t.Setenv("SBERPAY_KAFKA__BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("SBERPAY_LOGGER__FORMAT", "json")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.False(t, cfg.Sberbank.UseTest)
	assert.Equal(t, 5*time.Second, cfg.Worker.Interval)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadConfig_MissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SBERPAY_SBERBANK__USERNAME", "")

	_, err := LoadConfig()

	require.Error(t, err)
}

func TestDatabaseConfig_PgxConfigEscapesCredentials(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:            "db",
		Port:            5432,
		User:            "sberpay",
		Password:        "p@ss:word",
		Name:            "orders",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
	}

	pgxCfg, err := cfg.PgxConfig(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "p@ss:word", pgxCfg.ConnConfig.Password)
	assert.Equal(t, "orders", pgxCfg.ConnConfig.Database)
	assert.Equal(t, int32(10), pgxCfg.MaxConns)
}

func TestLoggerConfig_Level(t *testing.T) {
	assert.Equal(t, "DEBUG", LoggerConfig{Level: "debug"}.slogLevel().String())
	assert.Equal(t, "INFO", LoggerConfig{Level: "verbose"}.slogLevel().String())
	assert.NotNil(t, LoggerConfig{Format: "json"}.NewLogger())
}
