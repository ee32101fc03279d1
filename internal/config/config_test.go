package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "koeri-list", cfg.Sources[0].Variant.Name)
	assert.Equal(t, "http://www.koeri.boun.edu.tr/scripts/lst6.asp", cfg.Sources[0].URL)
	assert.Equal(t, 30*time.Second, cfg.FetchInterval)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, "quake-events", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("SOURCES", "koeri-list=http://mirror/lst6.asp, afad-api=https://afad/events")
	t.Setenv("POSTGRES_DSN", "postgres://quake:quake@db:5432/quakes")
	t.Setenv("FETCH_INTERVAL", "1m")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "quakes")

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "koeri-list", cfg.Sources[0].Variant.Name)
	assert.Equal(t, "https://afad/events", cfg.Sources[1].URL)
	assert.Equal(t, "postgres://quake:quake@db:5432/quakes", cfg.PostgresDSN)
	assert.Equal(t, time.Minute, cfg.FetchInterval)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "quakes", cfg.KafkaTopic)
}

func TestLoad_UnknownVariant(t *testing.T) {
	t.Setenv("SOURCES", "lst6-v2=http://mirror/lst6.asp")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lst6-v2")
}

func TestLoad_MalformedSourcePair(t *testing.T) {
	t.Setenv("SOURCES", "koeri-list")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variant=url")
}

func TestLoad_InvalidFetchInterval(t *testing.T) {
	t.Setenv("FETCH_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_INTERVAL")
}

func TestLoad_NegativeFetchInterval(t *testing.T) {
	t.Setenv("FETCH_INTERVAL", "-5s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FETCH_INTERVAL")
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}
