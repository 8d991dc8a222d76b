package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/streamfinder/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("STREAMING_API_KEY", "")
		t.Setenv("DATABASE_URL", "")

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.Equal(t, "development", cfg.Env)
		assert.Equal(t, "5005", cfg.Port)
		assert.Equal(t, "us", cfg.Streaming.Country)
		assert.Equal(t, 10*time.Second, cfg.Streaming.Timeout)
		assert.Equal(t, "https://streaming-availability.p.rapidapi.com", cfg.Streaming.BaseURL)
		assert.Empty(t, cfg.Streaming.APIKey)
		assert.False(t, cfg.SearchLogEnabled())
	})

	t.Run("reads environment variables", func(t *testing.T) {
		envVars := map[string]string{
			"APP_ENV":                "production",
			"PORT":                   "8080",
			"APP_SECRET":             "s3cret",
			"STREAMING_API_KEY":      "  key-123 ",
			"STREAMING_API_BASE_URL": "http://127.0.0.1:9999/",
			"HTTP_TIMEOUT":           "3s",
			"DATABASE_URL":           "postgres://u:p@localhost/db",
			"LOG_MAX_SIZE":           "10",
		}
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		cfg, err := config.Load()

		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "key-123", cfg.Streaming.APIKey)
		assert.Equal(t, "http://127.0.0.1:9999", cfg.Streaming.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.Streaming.Timeout)
		assert.True(t, cfg.SearchLogEnabled())
		assert.Equal(t, 10, cfg.Log.MaxSize)
	})

	t.Run("rejects malformed timeout", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT", "soon")

		cfg, err := config.Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "load config error")
	})
}
