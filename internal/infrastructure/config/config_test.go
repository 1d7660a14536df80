package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var consoleEnv = []string{
	"CONSOLE_APP_NAME",
	"CONSOLE_APP_ENV",
	"CONSOLE_APP_PORT",
	"CONSOLE_BACKEND_BASE_URL",
	"CONSOLE_BACKEND_PAGE_SIZE",
	"CONSOLE_BACKEND_DASHBOARD_ROBOT_SAMPLE",
	"CONSOLE_SESSION_IDLE_TTL",
	"CONSOLE_SESSION_SECURE_COOKIE",
	"CONSOLE_METRICS_PATH",
	"CONSOLE_TELEMETRY_SAMPLING_RATIO",
}

// clearEnv unsets every console variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range consoleEnv {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "warehouse-console", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "3000", cfg.App.Port)
		assert.Equal(t, "http://localhost:8080", cfg.Backend.BaseURL)
		assert.Equal(t, 10, cfg.Backend.PageSize)
		assert.Equal(t, 100, cfg.Backend.DashboardRobotSample)
		assert.Equal(t, "warehouse-console", cfg.Backend.UserAgent)
		assert.Equal(t, "console_session", cfg.Session.CookieName)
		assert.Equal(t, 30*time.Minute, cfg.Session.IdleTTL)
		assert.Equal(t, "/metrics", cfg.Metrics.Path)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.True(t, cfg.IsDevelopment())
		assert.Equal(t, ":3000", cfg.App.Addr())
	})

	t.Run("loads values from environment variables with CONSOLE prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_APP_PORT", "9000")
		t.Setenv("CONSOLE_BACKEND_BASE_URL", "https://warehouse.internal:8443/")
		t.Setenv("CONSOLE_BACKEND_PAGE_SIZE", "25")
		t.Setenv("CONSOLE_BACKEND_DASHBOARD_ROBOT_SAMPLE", "500")
		t.Setenv("CONSOLE_SESSION_IDLE_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "https://warehouse.internal:8443", cfg.Backend.BaseURL, "trailing slash is trimmed")
		assert.Equal(t, 25, cfg.Backend.PageSize)
		assert.Equal(t, 500, cfg.Backend.DashboardRobotSample)
		assert.Equal(t, 2*time.Hour, cfg.Session.IdleTTL)
	})

	t.Run("rejects a relative backend URL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_BACKEND_BASE_URL", "warehouse:8080")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend.base_url")
	})

	t.Run("rejects a negative page size", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_BACKEND_PAGE_SIZE", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "backend.page_size")
	})

	t.Run("production requires secure cookies", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.secure_cookie")

		t.Setenv("CONSOLE_SESSION_SECURE_COOKIE", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.IsDevelopment())
	})

	t.Run("rejects out of range sampling ratio", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONSOLE_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}
