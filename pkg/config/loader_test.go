package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T) Options {
	t.Helper()

	return Options{ConfigDir: t.TempDir()}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEATHER_API_KEY", "key")

	cfg, _, err := LoadWithOptions(testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.AppEnv)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "longpoll", cfg.Bot.Mode)
	assert.Equal(t, 10*time.Second, cfg.Bot.Timeout)
	assert.Equal(t, "key", cfg.Weather.APIKey)
	assert.Equal(t, defaultWeatherURL, cfg.Weather.BaseURL)
	assert.Equal(t, "ru", cfg.Weather.Lang)
	assert.Equal(t, 10*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, 0, cfg.Weather.MaxRetries)
	assert.Equal(t, "ru", cfg.I18n.Language)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30, cfg.RateLimit.PerChat.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.PerChat.Window)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_AlternativeSecretNames(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("TELEGRAM_BOT_TOKEN", "456:def")
	t.Setenv("OPENWEATHERMAP_API_KEY", "owm")

	cfg, _, err := LoadWithOptions(testOptions(t))
	require.NoError(t, err)

	assert.Equal(t, "456:def", cfg.Bot.Token)
	assert.Equal(t, "owm", cfg.Weather.APIKey)
}

func TestLoad_MissingSecretsFail(t *testing.T) {
	testCases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{name: "missing bot token", env: map[string]string{"WEATHER_API_KEY": "key"}, field: "Token"},
		{name: "missing weather key", env: map[string]string{"BOT_TOKEN": "123:abc"}, field: "APIKey"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "test")
			t.Setenv("BOT_TOKEN", "")
			t.Setenv("TELEGRAM_BOT_TOKEN", "")
			t.Setenv("WEATHER_API_KEY", "")
			t.Setenv("OPENWEATHERMAP_API_KEY", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, _, err := LoadWithOptions(testOptions(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
log:
  level: debug
weather:
  lang: en
  timeout: 3s
rate_limit:
  per_chat:
    limit: 5
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), content, 0o600))

	t.Setenv("APP_ENV", "test")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEATHER_API_KEY", "key")
	t.Setenv("WEATHER_LANG", "de")

	cfg, v, err := LoadWithOptions(Options{ConfigDir: dir})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "de", cfg.Weather.Lang)
	assert.Equal(t, 3*time.Second, cfg.Weather.Timeout)
	assert.Equal(t, 5, cfg.RateLimit.PerChat.Limit)
	assert.Equal(t, filepath.Join(dir, "test.yaml"), v.ConfigFileUsed())
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("WEATHER_API_KEY", "key")
	t.Setenv("BOT_MODE", "carrier-pigeon")

	_, _, err := LoadWithOptions(testOptions(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mode")
}
