package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adyen/storefront-e2e/internal/money"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestLoadHarnessConfig_Defaults(t *testing.T) {
	cfg, err := LoadHarnessConfig("", envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "demo", cfg.StoreID)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.Equal(t, 90*time.Second, cfg.ScenarioTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.SettleDelay)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 0, cfg.Epsilon.Cmp(money.Cent))
}

func TestLoadHarnessConfig_Env(t *testing.T) {
	cfg, err := LoadHarnessConfig("", envMap(map[string]string{
		"E2E_BASE_URL":         "https://shop.example.com/",
		"E2E_STORE_ID":         "acme",
		"E2E_HEADLESS":         "false",
		"E2E_PARALLELISM":      "6",
		"E2E_ASSERT_TIMEOUT":   "250ms",
		"E2E_MONEY_EPSILON":    "0.02",
		"E2E_NOTIFY_PATTERN":   "**/notify",
		"E2E_SCREENSHOTS":      "0",
		"E2E_SCENARIO_TIMEOUT": "30s",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "acme", cfg.StoreID)
	assert.False(t, cfg.Headless)
	assert.False(t, cfg.Screenshots)
	assert.Equal(t, 6, cfg.Parallelism)
	assert.Equal(t, 250*time.Millisecond, cfg.AssertTimeout)
	assert.Equal(t, 30*time.Second, cfg.ScenarioTimeout)
	assert.Equal(t, "**/notify", cfg.NotifyPattern)
	assert.Equal(t, 0, cfg.Epsilon.Cmp(money.FromCents(2)))
}

func TestLoadHarnessConfig_FileThenEnv(t *testing.T) {
	cfg, err := LoadHarnessConfig("testdata/harness.yaml", envMap(map[string]string{
		"E2E_PARALLELISM": "8",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	assert.Equal(t, "acme", cfg.StoreID)
	assert.Equal(t, 8, cfg.Parallelism, "environment overrides the file")
	assert.Equal(t, 2*time.Minute, cfg.ScenarioTimeout)
	assert.False(t, cfg.Screenshots)
	assert.Equal(t, 0, cfg.Epsilon.Cmp(money.FromCents(5)))
}

func TestLoadHarnessConfig_FileFromEnv(t *testing.T) {
	cfg, err := LoadHarnessConfig("", envMap(map[string]string{
		"E2E_CONFIG": "testdata/harness.yaml",
	}))
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.StoreID)
}

func TestLoadHarnessConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		env  map[string]string
		want string
	}{
		{name: "relative base URL", env: map[string]string{"E2E_BASE_URL": "localhost:8080"}, want: "absolute http(s) URL"},
		{name: "bad parallelism", env: map[string]string{"E2E_PARALLELISM": "many"}, want: "E2E_PARALLELISM"},
		{name: "zero parallelism", env: map[string]string{"E2E_PARALLELISM": "0"}, want: "parallelism must be at least 1"},
		{name: "bad duration", env: map[string]string{"E2E_NAVIGATION_TIMEOUT": "soon"}, want: "E2E_NAVIGATION_TIMEOUT"},
		{name: "bad bool", env: map[string]string{"E2E_HEADLESS": "maybe"}, want: "E2E_HEADLESS"},
		{name: "unsupported browser", env: map[string]string{"E2E_BROWSER": "netscape"}, want: "unsupported browser"},
		{name: "bad epsilon", env: map[string]string{"E2E_MONEY_EPSILON": "a cent"}, want: "money epsilon"},
		{name: "missing file", path: "testdata/missing.yaml", want: "failed to read config file"},
		{name: "unknown key", path: "testdata/unknown_key.yaml", want: "paralelism"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadHarnessConfig(tt.path, envMap(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
