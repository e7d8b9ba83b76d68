package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adyen/storefront-e2e/internal/money"
)

// HarnessConfig holds everything a scenario run needs to know about its target.
// It is built once and handed to the runner; nothing else reads the environment.
type HarnessConfig struct {
	BaseURL            string        `yaml:"base_url"`
	StoreID            string        `yaml:"store_id"`
	ResultsDir         string        `yaml:"results_dir"`
	Browser            string        `yaml:"browser"`
	Headless           bool          `yaml:"headless"`
	Parallelism        int           `yaml:"parallelism"`
	ScenarioTimeout    time.Duration `yaml:"scenario_timeout"`
	NavigationTimeout  time.Duration `yaml:"navigation_timeout"`
	AssertTimeout      time.Duration `yaml:"assert_timeout"`
	NetworkTimeout     time.Duration `yaml:"network_timeout"`
	SettleDelay        time.Duration `yaml:"settle_delay"`
	MoneyEpsilon       string        `yaml:"money_epsilon"`
	Screenshots        bool          `yaml:"screenshots"`
	CreateOrderPattern string        `yaml:"create_order_pattern"`
	NotifyPattern      string        `yaml:"notify_pattern"`

	// Epsilon is MoneyEpsilon parsed by Validate
	Epsilon money.Amount `yaml:"-"`
}

// Supported browser engines
var supportedBrowsers = map[string]bool{
	"chromium": true,
	"firefox":  true,
	"webkit":   true,
}

// DefaultHarnessConfig returns the documented defaults
func DefaultHarnessConfig() HarnessConfig {
	return HarnessConfig{
		BaseURL:            "http://localhost:8080",
		StoreID:            "demo",
		ResultsDir:         "test-results",
		Browser:            "chromium",
		Headless:           true,
		Parallelism:        2,
		ScenarioTimeout:    90 * time.Second,
		NavigationTimeout:  15 * time.Second,
		AssertTimeout:      5 * time.Second,
		NetworkTimeout:     10 * time.Second,
		SettleDelay:        1500 * time.Millisecond,
		MoneyEpsilon:       "0.01",
		Screenshots:        true,
		CreateOrderPattern: "**/functions/v1/create-order",
		NotifyPattern:      "**/functions/v1/notify-order",
	}
}

// LoadHarnessConfig builds the configuration from defaults, an optional YAML file
// and environment variables, in increasing precedence. An empty path falls back to E2E_CONFIG.
func LoadHarnessConfig(path string, getenv func(string) string) (*HarnessConfig, error) {
	cfg := DefaultHarnessConfig()

	if path == "" {
		path = getenv("E2E_CONFIG")
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeFile overlays values from a YAML file, rejecting unknown keys
func (c *HarnessConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays every E2E_* variable that is set
func (c *HarnessConfig) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"E2E_BASE_URL":             &c.BaseURL,
		"E2E_STORE_ID":             &c.StoreID,
		"E2E_RESULTS_DIR":          &c.ResultsDir,
		"E2E_BROWSER":              &c.Browser,
		"E2E_MONEY_EPSILON":        &c.MoneyEpsilon,
		"E2E_CREATE_ORDER_PATTERN": &c.CreateOrderPattern,
		"E2E_NOTIFY_PATTERN":       &c.NotifyPattern,
	}
	for key, dst := range strs {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"E2E_HEADLESS":    &c.Headless,
		"E2E_SCREENSHOTS": &c.Screenshots,
	}
	for key, dst := range bools {
		if v := getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s must be a boolean: %w", key, err)
			}
			*dst = b
		}
	}

	if v := getenv("E2E_PARALLELISM"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("E2E_PARALLELISM must be an integer: %w", err)
		}
		c.Parallelism = n
	}

	durations := map[string]*time.Duration{
		"E2E_SCENARIO_TIMEOUT":   &c.ScenarioTimeout,
		"E2E_NAVIGATION_TIMEOUT": &c.NavigationTimeout,
		"E2E_ASSERT_TIMEOUT":     &c.AssertTimeout,
		"E2E_NETWORK_TIMEOUT":    &c.NetworkTimeout,
		"E2E_SETTLE_DELAY":       &c.SettleDelay,
	}
	for key, dst := range durations {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s must be a duration: %w", key, err)
			}
			*dst = d
		}
	}

	return nil
}

// Validate checks required fields and parses derived values
func (c *HarnessConfig) Validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base URL %q must be an absolute http(s) URL", c.BaseURL)
	}
	if c.StoreID == "" {
		return fmt.Errorf("store identifier is required")
	}
	if !supportedBrowsers[c.Browser] {
		return fmt.Errorf("unsupported browser %q", c.Browser)
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	for name, d := range map[string]time.Duration{
		"scenario timeout":   c.ScenarioTimeout,
		"navigation timeout": c.NavigationTimeout,
		"assert timeout":     c.AssertTimeout,
		"network timeout":    c.NetworkTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative, got %s", c.SettleDelay)
	}
	if c.CreateOrderPattern == "" || c.NotifyPattern == "" {
		return fmt.Errorf("endpoint patterns are required")
	}

	eps, err := money.Parse(c.MoneyEpsilon)
	if err != nil {
		return fmt.Errorf("money epsilon: %w", err)
	}
	if eps.Cmp(money.Amount{}) < 0 {
		return fmt.Errorf("money epsilon must not be negative, got %s", eps)
	}
	c.Epsilon = eps

	return nil
}
