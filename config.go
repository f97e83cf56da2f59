package shwary

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidConfig indicates a configuration value failed validation.
var ErrInvalidConfig = errors.New("shwary: invalid configuration")

const (
	// DefaultBaseURL is the production API host.
	DefaultBaseURL = "https://api.shwary.com"

	// DefaultTimeout bounds every request when no timeout is configured.
	DefaultTimeout = 30 * time.Second

	// MinTimeout is the smallest accepted request timeout.
	MinTimeout = time.Second
)

// Environment variable names read by ConfigFromEnvironment.
const (
	EnvMerchantID  = "SHWARY_MERCHANT_ID"
	EnvMerchantKey = "SHWARY_MERCHANT_KEY"
	EnvBaseURL     = "SHWARY_BASE_URL"
	EnvTimeout     = "SHWARY_TIMEOUT"
	EnvSandbox     = "SHWARY_SANDBOX"
)

// Config holds merchant credentials and transport settings.
// A Config is read by every call of the client built from it and never mutated.
type Config struct {
	// MerchantID is sent in the x-merchant-id header (required).
	MerchantID string

	// MerchantKey is sent in the x-merchant-key header (required).
	MerchantKey string

	// BaseURL is the API host (optional, defaults to DefaultBaseURL).
	// Trailing slashes are removed.
	BaseURL string

	// Timeout bounds each request (optional, defaults to DefaultTimeout, minimum MinTimeout).
	Timeout time.Duration

	// Sandbox routes payments to the sandbox endpoint.
	Sandbox bool
}

// NewConfig returns a Config with defaults applied.
func NewConfig(merchantID, merchantKey string) Config {
	return Config{MerchantID: merchantID, MerchantKey: merchantKey}.WithDefaults()
}

// WithDefaults fills unset optional fields and normalizes the base URL.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Validate checks required fields and bounds.
// Error format: "shwary: invalid configuration: fieldName: reason"
func (c Config) Validate() error {
	if strings.TrimSpace(c.MerchantID) == "" {
		return fmt.Errorf("%w: merchantId: cannot be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.MerchantKey) == "" {
		return fmt.Errorf("%w: merchantKey: cannot be empty", ErrInvalidConfig)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: baseUrl: cannot be empty", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.BaseURL, "https://") && !strings.HasPrefix(c.BaseURL, "http://") {
		return fmt.Errorf("%w: baseUrl: must be an http or https URL", ErrInvalidConfig)
	}
	if c.Timeout < MinTimeout {
		return fmt.Errorf("%w: timeout: must be at least %dms, got %dms",
			ErrInvalidConfig, MinTimeout.Milliseconds(), c.Timeout.Milliseconds())
	}
	return nil
}

// ConfigFromEnvironment builds a validated Config from a flat variable mapping
// keyed by the Env* names.
func ConfigFromEnvironment(env map[string]string) (Config, error) {
	cfg := Config{
		MerchantID:  env[EnvMerchantID],
		MerchantKey: env[EnvMerchantKey],
		BaseURL:     env[EnvBaseURL],
		Sandbox:     isTruthy(env[EnvSandbox]),
	}

	var timeout *time.Duration
	if raw := strings.TrimSpace(env[EnvTimeout]); raw != "" {
		d, err := parseMillis(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: timeout: %v", ErrInvalidConfig, err)
		}
		timeout = &d
	}

	return finishLoaded(cfg, timeout)
}

// ConfigFromEnv is ConfigFromEnvironment over the process environment.
func ConfigFromEnv() (Config, error) {
	env := make(map[string]string)
	for _, name := range []string{EnvMerchantID, EnvMerchantKey, EnvBaseURL, EnvTimeout, EnvSandbox} {
		if v, ok := os.LookupEnv(name); ok {
			env[name] = v
		}
	}
	return ConfigFromEnvironment(env)
}

// ConfigFromMap builds a validated Config from an arbitrary object, accepting
// camelCase or snake_case keys. The timeout is in milliseconds and may be a
// number or a numeric string; sandbox may be a bool or a truthy string.
func ConfigFromMap(m map[string]any) (Config, error) {
	var cfg Config

	cfg.MerchantID, _ = lookup(m, "merchantId", "merchant_id").(string)
	cfg.MerchantKey, _ = lookup(m, "merchantKey", "merchant_key").(string)
	cfg.BaseURL, _ = lookup(m, "baseUrl", "base_url").(string)

	switch v := lookup(m, "sandbox").(type) {
	case bool:
		cfg.Sandbox = v
	case string:
		cfg.Sandbox = isTruthy(v)
	}

	var timeout time.Duration
	switch v := lookup(m, "timeout").(type) {
	case nil:
		return finishLoaded(cfg, nil)
	case float64:
		timeout = time.Duration(v) * time.Millisecond
	case int:
		timeout = time.Duration(v) * time.Millisecond
	case int64:
		timeout = time.Duration(v) * time.Millisecond
	case time.Duration:
		timeout = v
	case string:
		d, err := parseMillis(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: timeout: %v", ErrInvalidConfig, err)
		}
		timeout = d
	default:
		return Config{}, fmt.Errorf("%w: timeout: unsupported type %T", ErrInvalidConfig, v)
	}

	return finishLoaded(cfg, &timeout)
}

// finishLoaded applies defaults and validates. An explicit timeout, zero
// included, is kept as given so that it is checked against MinTimeout.
func finishLoaded(cfg Config, timeout *time.Duration) (Config, error) {
	cfg = cfg.WithDefaults()
	if timeout != nil {
		cfg.Timeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func lookup(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func parseMillis(raw string) (time.Duration, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds %q", raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// isTruthy accepts exactly "true", "1" and "yes".
func isTruthy(v string) bool {
	switch v {
	case "true", "1", "yes":
		return true
	}
	return false
}
