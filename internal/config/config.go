package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGatewayBaseURL = "https://api.portkey.ai/v1"
	DefaultProvider       = "openai"
	DefaultModel          = "gpt-3.5-turbo"
	DefaultRetryCount     = 2
	DefaultCacheMode      = "semantic"
	DefaultGatewayTimeout = 60 * time.Second
)

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	OpenAIKey  string
	PortkeyKey string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port       string
	ConfigFile string

	Gateway GatewayConfig
}

// GatewayConfig holds the behavioural hints forwarded to the LLM gateway.
// Retries and caching happen upstream; these values only travel as headers.
type GatewayConfig struct {
	BaseURL    string        `yaml:"base_url"`
	Provider   string        `yaml:"provider"`
	Model      string        `yaml:"model"`
	RetryCount int           `yaml:"retry_count"`
	CacheMode  string        `yaml:"cache_mode"`
	Timeout    time.Duration `yaml:"timeout"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		PortkeyKey:               os.Getenv("PORTKEYAI_API_KEY"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
		ConfigFile:               os.Getenv("CONFIG_FILE"),
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = "config.yaml"
	}

	cfg.SetGatewayDefaults()

	// Load from YAML file if available
	if err := cfg.LoadFromYAML(cfg.ConfigFile); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "hogwarts-kitchen"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Gateway struct {
			BaseURL    string        `yaml:"base_url"`
			Provider   string        `yaml:"provider"`
			Model      string        `yaml:"model"`
			RetryCount *int          `yaml:"retry_count"`
			CacheMode  *string       `yaml:"cache_mode"`
			Timeout    time.Duration `yaml:"timeout"`
		} `yaml:"gateway"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	gw := yamlConfig.Gateway
	if gw.BaseURL != "" {
		c.Gateway.BaseURL = gw.BaseURL
	}
	if gw.Provider != "" {
		c.Gateway.Provider = gw.Provider
	}
	if gw.Model != "" {
		c.Gateway.Model = gw.Model
	}
	// retry_count: 0 and cache_mode: "" are meaningful, they turn the hint off
	if gw.RetryCount != nil {
		c.Gateway.RetryCount = *gw.RetryCount
	}
	if gw.CacheMode != nil {
		c.Gateway.CacheMode = *gw.CacheMode
	}
	if gw.Timeout > 0 {
		c.Gateway.Timeout = gw.Timeout
	}

	return nil
}

func (c *Config) SetGatewayDefaults() {
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = DefaultGatewayBaseURL
	}
	if c.Gateway.Provider == "" {
		c.Gateway.Provider = DefaultProvider
	}
	if c.Gateway.Model == "" {
		c.Gateway.Model = DefaultModel
	}
	if c.Gateway.RetryCount == 0 {
		c.Gateway.RetryCount = DefaultRetryCount
	}
	if c.Gateway.CacheMode == "" {
		c.Gateway.CacheMode = DefaultCacheMode
	}
	if c.Gateway.Timeout == 0 {
		c.Gateway.Timeout = DefaultGatewayTimeout
	}
}

// OtelHeaders parses OTEL_EXPORTER_OTLP_HEADERS ("k1=v1,k2=v2").
func (c *Config) OtelHeaders() map[string]string {
	if c.OtelExporterOTLPHeaders == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(c.OtelExporterOTLPHeaders, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers
}

func (c *Config) validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.PortkeyKey == "" {
		return fmt.Errorf("PORTKEYAI_API_KEY is required")
	}
	if c.Gateway.RetryCount < 0 {
		return fmt.Errorf("gateway.retry_count must not be negative, got %d", c.Gateway.RetryCount)
	}
	switch c.Gateway.CacheMode {
	case "", "simple", "semantic":
	default:
		return fmt.Errorf("gateway.cache_mode must be one of simple, semantic or empty, got %q", c.Gateway.CacheMode)
	}
	return nil
}
