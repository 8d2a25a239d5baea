// Package config provides YAML-based configuration loading with environment
// variable expansion.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Supported LLM providers.
const (
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
	ProviderMock     = "mock"
)

// Config is the full application configuration.
type Config struct {
	App         AppConfig         `yaml:"app"`
	LLM         LLMConfig         `yaml:"llm"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

// AppConfig holds server and logging settings.
type AppConfig struct {
	Addr     string     `yaml:"addr"`
	LogLevel slog.Level `yaml:"log_level"`
}

// LLMConfig holds the generation backend settings. APIKey is an optional
// bootstrap value; the credential store takes precedence once the user has
// saved a key.
type LLMConfig struct {
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	RetryAttempts int    `yaml:"retry_attempts"`
	RetryDelayMS  int    `yaml:"retry_delay_ms"`
}

// RetryDelay returns the configured base delay between attempts.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// CredentialsConfig holds the credential store location.
type CredentialsConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.App,
		validation.Field(&c.App.Addr, validation.Required),
	); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := validation.ValidateStruct(&c.LLM,
		validation.Field(&c.LLM.Provider, validation.Required,
			validation.In(ProviderOpenAI, ProviderDeepSeek, ProviderMock)),
		validation.Field(&c.LLM.RetryAttempts, validation.Min(0), validation.Max(10)),
		validation.Field(&c.LLM.RetryDelayMS, validation.Min(0)),
	); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c.LLM.Provider != ProviderMock && c.LLM.Model == "" {
		return fmt.Errorf("llm: model is required for provider %q", c.LLM.Provider)
	}
	if c.LLM.Provider == ProviderDeepSeek && c.LLM.BaseURL == "" {
		return fmt.Errorf("llm: provider %q requires base_url", ProviderDeepSeek)
	}
	return validation.ValidateStruct(&c.Credentials,
		validation.Field(&c.Credentials.Path, validation.Required),
	)
}

// Default returns a configuration with sensible defaults: mock provider, so
// the app runs without any external backend until configured otherwise.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Addr:     ":8080",
			LogLevel: slog.LevelInfo,
		},
		LLM: LLMConfig{
			Provider:      ProviderMock,
			RetryAttempts: 3,
			RetryDelayMS:  500,
		},
		Credentials: CredentialsConfig{
			Path: "./credentials.json",
		},
	}
}

// Load reads a YAML config file with environment variable expansion into cfg
// and validates the result. A missing file leaves cfg untouched (defaults
// apply); any other failure is an error.
func Load(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg.Validate()
		}
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
