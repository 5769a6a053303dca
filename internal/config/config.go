// Package config loads profile-analyzer settings from an optional config file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/profile-analyzer/internal/fetch"
	"github.com/jonathan/profile-analyzer/internal/llm"
)

const (
	// EnvPrefix namespaces every environment variable, e.g. PROFILE_ANALYZER_LLM_PROVIDER.
	EnvPrefix = "PROFILE_ANALYZER"
	// DefaultConfigName is looked up in the working directory when no file is given.
	DefaultConfigName = "profile-analyzer"
)

// Config is the full application configuration.
type Config struct {
	LLM     LLMConfig     `mapstructure:"llm" json:"llm"`
	Scraper ScraperConfig `mapstructure:"scraper" json:"scraper"`
	Server  ServerConfig  `mapstructure:"server" json:"server"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
}

// LLMConfig selects the model provider and its sampling settings.
type LLMConfig struct {
	Provider string `mapstructure:"provider" json:"provider" validate:"oneof=gemini vertex openai"`
	APIKey   string `mapstructure:"api-key" json:"-"`
	// Model overrides the model used for profile extraction.
	Model       string  `mapstructure:"model" json:"model,omitempty"`
	Temperature float32 `mapstructure:"temperature" json:"temperature" validate:"gte=0,lte=1"`
	Project     string  `mapstructure:"project" json:"project,omitempty"`
	Location    string  `mapstructure:"location" json:"location,omitempty"`
}

// ScraperConfig controls profile page fetching.
type ScraperConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" json:"timeout" validate:"gt=0"`
	UserAgent string        `mapstructure:"user-agent" json:"user_agent" validate:"required"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port int `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
	// JWTSecret enables bearer authentication when set.
	JWTSecret   string          `mapstructure:"jwt-secret" json:"-" validate:"omitempty,min=16"`
	TokenTTL    time.Duration   `mapstructure:"token-ttl" json:"token_ttl" validate:"gte=1h"`
	CORSOrigins []string        `mapstructure:"cors-origins" json:"cors_origins"`
	MaxUpload   int64           `mapstructure:"max-upload-bytes" json:"max_upload_bytes" validate:"gt=0"`
	RateLimit   RateLimitConfig `mapstructure:"rate-limit" json:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	Enabled   bool `mapstructure:"enabled" json:"enabled"`
	PerMinute int  `mapstructure:"per-minute" json:"per_minute" validate:"min=1"`
	Burst     int  `mapstructure:"burst" json:"burst" validate:"min=1"`
}

// LogConfig selects the log encoding and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json" json:"json"`
	Debug bool `mapstructure:"debug" json:"debug"`
}

// AuthEnabled reports whether the server requires bearer tokens.
func (c ServerConfig) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.temperature", 0.0)
	v.SetDefault("llm.location", "us-central1")

	v.SetDefault("scraper.timeout", fetch.DefaultTimeout)
	v.SetDefault("scraper.user-agent", fetch.DefaultUserAgent)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.token-ttl", 24*time.Hour)
	v.SetDefault("server.cors-origins", []string{"*"})
	v.SetDefault("server.max-upload-bytes", int64(10<<20))
	v.SetDefault("server.rate-limit.enabled", true)
	v.SetDefault("server.rate-limit.per-minute", 60)
	v.SetDefault("server.rate-limit.burst", 10)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// envFallbacks maps keys to widely used variable names checked after the
// prefixed one.
var envFallbacks = map[string][]string{
	"llm.project":       {"GOOGLE_CLOUD_PROJECT"},
	"llm.location":      {"GOOGLE_CLOUD_LOCATION"},
	"server.port":       {"PORT"},
	"server.jwt-secret": {"JWT_SECRET"},
}

// apiKeyEnv lists the provider-specific key variables, in lookup order.
var apiKeyEnv = map[string][]string{
	string(llm.ProviderGemini): {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	string(llm.ProviderVertex): {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	string(llm.ProviderOpenAI): {"OPENAI_API_KEY"},
}

// New returns a viper instance with defaults and environment bindings but no
// config file. Flags may be bound to it before calling Load.
func New() (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, names := range envFallbacks {
		prefixed := EnvPrefix + "_" + strings.NewReplacer(".", "_", "-", "_").Replace(strings.ToUpper(key))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return nil, fmt.Errorf("binding environment for %s: %w", key, err)
		}
	}
	if err := v.BindEnv("llm.api-key"); err != nil {
		return nil, fmt.Errorf("binding environment for llm.api-key: %w", err)
	}
	return v, nil
}

// Load reads path (or profile-analyzer.yaml in the working directory when path
// is empty and the file exists) into v, applies environment overrides and
// validates the result. A nil v gets a fresh instance from New.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		var err error
		if v, err = New(); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = lookupFirst(apiKeyEnv[cfg.LLM.Provider])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func lookupFirst(names []string) string {
	for _, name := range names {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}
	return ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	if c.LLM.Provider == string(llm.ProviderVertex) && c.LLM.Project == "" && c.LLM.APIKey == "" {
		return fmt.Errorf("config error: vertex requires llm.project or an API key")
	}
	return nil
}

// ModelConfig builds the llm.Config for the configured provider. A Model
// override replaces the standard tier, which profile extraction uses.
func (c *Config) ModelConfig() (*llm.Config, error) {
	mc, err := llm.ConfigFor(llm.Provider(c.LLM.Provider))
	if err != nil {
		return nil, err
	}
	if c.LLM.Model != "" {
		mc = mc.WithModel(llm.TierStandard, c.LLM.Model)
	}
	mc = mc.WithTemperature(c.LLM.Temperature)
	if c.LLM.Project != "" {
		mc.Project = c.LLM.Project
	}
	if c.LLM.Location != "" {
		mc.Location = c.LLM.Location
	}
	return mc, nil
}
