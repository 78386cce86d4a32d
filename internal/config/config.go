package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address        string `mapstructure:"address" validate:"required"`
	ReadTimeoutMS  int    `mapstructure:"read_timeout_ms" validate:"gte=0"`
	WriteTimeoutMS int    `mapstructure:"write_timeout_ms" validate:"gte=0"`
}

// LLMConfig selects and configures the generative model backend.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" validate:"oneof=gemini openai"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	TimeoutMS   int     `mapstructure:"timeout_ms" validate:"gt=0"`
}

type SessionConfig struct {
	Backend    string `mapstructure:"backend" validate:"oneof=memory redis"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"gt=0"`
	CookieName string `mapstructure:"cookie_name" validate:"required"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig enables the inquiry log when URL is set.
type PostgresConfig struct {
	URL           string `mapstructure:"url"`
	NotifyChannel string `mapstructure:"notify_channel" validate:"required"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format"`
}

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Timeout returns the per-call deadline for the model request.
func (c LLMConfig) Timeout() time.Duration {
	return GetDuration(c.TimeoutMS)
}

// TTL returns how long an idle session state is kept.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// InquiryLogEnabled reports whether a Postgres URL was configured.
func (c DatabaseConfig) InquiryLogEnabled() bool {
	return c.Postgres.URL != ""
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

var structValidator = validator.New()

func validate(cfg *Config) error {
	if err := structValidator.Struct(cfg); err != nil {
		return err
	}
	if cfg.Session.Backend == SessionRedis && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required for the redis session backend")
	}
	return nil
}
