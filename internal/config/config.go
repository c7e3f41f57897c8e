// Package config loads runtime settings from defaults, an optional config file and the environment.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every setting the server reads at startup.
type Config struct {
	AppPort         string        `mapstructure:"APP_PORT" validate:"required"`
	DatabaseDriver  string        `mapstructure:"DATABASE_DRIVER" validate:"required,oneof=memory sqlite postgres"`
	DatabaseDSN     string        `mapstructure:"DATABASE_DSN" validate:"required_unless=DatabaseDriver memory"`
	RabbitMQURL     string        `mapstructure:"RABBITMQ_URL" validate:"omitempty,url"`
	LogLevel        string        `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"LOG_FORMAT" validate:"required,oneof=console json"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gte=0"`
	DefaultPageSize int           `mapstructure:"DEFAULT_PAGE_SIZE" validate:"gte=1,lte=1000"`
	SeedData        bool          `mapstructure:"SEED_DATA"`
}

var keys = []string{
	"APP_PORT", "DATABASE_DRIVER", "DATABASE_DSN", "RABBITMQ_URL", "LOG_LEVEL",
	"LOG_FORMAT", "REQUEST_TIMEOUT", "DEFAULT_PAGE_SIZE", "SEED_DATA",
}

// Load reads the configuration. CONFIG_FILE, when set, names a file (yaml, json, env, ...)
// whose values sit between the defaults and the environment.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}
	return FromViper(v)
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "memory")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("DEFAULT_PAGE_SIZE", 25)
	v.SetDefault("SEED_DATA", true)
}

// FromViper decodes and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	// Unmarshal only sees env values for keys viper already knows about.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
