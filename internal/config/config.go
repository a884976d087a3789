package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr       string        `envconfig:"ADDR" default:":5000"`
	TypingTTL  time.Duration `envconfig:"TYPING_TTL" default:"10s"`
	SendBuffer int           `envconfig:"SEND_BUFFER" default:"100"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("palaver", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.TypingTTL <= 0 {
		return fmt.Errorf("TYPING_TTL must be greater than 0")
	}
	if c.SendBuffer <= 0 {
		return fmt.Errorf("SEND_BUFFER must be greater than 0")
	}
	return nil
}
