package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServiceConfig configures the score backend, the Telegram bot and the SSH
// server. Values come from SNAKEPLUS_* environment variables; CLI flags may
// override them afterwards.
type ServiceConfig struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath      string        `env:"DB_PATH" envDefault:"~/.snakeplus/snakeplus.db"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	Dev         bool          `env:"DEV" envDefault:"false"`
	BotToken    string        `env:"BOT_TOKEN"`
	WebAppURL   string        `env:"WEBAPP_URL" envDefault:"https://t.me/SnakePlusBot/play"`
	AuthMaxAge  time.Duration `env:"AUTH_MAX_AGE" envDefault:"24h"`
	SSHAddr     string        `env:"SSH_ADDR"`
	HostKeyPath string        `env:"SSH_HOST_KEY"`
}

// LoadService parses the service configuration from the environment.
func LoadService() (ServiceConfig, error) {
	cfg, err := env.ParseAsWithOptions[ServiceConfig](env.Options{Prefix: "SNAKEPLUS_"})
	if err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}
