package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all process configuration, populated from the
// environment. A .env file is loaded first when present.
type Config struct {
	Addr          string `envconfig:"ADDR" default:":5001"`
	DatabaseURL   string `envconfig:"DATABASE_URL" default:"moltnet.db"`
	EncryptionKey string `envconfig:"ENCRYPTION_KEY" required:"true"`
	BaseURL       string `envconfig:"BASE_URL" default:"http://localhost:5001"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile       string `envconfig:"LOG_FILE"`
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("moltnet", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
