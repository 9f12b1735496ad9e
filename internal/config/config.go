// Package config loads process configuration from the environment, with
// an optional YAML settings file for deployment defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings for the server process.
type Config struct {
	Server struct {
		Port            int           `env:"SERVER_PORT,default=8080"`
		ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT,default=15s"`
		WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT,default=15s"`
		ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=30s"`
	}

	Database struct {
		// URL selects the durable backend when set; when empty the
		// process runs on the in-memory store.
		URL string `env:"DATABASE_URL"`
	}

	Auth struct {
		Secret   string        `env:"JWT_SECRET,default=dev-secret-change-me"`
		TokenTTL time.Duration `env:"JWT_TOKEN_TTL,default=24h"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,default=info"`
	}

	CORS struct {
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*"`
	}

	RateLimit struct {
		RequestsPerSecond int `env:"RATE_LIMIT_RPS,default=50"`
		Burst             int `env:"RATE_LIMIT_BURST,default=100"`
	}

	Admin struct {
		// Seed credentials for the bootstrap administrator. Ignored
		// when empty or when any user already exists.
		Email    string `env:"ADMIN_EMAIL"`
		Password string `env:"ADMIN_PASSWORD"`
	}

	Reconciler struct {
		Schedule string `env:"RECONCILER_SCHEDULE,default=@every 5m"`
	}
}

// Load reads .env (when present) and decodes the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}

// Settings is the optional YAML overlay shipped with a deployment. Only
// non-zero values override the environment-derived config.
type Settings struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
}

// ApplySettingsFile merges settings from path into cfg. A missing file is
// not an error.
func ApplySettingsFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse settings file: %w", err)
	}

	if s.Server.Port != 0 {
		cfg.Server.Port = s.Server.Port
	}
	if s.Log.Level != "" {
		cfg.Log.Level = s.Log.Level
	}
	if len(s.CORS.AllowedOrigins) > 0 {
		cfg.CORS.AllowedOrigins = s.CORS.AllowedOrigins
	}
	return nil
}
