// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	ServerPort     string        `koanf:"port"`
	DBConn         string        `koanf:"database_url"`
	FrontendOrigin string        `koanf:"frontend_origin"`
	JWTSecret      string        `koanf:"jwt_secret"`
	JWTExpiresIn   time.Duration `koanf:"jwt_expires_in"`
	LogLevel       string        `koanf:"log_level"`
}

func defaults() Config {
	return Config{
		ServerPort:     "8080",
		FrontendOrigin: "https://crediwise-one.vercel.app",
		JWTExpiresIn:   24 * time.Hour,
		LogLevel:       "info",
	}
}

// Load reads defaults, then .env, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	k := koanf.New(".")
	d := defaults()
	if err := k.Load(structs.Provider(&d, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing required value at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBConn) == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if strings.TrimSpace(c.ServerPort) == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.ServerPort, ":")
}

// SlogLevel maps LOG_LEVEL onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MustLoad loads the configuration or exits the process.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	return cfg
}
