// Package config provides application configuration loaded from
// environment variables, plus the optional routes TOML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mode determines whether the gateway talks to a real chat backend or the
// built-in scripted stub.
type Mode string

const (
	ModeStub       Mode = "stub"
	ModeProduction Mode = "production"
)

// Config holds all application configuration.
type Config struct {
	Mode           Mode
	ChatBackendURL string
	PlatformURL    string
	RoutesFile     string

	// API server settings.
	APIPort     string
	CORSOrigins []string
	LogLevel    string
	OTelEnabled bool

	OIDCIssuer   string
	OIDCAudience string

	SessionTTL     time.Duration
	TurnsPerMinute float64
	TurnBurst      int

	// Per-role budget window. A TurnBudget of 0 disables budgeting.
	TurnBudget   int
	BudgetWindow time.Duration
}

// OIDCEnabled reports whether bearer-token auth should be enforced.
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCAudience != ""
}

// LoadFromEnv reads configuration from environment variables with sensible defaults.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Mode:           Mode(envOr("NEWSDESK_MODE", "stub")),
		ChatBackendURL: os.Getenv("NEWSDESK_CHAT_URL"),
		PlatformURL:    os.Getenv("NEWSDESK_PLATFORM_URL"),
		RoutesFile:     os.Getenv("NEWSDESK_ROUTES_FILE"),
		APIPort:        envOr("NEWSDESK_API_PORT", "8080"),
		CORSOrigins:    parseCORSOrigins(os.Getenv("NEWSDESK_CORS_ORIGINS")),
		LogLevel:       envOr("NEWSDESK_LOG_LEVEL", "info"),
		OTelEnabled:    os.Getenv("NEWSDESK_OTEL_ENABLED") == "true",
		OIDCIssuer:     os.Getenv("NEWSDESK_OIDC_ISSUER"),
		OIDCAudience:   os.Getenv("NEWSDESK_OIDC_AUDIENCE"),
	}

	if cfg.Mode != ModeStub && cfg.Mode != ModeProduction {
		return Config{}, fmt.Errorf("config: invalid NEWSDESK_MODE %q (must be stub or production)", cfg.Mode)
	}

	if cfg.Mode == ModeProduction {
		if cfg.ChatBackendURL == "" {
			return Config{}, fmt.Errorf("config: NEWSDESK_CHAT_URL required in production mode")
		}
		if cfg.PlatformURL == "" {
			return Config{}, fmt.Errorf("config: NEWSDESK_PLATFORM_URL required in production mode")
		}
	}

	var err error
	cfg.SessionTTL, err = parseDuration("NEWSDESK_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return Config{}, err
	}
	cfg.TurnsPerMinute, err = parseFloat("NEWSDESK_TURNS_PER_MINUTE", 20)
	if err != nil {
		return Config{}, err
	}
	cfg.TurnBurst, err = parseInt("NEWSDESK_TURN_BURST", 5)
	if err != nil {
		return Config{}, err
	}
	cfg.TurnBudget, err = parseInt("NEWSDESK_TURN_BUDGET", 240)
	if err != nil {
		return Config{}, err
	}
	cfg.BudgetWindow, err = parseDuration("NEWSDESK_BUDGET_WINDOW", time.Hour)
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseCORSOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return f, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}
