package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ModeStub, cfg.Mode)
	assert.Equal(t, "8080", cfg.APIPort)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 20.0, cfg.TurnsPerMinute)
	assert.Equal(t, 5, cfg.TurnBurst)
	assert.Equal(t, 240, cfg.TurnBudget)
	assert.Equal(t, time.Hour, cfg.BudgetWindow)
	assert.False(t, cfg.OIDCEnabled())
}

func TestLoadFromEnv_BudgetKnobs(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDESK_TURN_BUDGET", "50")
	t.Setenv("NEWSDESK_BUDGET_WINDOW", "10m")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.TurnBudget)
	assert.Equal(t, 10*time.Minute, cfg.BudgetWindow)
}

func TestLoadFromEnv_BudgetDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDESK_TURN_BUDGET", "0")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Zero(t, cfg.TurnBudget)
}

func TestLoadFromEnv_InvalidBudget(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDESK_TURN_BUDGET", "many")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEWSDESK_TURN_BUDGET")
}

func TestLoadFromEnv_ProductionValid(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDESK_MODE", "production")
	t.Setenv("NEWSDESK_CHAT_URL", "http://chat.internal")
	t.Setenv("NEWSDESK_PLATFORM_URL", "http://platform.internal")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, "http://chat.internal", cfg.ChatBackendURL)
}

func TestLoadFromEnv_ProductionMissingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDESK_MODE", "production")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEWSDESK_CHAT_URL")
}

func TestLoadFromEnv_InvalidMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDESK_MODE", "invalid")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid NEWSDESK_MODE")
}

func TestLoadFromEnv_InvalidTTL(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDESK_SESSION_TTL", "soon")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NEWSDESK_SESSION_TTL")
}

func TestLoadRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[routes]
edit_article = "/workbench/{article_id}"
goto_topics = ""
`), 0o644))

	routes, err := LoadRoutes(path)
	require.NoError(t, err)
	assert.Equal(t, "/workbench/{article_id}", routes["edit_article"])
	empty, ok := routes["goto_topics"]
	assert.True(t, ok)
	assert.Empty(t, empty)
}

func TestLoadRoutes_EmptyPath(t *testing.T) {
	routes, err := LoadRoutes("")
	require.NoError(t, err)
	assert.Nil(t, routes)
}

func TestLoadRoutes_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.toml")
	require.NoError(t, os.WriteFile(path, []byte("[routes\n"), 0o644))

	_, err := LoadRoutes(path)
	require.Error(t, err)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NEWSDESK_MODE", "NEWSDESK_CHAT_URL", "NEWSDESK_PLATFORM_URL",
		"NEWSDESK_ROUTES_FILE", "NEWSDESK_API_PORT", "NEWSDESK_CORS_ORIGINS",
		"NEWSDESK_LOG_LEVEL", "NEWSDESK_OTEL_ENABLED", "NEWSDESK_OIDC_ISSUER",
		"NEWSDESK_OIDC_AUDIENCE", "NEWSDESK_SESSION_TTL", "NEWSDESK_TURNS_PER_MINUTE",
		"NEWSDESK_TURN_BURST", "NEWSDESK_TURN_BUDGET", "NEWSDESK_BUDGET_WINDOW",
	} {
		// t.Setenv saves the current value and restores it on cleanup.
		// Setting to "" then unsetting ensures the key is absent during the test.
		orig, wasSet := os.LookupEnv(key)
		if wasSet {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}
