package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("WIZARD_REQUIRE_PERSONAL_INFO", "")
	t.Setenv("ENFORCE_STATUS_GRAPH", "not-a-bool")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "abc")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.WizardRequirePersonalInfo, "unparseable value falls back to default")
	assert.True(t, cfg.EnforceStatusGraph)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("WIZARD_REQUIRE_PERSONAL_INFO", "false")
	t.Setenv("ENFORCE_STATUS_GRAPH", "0")
	t.Setenv("FRONTEND_URL", "https://jobs.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.WizardRequirePersonalInfo)
	assert.False(t, cfg.EnforceStatusGraph)
	assert.Equal(t, "https://jobs.example.com", cfg.FrontendURL)
}
