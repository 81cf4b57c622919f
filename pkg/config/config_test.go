package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("KASHIER_MODE", "")

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "test", cfg.KashierMode)
	assert.Equal(t, "https://checkout.kashier.io", cfg.KashierBaseURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("KASHIER_MODE", "live")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "live", cfg.KashierMode)
}

func TestSecretForMode(t *testing.T) {
	cfg := Config{KashierTestSecret: "t-secret", KashierLiveSecret: "l-secret"}
	assert.Equal(t, "l-secret", cfg.SecretForMode("live"))
	assert.Equal(t, "t-secret", cfg.SecretForMode("test"))
	assert.Equal(t, "t-secret", cfg.SecretForMode(""))
}
