package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.BackendURL)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("BACKEND_URL", "https://hospital-api.example.com")
	t.Setenv("BACKEND_TIMEOUT", "30")
	t.Setenv("CSRF_SECURE", "1")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "https://hospital-api.example.com", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.BackendTimeout)
	assert.True(t, cfg.CSRFSecure)
}

func TestLoadTimeoutDurationString(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "2m")

	cfg := Load()

	assert.Equal(t, 2*time.Minute, cfg.BackendTimeout)
}

func TestLoadTimeoutGarbageFallsBack(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
}
