package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, "@daily", cfg.SessionPurgeSpec)
	assert.Equal(t, "static/avatars", cfg.AvatarDir)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")
	assert.Equal(t, 24*time.Hour, Load().SessionTTL)
}
