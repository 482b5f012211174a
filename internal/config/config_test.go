package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigRequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := NewConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY")
}

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30, cfg.TokenTTLMinutes)
	assert.Equal(t, "0 8 * * *", cfg.DigestCron)
	assert.Empty(t, cfg.SMTPHost)
}

func TestNewConfigRejectsBadTTL(t *testing.T) {
	t.Setenv("SECRET_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "zero")

	_, err := NewConfig()
	assert.Error(t, err)
}
