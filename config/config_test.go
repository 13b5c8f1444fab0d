package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "repairright", cfg.DatabaseName)
	assert.Equal(t, "firebase", cfg.AuthMode)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 100, cfg.MaxRequestsPerMin)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "local", cfg.AuthMode)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, Config{}.Origins())
	assert.Equal(t,
		[]string{"https://a.example.com", "https://b.example.com"},
		Config{AllowedOrigins: "https://a.example.com, https://b.example.com,"}.Origins())
}
