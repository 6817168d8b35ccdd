package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, ScopeUser, cfg.Scope)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 120*time.Millisecond, cfg.StreamInterval)
	assert.Equal(t, 10*time.Second, cfg.UploadTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.EnableDevRoutes)
}

func TestFromViperEnvOverrides(t *testing.T) {
	t.Setenv("MOCKCHAT_PORT", "9090")
	t.Setenv("MOCKCHAT_SCOPE", "GLOBAL")
	t.Setenv("MOCKCHAT_STORE_BACKEND", "Bolt")
	t.Setenv("MOCKCHAT_STREAM_INTERVAL", "5ms")
	t.Setenv("MOCKCHAT_DEV_ROUTES", "true")
	t.Setenv("MOCKCHAT_CORS_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("MOCKCHAT_API_BASE", "http://localhost:9090/")

	cfg := FromViper(viper.New())

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ScopeGlobal, cfg.Scope)
	assert.Equal(t, "bolt", cfg.StoreBackend)
	assert.Equal(t, 5*time.Millisecond, cfg.StreamInterval)
	assert.True(t, cfg.EnableDevRoutes)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, "http://localhost:9090", cfg.APIBase)
}

func TestUnknownScopeFallsBackToUser(t *testing.T) {
	t.Setenv("MOCKCHAT_SCOPE", "tenant")
	assert.Equal(t, ScopeUser, FromViper(viper.New()).Scope)
}
