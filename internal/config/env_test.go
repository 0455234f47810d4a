package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("DB_DSN", MemoryDSN)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	env, err := loadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", env.AppAddr)
	assert.Equal(t, "development", env.AppEnv)
	assert.True(t, env.RequireApprovalForPayment)
	assert.Equal(t, 10*time.Second, env.ShutdownTimeout)
	assert.Empty(t, env.CORSAllowedOrigins)
}

func TestLoadFrom_Overrides(t *testing.T) {
	t.Setenv("DB_DSN", "user:pass@tcp(127.0.0.1:3306)/school")
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("REQUIRE_APPROVAL_FOR_PAYMENT", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.org, http://localhost:5173,")

	env, err := loadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, ":9090", env.AppAddr)
	assert.Equal(t, "production", env.AppEnv)
	assert.Equal(t, "release", env.GinMode)
	assert.False(t, env.RequireApprovalForPayment)
	assert.Equal(t, 3*time.Second, env.ShutdownTimeout)
	assert.Equal(t, []string{"https://admin.example.org", "http://localhost:5173"}, env.CORSAllowedOrigins)
}

func TestLoadFrom_MissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "")

	_, err := loadFrom(viper.New())
	assert.Error(t, err)
}

func TestLoadFrom_ShortSecret(t *testing.T) {
	t.Setenv("DB_DSN", MemoryDSN)
	t.Setenv("JWT_SECRET", "short")

	_, err := loadFrom(viper.New())
	assert.Error(t, err)
}

func TestLoadFrom_UnknownEnvironment(t *testing.T) {
	t.Setenv("DB_DSN", MemoryDSN)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("APP_ENV", "qa")

	_, err := loadFrom(viper.New())
	assert.Error(t, err)
}
