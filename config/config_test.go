package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")
	InitConfig()

	assert.Equal(t, "postgres", AppConfig.DBDriver)
	assert.Equal(t, "5000", AppConfig.Port)
	assert.Equal(t, "http://localhost:8080", AppConfig.CORSOrigin)
	assert.Equal(t, devJWTSecret, AppConfig.JWTSecret)
	assert.False(t, AppConfig.DemoLoginEnabled)
	assert.Equal(t, 24*time.Hour, GetJWTExpiration())
	require.NoError(t, Validate())
}

func TestInitConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_PATH", "/tmp/x.db")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("DEMO_LOGIN_ENABLED", "true")
	t.Setenv("ENVIRONMENT", "test")
	InitConfig()

	assert.Equal(t, "sqlite", AppConfig.DBDriver)
	assert.Equal(t, "/tmp/x.db", AppConfig.DBPath)
	assert.Equal(t, 2*time.Hour, GetJWTExpiration())
	assert.True(t, DemoLoginAllowed())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	InitConfig()
	assert.Error(t, Validate())
}

func TestProductionRequiresStrongSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")
	InitConfig()
	assert.Error(t, Validate())

	t.Setenv("JWT_SECRET", "short")
	InitConfig()
	assert.Error(t, Validate())

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	InitConfig()
	require.NoError(t, Validate())
}

func TestProductionNeverAllowsDemoLogin(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("DEMO_LOGIN_ENABLED", "true")
	InitConfig()

	assert.False(t, DemoLoginAllowed())
	assert.Error(t, Validate())
}
