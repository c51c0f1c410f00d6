package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"municipalink/config"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = secret
	t.Cleanup(func() { config.AppConfig.JWTSecret = prev })
}

func TestJWTRoundTrip(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	token, err := GenerateJWT(42, "agent@commune.tn", "Agent", "employee", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "agent@commune.tn", claims.Email)
	assert.Equal(t, "Agent", claims.Name)
	assert.Equal(t, "employee", claims.Role)
}

func TestJWTTamperedSignatureRejected(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	token, err := GenerateJWT(1, "a@b.tn", "A", "admin", time.Now().Add(time.Hour))
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ValidateJWT(tampered)
	assert.Error(t, err)
}

func TestJWTOtherSecretRejected(t *testing.T) {
	withSecret(t, "first-secret-first-secret-first-secret")
	token, err := GenerateJWT(1, "a@b.tn", "A", "admin", time.Now().Add(time.Hour))
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "second-secret-second-secret-second"
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTExpiredRejected(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	token, err := GenerateJWT(1, "a@b.tn", "A", "admin", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestJWTMalformed(t *testing.T) {
	withSecret(t, "0123456789abcdef0123456789abcdef")

	for _, tok := range []string{"", "abc", "a.b", DemoToken} {
		_, err := ValidateJWT(tok)
		assert.Error(t, err, tok)
	}
}
