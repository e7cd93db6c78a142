package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-insight/config"
)

func signRaw(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestNewJWTManager(t *testing.T) {
	_, err := NewJWTManager(config.AuthConfig{JWTIssuer: "x"})
	assert.Error(t, err)

	m, err := NewJWTManager(config.AuthConfig{JWTSecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, defaultIssuer, m.issuer)
	assert.Equal(t, defaultTTL, m.ttl)
}

func TestSignParseRoundTrip(t *testing.T) {
	m, err := NewJWTManager(config.AuthConfig{JWTSecret: "test-secret", JWTIssuer: "test-issuer"})
	require.NoError(t, err)

	token, err := m.Sign("user-001", "premium")
	require.NoError(t, err)

	sub, tier, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", sub)
	assert.Equal(t, "premium", tier)
}

func TestParseRejections(t *testing.T) {
	m := newManager([]byte("service-secret"), "issuer", time.Hour)
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{
			name:  "foreign signature",
			token: signRaw(t, jwt.SigningMethodHS256, []byte("other-secret"), jwt.MapClaims{"sub": "u", "iss": "issuer", "exp": future}),
			want:  jwt.ErrTokenSignatureInvalid,
		},
		{
			name:  "foreign issuer",
			token: signRaw(t, jwt.SigningMethodHS256, m.secret, jwt.MapClaims{"sub": "u", "iss": "someone-else", "exp": future}),
			want:  jwt.ErrTokenInvalidIssuer,
		},
		{
			name:  "expired",
			token: signRaw(t, jwt.SigningMethodHS256, m.secret, jwt.MapClaims{"sub": "u", "iss": "issuer", "exp": time.Now().Add(-time.Minute).Unix()}),
			want:  jwt.ErrTokenExpired,
		},
		{
			name:  "no expiry",
			token: signRaw(t, jwt.SigningMethodHS256, m.secret, jwt.MapClaims{"sub": "u", "iss": "issuer"}),
			want:  jwt.ErrTokenRequiredClaimMissing,
		},
		{
			name:  "other hmac size",
			token: signRaw(t, jwt.SigningMethodHS512, m.secret, jwt.MapClaims{"sub": "u", "iss": "issuer", "exp": future}),
			want:  jwt.ErrTokenSignatureInvalid,
		},
		{
			name:  "missing sub",
			token: signRaw(t, jwt.SigningMethodHS256, m.secret, jwt.MapClaims{"tier": "pro", "iss": "issuer", "exp": future}),
			want:  ErrMissingSubject,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := m.Parse(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParseMissingTierIsEmpty(t *testing.T) {
	m := newManager([]byte("service-secret"), "issuer", time.Hour)
	token := signRaw(t, jwt.SigningMethodHS256, m.secret, jwt.MapClaims{"sub": "user-001", "iss": "issuer", "exp": time.Now().Add(time.Hour).Unix()})

	sub, tier, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", sub)
	assert.Empty(t, tier)
}
