package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenService_IssueAndResolve(t *testing.T) {
	svc := NewTokenService("secret", 0)

	tok, err := svc.IssueDefault("user-1")
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)

	id, ok := svc.Resolve(tok)
	assert.True(t, ok)
	assert.Equal(t, "user-1", id)

	var claims Claims
	_, _, err = jwt.NewParser().ParseUnverified(tok, &claims)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenService_ResolveRejects(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	expired, err := svc.Issue("user-1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	wrongSecret, err := NewTokenService("other", time.Hour).IssueDefault("user-1")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "user-1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"malformed":    "invalid.jwt.token",
		"garbage":      "not-a-token",
		"expired":      expired,
		"wrong secret": wrongSecret,
		"no expiry":    noExp,
		"alg none":     noneAlg,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			id, ok := svc.Resolve(tok)
			assert.False(t, ok)
			assert.Empty(t, id)
		})
	}
}

func TestIssueRequiresUserID(t *testing.T) {
	_, err := NewTokenService("secret", time.Hour).IssueDefault("")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("password123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "password123"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "password123"))
}
