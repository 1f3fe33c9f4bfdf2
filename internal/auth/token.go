// Package auth issues and resolves HS256 bearer tokens bound to a user id.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims 携带用户 ID 的 JWT 载荷
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// IssueDefault signs a token that expires after the configured TTL.
func (s *TokenService) IssueDefault(userID string) (string, error) {
	return s.Issue(userID, s.now().Add(s.ttl))
}

// Issue signs a token for userID that expires at expiresAt.
func (s *TokenService) Issue(userID string, expiresAt time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("auth: empty user id")
	}
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Resolve verifies signature and expiry. It reports false for any malformed,
// tampered, wrongly-signed or expired token and never panics.
func (s *TokenService) Resolve(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !tok.Valid {
		return "", false
	}
	if claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}
