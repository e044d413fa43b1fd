package security

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/blake2b"
)

var ErrNoExpiry = errors.New("token carries no expiry")

// TokenExpiry reads the exp claim of a JWT without verifying the signature.
// The backend stays the authority on validity; the portal only uses the
// expiry to bound how long it keeps the credential.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// CredentialTTL bounds fallback by the token's own expiry when it has one.
// A token that has already expired gets a zero TTL.
func CredentialTTL(token string, fallback time.Duration, now time.Time) time.Duration {
	exp, err := TokenExpiry(token)
	if err != nil {
		return fallback
	}
	ttl := exp.Sub(now)
	switch {
	case ttl <= 0:
		return 0
	case fallback > 0 && ttl > fallback:
		return fallback
	default:
		return ttl
	}
}

// Fingerprint identifies a token in logs without revealing it.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
