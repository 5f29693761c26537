package utils // package utils provides helpers for issuing and verifying session tokens

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingEmail is returned when a token would not identify its holder.
var ErrMissingEmail = errors.New("email claim required")

// SessionToken represents a signed JWT together with its expiry.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT carrying the caller
// supplied claims.  The email claim is mandatory because authorization
// compares it with resource owners; exp and iat are always set here and
// override whatever the caller sent.
func NewSessionToken(secret string, claims map[string]any, ttl time.Duration) (SessionToken, error) {
	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return SessionToken{}, ErrMissingEmail
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)

	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["exp"] = exp.Unix()
	mc["iat"] = now.Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken verifies the signature and expiry of raw and returns
// its claims.  Only HMAC signed tokens are accepted.
func ParseSessionToken(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
