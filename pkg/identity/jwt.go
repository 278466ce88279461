package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminClaim = "admin"

// TokenVerifier validates HMAC-signed bearer tokens and maps them to
// actors. A token whose claims carry `admin: true` is authorised for
// authoring operations.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier constructs a verifier for tokens signed with the given
// shared secret.
func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

// Verify parses and validates a token, returning the actor it names.
func (v *TokenVerifier) Verify(token string) (Actor, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("identity: unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("identity: verify token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, fmt.Errorf("identity: unexpected claims type %T", parsed.Claims)
	}

	actor := Actor{}
	if sub, err := claims.GetSubject(); err == nil {
		actor.ID = sub
	}
	if admin, ok := claims[adminClaim].(bool); ok {
		actor.Authorized = admin
	}
	return actor, nil
}

// Issue signs a token for the given actor. Primarily used by tests and
// local tooling; production deployments mint tokens upstream.
func (v *TokenVerifier) Issue(actor Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      actor.ID,
		adminClaim: actor.Authorized,
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("identity: sign token: %w", err)
	}
	return signed, nil
}
