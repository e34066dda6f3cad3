package galleria

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// pairSeparator joins username and password inside a token.
const pairSeparator = "|"

// SessionCodec issues and verifies stateless session tokens.
//
// A token is an HS256 JWT carrying the credential pair and its issue time.
// The signing key is HMAC-SHA256(secret, salt), so tokens signed under a
// different salt never verify. Expiry is enforced at verification time
// against the codec's ttl, not a claim baked into the token, so shortening
// the ttl also shortens the life of tokens already issued.
type SessionCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type sessionClaims struct {
	Pair string `json:"pair"`
	jwt.RegisteredClaims
}

// NewSessionCodec creates a codec for the given secret key, salt and time-to-live.
func NewSessionCodec(secret, salt string, ttl time.Duration) *SessionCodec {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(salt))

	return &SessionCodec{
		key: mac.Sum(nil),
		ttl: ttl,
		now: time.Now,
	}
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *SessionCodec) WithClock(now func() time.Time) *SessionCodec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL returns the configured time-to-live.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token embedding cred and the current time.
func (c *SessionCodec) Issue(cred Credentials) (string, error) {
	claims := sessionClaims{
		Pair: cred.Username + pairSeparator + cred.Password,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Verify checks the token signature and age and returns the embedded pair.
//
// A nil error only proves the token was issued with this codec's key and is
// younger than the ttl. Callers must still compare the returned pair with the
// configured credentials (see Authenticate).
func (c *SessionCodec) Verify(token string) (Credentials, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Credentials{}, fmt.Errorf("verify token: %w: %w", ErrInvalidToken, err)
	}

	if claims.IssuedAt == nil {
		return Credentials{}, fmt.Errorf("verify token: %w: missing issue time", ErrInvalidToken)
	}

	if c.now().Sub(claims.IssuedAt.Time) > c.ttl {
		return Credentials{}, fmt.Errorf("verify token: %w", ErrTokenExpired)
	}

	user, pass, ok := strings.Cut(claims.Pair, pairSeparator)
	if !ok {
		return Credentials{}, fmt.Errorf("verify token: %w: malformed pair", ErrInvalidToken)
	}

	return Credentials{Username: user, Password: pass}, nil
}

// Authenticate verifies token and checks that it embeds want.
// Every failure matches ErrUnauthorized.
func (c *SessionCodec) Authenticate(token string, want Credentials) error {
	if token == "" {
		return fmt.Errorf("authenticate: %w: missing token", ErrUnauthorized)
	}

	got, err := c.Verify(token)
	if err != nil {
		return fmt.Errorf("authenticate: %w: %w", ErrUnauthorized, err)
	}

	if !got.Equal(want) {
		return fmt.Errorf("authenticate: %w: credentials mismatch", ErrUnauthorized)
	}

	return nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, ErrTokenExpired)
}
