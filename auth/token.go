package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the validity window of an issued credential.
const DefaultTokenTTL = 5 * 24 * time.Hour

// ErrInvalidToken indicates the token failed verification: bad signature,
// malformed payload or past its expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed payload of a credential.
type Claims struct {
	User Identity `json:"user"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 credentials.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec returns a codec signing with secret. A non-positive ttl falls
// back to DefaultTokenTTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the codec reading the current time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// TTL returns the validity window of issued tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs a credential for id that expires TTL after the current time.
func (c *Codec) Issue(id Identity) (string, error) {
	if strings.TrimSpace(id.SubjectID) == "" {
		return "", errors.New("subject id is required")
	}
	if !id.Role.Valid() {
		return "", fmt.Errorf("unknown role %q", id.Role)
	}
	now := c.now().UTC()
	claims := Claims{
		User: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns the identity
// it asserts. Every failure is reported as ErrInvalidToken.
func (c *Codec) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.User.SubjectID == "" || claims.User.SubjectID != claims.Subject || !claims.User.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return claims.User, nil
}
