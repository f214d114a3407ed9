package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
)

// MinSecretLength is the minimum HMAC key size accepted for HS256
const MinSecretLength = 32

const defaultIssuer = "hr-platform"

var (
	// ErrMissingSigningKey is returned at construction when no secret is configured
	ErrMissingSigningKey = errors.New("token signing key is not configured")

	// ErrWeakSigningKey is returned at construction when the secret is too short for HS256
	ErrWeakSigningKey = fmt.Errorf("token signing key must be at least %d bytes", MinSecretLength)

	// ErrMalformed is returned when the token cannot be decoded or its claims are unusable
	ErrMalformed = errors.New("token malformed")

	// ErrSignatureInvalid is returned when the signature does not match the claims
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrExpired is returned when a correctly signed token is past its expiry
	ErrExpired = errors.New("token expired")
)

// Codec issues and verifies HS256 signed access tokens.
// The signing key is fixed at construction and only read afterwards,
// so a single Codec can be shared by any number of goroutines.
type Codec struct {
	key    []byte
	issuer string
	leeway time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option configures a Codec
type Option func(*Codec)

// WithIssuer sets the iss claim written and required by the codec
func WithIssuer(issuer string) Option {
	return func(c *Codec) {
		c.issuer = issuer
	}
}

// WithLeeway sets the clock skew tolerated when checking exp and iat
func WithLeeway(leeway time.Duration) Option {
	return func(c *Codec) {
		c.leeway = leeway
	}
}

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec creates a new Codec
func NewCodec(secret string, opts ...Option) (*Codec, error) {
	if secret == "" {
		return nil, ErrMissingSigningKey
	}
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSigningKey
	}

	c := &Codec{
		key:    []byte(secret),
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(c.issuer),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
	)

	return c, nil
}

// Issue signs a new token for the given identity valid for ttl
func (c *Codec) Issue(subjectID uuid.UUID, email string, role models.UserRole, name string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := &Claims{
		Email: email,
		Role:  role,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// Every failure wraps exactly one of ErrMalformed, ErrSignatureInvalid or ErrExpired.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := c.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrMalformed
	}

	if err := claims.validateShape(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return claims, nil
}

// classify maps parser errors onto the three verification outcomes.
// Signature problems are checked first so a forged token never reports Expired.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// IsExpired reports whether a verification error is an expiry
func IsExpired(err error) bool {
	return errors.Is(err, ErrExpired)
}
