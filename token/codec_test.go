package token

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/hr-platform/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fixedClock returns a clock that can be moved by the test
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	current := start
	return func() time.Time { return current }, func(d time.Duration) { current = current.Add(d) }
}

func newTestCodec(t *testing.T, opts ...Option) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret, opts...)
	require.NoError(t, err)
	return codec
}

// flipSignature decodes the signature segment, flips one bit and re-encodes it
func flipSignature(t *testing.T, signed string, index int) string {
	t.Helper()
	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[index%len(sig)] ^= 0x01
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)

	return strings.Join(parts, ".")
}

func TestNewCodec(t *testing.T) {
	t.Run("missing secret is rejected", func(t *testing.T) {
		codec, err := NewCodec("")
		assert.Nil(t, codec)
		assert.ErrorIs(t, err, ErrMissingSigningKey)
	})

	t.Run("short secret is rejected", func(t *testing.T) {
		codec, err := NewCodec("too-short")
		assert.Nil(t, codec)
		assert.ErrorIs(t, err, ErrWeakSigningKey)
	})

	t.Run("valid secret", func(t *testing.T) {
		codec, err := NewCodec(testSecret, WithIssuer("test"), WithLeeway(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, "test", codec.issuer)
		assert.Equal(t, 5*time.Second, codec.leeway)
	})
}

func TestCodec_IssueAndVerify(t *testing.T) {
	now, _ := fixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	codec := newTestCodec(t, WithClock(now))
	subject := uuid.New()

	signed, err := codec.Issue(subject, "maria@example.com", models.RoleManager, "Maria", time.Hour)
	require.NoError(t, err)

	claims, err := codec.Verify(signed)
	require.NoError(t, err)

	assert.Equal(t, subject.String(), claims.Subject)
	assert.Equal(t, "maria@example.com", claims.Email)
	assert.Equal(t, models.RoleManager, claims.Role)
	assert.Equal(t, "Maria", claims.Name)
	assert.WithinDuration(t, now(), claims.IssuedAt.Time, 0)
	assert.WithinDuration(t, now().Add(time.Hour), claims.ExpiresAt.Time, 0)

	principal, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, subject, principal.SubjectID)
	assert.True(t, principal.IsManager())
}

func TestCodec_Verify(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expired token returns Expired", func(t *testing.T) {
		now, advance := fixedClock(start)
		codec := newTestCodec(t, WithClock(now))

		signed, err := codec.Issue(uuid.New(), "a@example.com", models.RoleEmployee, "A", time.Minute)
		require.NoError(t, err)

		advance(2 * time.Minute)
		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrExpired)
		assert.True(t, IsExpired(err))
		assert.NotErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("expiry within leeway is accepted", func(t *testing.T) {
		now, advance := fixedClock(start)
		codec := newTestCodec(t, WithClock(now), WithLeeway(30*time.Second))

		signed, err := codec.Issue(uuid.New(), "a@example.com", models.RoleEmployee, "A", time.Minute)
		require.NoError(t, err)

		advance(time.Minute + 10*time.Second)
		_, err = codec.Verify(signed)
		assert.NoError(t, err)

		advance(time.Minute)
		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("flipped signature returns SignatureInvalid", func(t *testing.T) {
		now, _ := fixedClock(start)
		codec := newTestCodec(t, WithClock(now))

		signed, err := codec.Issue(uuid.New(), "a@example.com", models.RoleEmployee, "A", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(flipSignature(t, signed, 0))
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("tampered claims invalidate the signature", func(t *testing.T) {
		now, _ := fixedClock(start)
		codec := newTestCodec(t, WithClock(now))

		signed, err := codec.Issue(uuid.New(), "a@example.com", models.RoleEmployee, "A", time.Hour)
		require.NoError(t, err)

		parts := strings.Split(signed, ".")
		payload, err := base64.RawURLEncoding.DecodeString(parts[1])
		require.NoError(t, err)
		forged := strings.Replace(string(payload), `"role":"employee"`, `"role":"manager"`, 1)
		require.NotEqual(t, string(payload), forged)
		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

		_, err = codec.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("token signed with another key returns SignatureInvalid", func(t *testing.T) {
		now, _ := fixedClock(start)
		other, err := NewCodec("ffffffffffffffffffffffffffffffff", WithClock(now))
		require.NoError(t, err)
		codec := newTestCodec(t, WithClock(now))

		signed, err := other.Issue(uuid.New(), "a@example.com", models.RoleEmployee, "A", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		now, _ := fixedClock(start)
		codec := newTestCodec(t, WithClock(now))

		claims := &Claims{
			Email: "a@example.com",
			Role:  models.RoleManager,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   uuid.New().String(),
				Issuer:    defaultIssuer,
				IssuedAt:  jwt.NewNumericDate(start),
				ExpiresAt: jwt.NewNumericDate(start.Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrExpired)
	})

	t.Run("garbage returns Malformed", func(t *testing.T) {
		codec := newTestCodec(t)

		for _, input := range []string{"", "not-a-token", "a.b", "a.b.c"} {
			_, err := codec.Verify(input)
			assert.ErrorIs(t, err, ErrMalformed, "input %q", input)
		}
	})

	t.Run("missing expiry returns Malformed", func(t *testing.T) {
		now, _ := fixedClock(start)
		codec := newTestCodec(t, WithClock(now))

		claims := &Claims{
			Email: "a@example.com",
			Role:  models.RoleEmployee,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:  uuid.New().String(),
				Issuer:   defaultIssuer,
				IssuedAt: jwt.NewNumericDate(start),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("unknown role returns Malformed", func(t *testing.T) {
		now, _ := fixedClock(start)
		codec := newTestCodec(t, WithClock(now))

		signed, err := codec.Issue(uuid.New(), "a@example.com", models.UserRole("admin"), "A", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("wrong issuer returns Malformed", func(t *testing.T) {
		now, _ := fixedClock(start)
		issuer := newTestCodec(t, WithClock(now), WithIssuer("someone-else"))
		codec := newTestCodec(t, WithClock(now))

		signed, err := issuer.Issue(uuid.New(), "a@example.com", models.RoleEmployee, "A", time.Hour)
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrMalformed)
	})
}
