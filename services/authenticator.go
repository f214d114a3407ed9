package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/repositories"
	"github.com/upb/hr-platform/token"
	"go.uber.org/zap"
)

// LoginResult is returned on a successful login
type LoginResult struct {
	Token string              `json:"token"`
	User  *models.UserSummary `json:"user"`
}

// Authenticator checks credentials against the user store and issues tokens
type Authenticator struct {
	users     repositories.UserRepository
	codec     *token.Codec
	hasher    PasswordHasher
	ttl       time.Duration
	dummyHash string
	logger    *zap.Logger
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(users repositories.UserRepository, codec *token.Codec, hasher PasswordHasher, ttl time.Duration, logger *zap.Logger) (*Authenticator, error) {
	// Unknown emails still pay for one hash comparison.
	dummyHash, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		users:     users,
		codec:     codec,
		hasher:    hasher,
		ttl:       ttl,
		dummyHash: dummyHash,
		logger:    logger,
	}, nil
}

// Login verifies email and password and issues a token for the stored identity
func (a *Authenticator) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, WrapInternal("failed to look up user", err)
		}
		_ = a.hasher.Compare(a.dummyHash, password)
		a.logger.Info("login failed", zap.String("reason", "unknown email"))
		return nil, ErrInvalidCredentials
	}

	if err := a.hasher.Compare(user.PasswordHash, password); err != nil {
		if !errors.Is(err, ErrPasswordMismatch) {
			a.logger.Error("password comparison failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		a.logger.Info("login failed",
			zap.String("user_id", user.ID.String()),
			zap.String("reason", "password mismatch"))
		return nil, ErrInvalidCredentials
	}

	signed, err := a.codec.Issue(user.ID, user.Email, user.Role, user.Name, a.ttl)
	if err != nil {
		return nil, WrapInternal("failed to issue token", err)
	}

	a.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &LoginResult{Token: signed, User: user.Summary()}, nil
}

// Logout acknowledges a logout. Tokens stay valid until they expire.
func (a *Authenticator) Logout(ctx context.Context, principal *models.Principal) {
	if principal != nil {
		a.logger.Info("user logged out", zap.String("user_id", principal.SubjectID.String()))
	}
}

// Validate verifies a token and re-reads its subject from the user store
func (a *Authenticator) Validate(ctx context.Context, tokenString string) (*models.UserSummary, error) {
	claims, err := a.codec.Verify(tokenString)
	if err != nil {
		if token.IsExpired(err) {
			return nil, ErrTokenExpired
		}
		a.logger.Debug("token rejected", zap.Error(err))
		return nil, ErrUnauthenticated
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := a.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			a.logger.Warn("token subject no longer exists", zap.String("user_id", subjectID.String()))
			return nil, ErrUnauthenticated
		}
		return nil, WrapInternal("failed to look up user", err)
	}

	return user.Summary(), nil
}
