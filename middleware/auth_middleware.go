package middleware

import (
	"net/http"
	"strings"

	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/token"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// TokenVerifier defines the interface for verifying access tokens
type TokenVerifier interface {
	// Verify checks the signature and expiry of a token and returns its claims
	Verify(tokenString string) (*token.Claims, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate attaches a principal to the request when a valid bearer token is present.
// It never rejects: missing or invalid tokens leave the request anonymous and the
// rejection reason is only logged. Routes that need a principal use RequireAuth.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		raw, present := extractBearerToken(r)
		if !present {
			next.ServeHTTP(w, r)
			return
		}
		if raw == "" {
			m.logger.Debug("authorization header is not a bearer token",
				zap.String("request_id", requestID))
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.verifier.Verify(raw)
		if err != nil {
			m.logger.Warn("token verification failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			next.ServeHTTP(w, r.WithContext(withAuthFailure(ctx, err)))
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			m.logger.Warn("token carries an invalid subject",
				zap.String("request_id", requestID),
				zap.Error(err))
			next.ServeHTTP(w, r.WithContext(withAuthFailure(ctx, err)))
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("subject_id", principal.SubjectID.String()),
			zap.String("role", string(principal.Role)))

		next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, &principal)))
	})
}

// RequireAuth rejects requests that reached it without a principal
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if GetPrincipalFromContext(ctx) == nil {
			message := "Authentication required"
			if token.IsExpired(getAuthFailure(ctx)) {
				message = "Token expired, please log in again"
			}
			_ = utils.WriteUnauthorized(w, message)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole is a middleware that requires a specific role. Use after RequireAuth.
func (m *AuthMiddleware) RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			principal := GetPrincipalFromContext(ctx)
			if principal == nil {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}

			if principal.Role != role {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", requestID),
					zap.String("subject_id", principal.SubjectID.String()),
					zap.String("required_role", string(role)))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken returns the token from "Authorization: Bearer <token>".
// present is false when there is no Authorization header at all.
func extractBearerToken(r *http.Request) (raw string, present bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", true
	}

	return strings.TrimSpace(parts[1]), true
}

// BearerToken returns the bearer token of a request, or "" when absent or malformed
func BearerToken(r *http.Request) string {
	raw, _ := extractBearerToken(r)
	return raw
}
