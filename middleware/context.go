package middleware

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/hr-platform/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// PrincipalKey is the context key for the authenticated principal
	PrincipalKey contextKey = "principal"

	// AuthFailureKey is the context key for the reason a presented token was rejected
	AuthFailureKey contextKey = "auth_failure"
)

// GetRequestIDFromContext retrieves the request ID from context,
// falling back to the ID assigned by chi's RequestID middleware
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return chimw.GetReqID(ctx)
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetPrincipalFromContext retrieves the principal from context, or nil for anonymous requests
func GetPrincipalFromContext(ctx context.Context) *models.Principal {
	if val := ctx.Value(PrincipalKey); val != nil {
		if principal, ok := val.(*models.Principal); ok {
			return principal
		}
	}
	return nil
}

// WithPrincipal adds the principal to the context
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, principal)
}

// getAuthFailure retrieves the token rejection recorded by Authenticate
func getAuthFailure(ctx context.Context) error {
	if val := ctx.Value(AuthFailureKey); val != nil {
		if err, ok := val.(error); ok {
			return err
		}
	}
	return nil
}

func withAuthFailure(ctx context.Context, err error) context.Context {
	return context.WithValue(ctx, AuthFailureKey, err)
}
