package handlers

import (
	"context"
	"net/http"

	"github.com/upb/hr-platform/middleware"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// Authenticator is the credential check behind the auth endpoints
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, principal *models.Principal)
	Validate(ctx context.Context, tokenString string) (*models.UserSummary, error)
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ValidateResponse is the body of a successful GET /auth/validate
type ValidateResponse struct {
	Valid bool                `json:"valid"`
	User  *models.UserSummary `json:"user"`
}

// AuthHandler serves login, logout and token validation
type AuthHandler struct {
	auth   Authenticator
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth Authenticator, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeOrLog(utils.WriteOK(w, result), h.logger)
}

// HandleLogout handles POST /auth/logout
// Tokens are stateless, so this only acknowledges the client dropping its token.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), middleware.GetPrincipalFromContext(r.Context()))
	writeOrLog(utils.WriteMessage(w, "Logged out successfully"), h.logger)
}

// HandleValidate handles GET /auth/validate
func (h *AuthHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	raw := middleware.BearerToken(r)
	if raw == "" {
		writeOrLog(utils.WriteUnauthorized(w, "No token provided"), h.logger)
		return
	}

	user, err := h.auth.Validate(r.Context(), raw)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeOrLog(utils.WriteOK(w, ValidateResponse{Valid: true, User: user}), h.logger)
}
