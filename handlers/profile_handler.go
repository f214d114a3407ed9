package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/services/profile"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// ProfileService defines the profile operations the handler needs
type ProfileService interface {
	GetMe(ctx context.Context, principal models.Principal) (*models.FullProfile, error)
	List(ctx context.Context) ([]*models.PublicProfile, error)
	Get(ctx context.Context, principal models.Principal, id uuid.UUID) (profile.Profile, error)
	Update(ctx context.Context, principal models.Principal, id uuid.UUID, input profile.UpdateInput) (*models.FullProfile, error)
}

// UpdateProfileRequest is the body of PUT /profiles/{id}. Omitted fields stay unchanged.
type UpdateProfileRequest struct {
	Name             *string  `json:"name" validate:"omitempty,max=255"`
	Email            *string  `json:"email" validate:"omitempty,max=255"`
	Department       *string  `json:"department" validate:"omitempty,max=255"`
	Position         *string  `json:"position" validate:"omitempty,max=255"`
	PhoneNumber      *string  `json:"phoneNumber" validate:"omitempty,max=64"`
	Address          *string  `json:"address" validate:"omitempty,max=512"`
	EmergencyContact *string  `json:"emergencyContact" validate:"omitempty,max=255"`
	Salary           *float64 `json:"salary"`
}

// ProfileHandler serves employee profiles
type ProfileHandler struct {
	service ProfileService
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// HandleGetMe handles GET /profiles/me
func (h *ProfileHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}

	me, err := h.service.GetMe(r.Context(), principal)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, me), h.logger)
}

// HandleList handles GET /profiles
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r, h.logger); !ok {
		return
	}

	profiles, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, profiles), h.logger)
}

// HandleGet handles GET /profiles/{id}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), principal, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, p), h.logger)
}

// HandleUpdate handles PUT /profiles/{id}
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	updated, err := h.service.Update(r.Context(), principal, id, profile.UpdateInput{
		Name:             req.Name,
		Email:            req.Email,
		Department:       req.Department,
		Position:         req.Position,
		PhoneNumber:      req.PhoneNumber,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Salary:           req.Salary,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, updated), h.logger)
}
