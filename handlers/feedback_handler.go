package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/services/feedback"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// FeedbackService defines the feedback operations the handler needs
type FeedbackService interface {
	List(ctx context.Context, profileID uuid.UUID) ([]*models.Feedback, error)
	Create(ctx context.Context, principal models.Principal, profileID uuid.UUID, input feedback.CreateInput) (*models.Feedback, error)
}

// CreateFeedbackRequest is the body of POST /profiles/{id}/feedback
type CreateFeedbackRequest struct {
	Content      string `json:"content" validate:"required,max=5000"`
	PolishWithAI bool   `json:"polishWithAI"`
}

// FeedbackHandler serves coworker feedback on profiles
type FeedbackHandler struct {
	service FeedbackService
	logger  *zap.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(service FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /profiles/{id}/feedback
func (h *FeedbackHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := requirePrincipal(w, r, h.logger); !ok {
		return
	}
	profileID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), profileID)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, items), h.logger)
}

// HandleCreate handles POST /profiles/{id}/feedback
func (h *FeedbackHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	profileID, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	var req CreateFeedbackRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	created, err := h.service.Create(r.Context(), principal, profileID, feedback.CreateInput{
		Content:      req.Content,
		PolishWithAI: req.PolishWithAI,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteCreated(w, created), h.logger)
}
