package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/services/absence"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// AbsenceService defines the absence request operations the handler needs
type AbsenceService interface {
	ListMine(ctx context.Context, principal models.Principal) ([]*models.AbsenceRequest, error)
	ListPending(ctx context.Context, principal models.Principal) ([]*models.AbsenceRequest, error)
	Create(ctx context.Context, principal models.Principal, input absence.CreateInput) (*models.AbsenceRequest, error)
	Approve(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.AbsenceRequest, error)
	Reject(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.AbsenceRequest, error)
}

// CreateAbsenceRequest is the body of POST /absences
type CreateAbsenceRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Reason    string `json:"reason" validate:"max=2000"`
}

// AbsenceHandler serves absence requests and manager decisions
type AbsenceHandler struct {
	service AbsenceService
	logger  *zap.Logger
}

// NewAbsenceHandler creates a new AbsenceHandler
func NewAbsenceHandler(service AbsenceService, logger *zap.Logger) *AbsenceHandler {
	return &AbsenceHandler{
		service: service,
		logger:  logger,
	}
}

// HandleListMine handles GET /absences/me
func (h *AbsenceHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}

	requests, err := h.service.ListMine(r.Context(), principal)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, requests), h.logger)
}

// HandleListPending handles GET /absences/pending
func (h *AbsenceHandler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}

	requests, err := h.service.ListPending(r.Context(), principal)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, requests), h.logger)
}

// HandleCreate handles POST /absences
func (h *AbsenceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateAbsenceRequest
	if !decodeAndValidate(w, r, &req, h.logger) {
		return
	}

	created, err := h.service.Create(r.Context(), principal, absence.CreateInput{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
	})
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteCreated(w, created), h.logger)
}

// HandleApprove handles PATCH /absences/{id}/approve
func (h *AbsenceHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.service.Approve)
}

// HandleReject handles PATCH /absences/{id}/reject
func (h *AbsenceHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.handleDecision(w, r, h.service.Reject)
}

type decisionFunc func(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.AbsenceRequest, error)

func (h *AbsenceHandler) handleDecision(w http.ResponseWriter, r *http.Request, decide decisionFunc) {
	principal, ok := requirePrincipal(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id", h.logger)
	if !ok {
		return
	}

	decided, err := decide(r.Context(), principal, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOrLog(utils.WriteOK(w, decided), h.logger)
}
