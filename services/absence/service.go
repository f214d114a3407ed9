package absence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/internal/policy"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/repositories"
	"github.com/upb/hr-platform/services"
	"go.uber.org/zap"
)

// CreateInput carries a new absence request. Dates use the YYYY-MM-DD layout.
type CreateInput struct {
	StartDate string
	EndDate   string
	Reason    string
}

// AbsenceService manages absence requests and manager decisions
type AbsenceService struct {
	requests repositories.AbsenceRequestRepository
	txMgr    repositories.TransactionManager
	logger   *zap.Logger
	now      func() time.Time
}

// NewAbsenceService creates a new absence service
func NewAbsenceService(requests repositories.AbsenceRequestRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *AbsenceService {
	return &AbsenceService{
		requests: requests,
		txMgr:    txMgr,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListMine returns the caller's own requests, newest first
func (s *AbsenceService) ListMine(ctx context.Context, principal models.Principal) ([]*models.AbsenceRequest, error) {
	requests, err := s.requests.ListByEmployee(ctx, principal.SubjectID)
	if err != nil {
		return nil, services.WrapInternal("failed to list absence requests", err)
	}
	return requests, nil
}

// ListPending returns every pending request, oldest first. Managers only.
func (s *AbsenceService) ListPending(ctx context.Context, principal models.Principal) ([]*models.AbsenceRequest, error) {
	if err := s.requireManager(principal); err != nil {
		return nil, err
	}

	requests, err := s.requests.ListByStatus(ctx, models.AbsenceStatusPending)
	if err != nil {
		return nil, services.WrapInternal("failed to list pending absence requests", err)
	}
	return requests, nil
}

// Create files a new pending request for the caller
func (s *AbsenceService) Create(ctx context.Context, principal models.Principal, input CreateInput) (*models.AbsenceRequest, error) {
	start, end, err := parseRange(input.StartDate, input.EndDate)
	if err != nil {
		return nil, err
	}

	req := models.NewAbsenceRequest(principal.SubjectID, start, end, strings.TrimSpace(input.Reason))
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, services.WrapInternal("failed to create absence request", err)
	}
	req.EmployeeName = principal.DisplayName

	s.logger.Info("absence request created",
		zap.String("request_id", req.ID.String()),
		zap.String("subject_id", principal.SubjectID.String()),
		zap.String("start_date", start.String()),
		zap.String("end_date", end.String()))

	return req, nil
}

// Approve approves a pending request
func (s *AbsenceService) Approve(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.AbsenceRequest, error) {
	return s.decide(ctx, principal, id, models.AbsenceStatusApproved)
}

// Reject rejects a pending request
func (s *AbsenceService) Reject(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.AbsenceRequest, error) {
	return s.decide(ctx, principal, id, models.AbsenceStatusRejected)
}

func (s *AbsenceService) decide(ctx context.Context, principal models.Principal, id uuid.UUID, status models.AbsenceStatus) (*models.AbsenceRequest, error) {
	if err := s.requireManager(principal); err != nil {
		return nil, err
	}

	req, err := services.WithTransactionResult(ctx, s.txMgr, func(ctx context.Context, tx repositories.Transaction) (*models.AbsenceRequest, error) {
		req, err := s.requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, services.ErrAbsenceRequestNotFound
			}
			return nil, services.WrapInternal("failed to load absence request", err)
		}

		if !req.IsPending() {
			return nil, services.NewDomainError(services.ErrorTypeConflict, "absence request has already been decided", nil).
				WithDetail("status", string(req.Status))
		}

		req.Decide(status, principal.SubjectID, s.now())
		if err := s.requests.UpdateStatus(ctx, req); err != nil {
			return nil, services.WrapInternal("failed to update absence request", err)
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("absence request decided",
		zap.String("request_id", id.String()),
		zap.String("status", string(status)),
		zap.String("subject_id", principal.SubjectID.String()))

	return req, nil
}

func (s *AbsenceService) requireManager(principal models.Principal) error {
	decision := policy.Evaluate(principal, policy.ActionManageAbsenceRequests, uuid.Nil)
	if !decision.Allowed {
		s.logger.Info("absence management denied",
			zap.String("subject_id", principal.SubjectID.String()),
			zap.String("reason", decision.Reason))
		return services.NewDomainError(services.ErrorTypeForbidden, "only managers can manage absence requests", nil)
	}
	return nil
}

func parseRange(startRaw, endRaw string) (models.Date, models.Date, error) {
	fields := make(map[string]string)

	start, err := models.ParseDate(strings.TrimSpace(startRaw))
	if err != nil {
		fields["startDate"] = "startDate must use the YYYY-MM-DD format"
	}
	end, err := models.ParseDate(strings.TrimSpace(endRaw))
	if err != nil {
		fields["endDate"] = "endDate must use the YYYY-MM-DD format"
	}
	if len(fields) > 0 {
		return models.Date{}, models.Date{}, services.ValidationFailed("invalid absence dates", fields)
	}

	if end.Before(start.Time) {
		return models.Date{}, models.Date{}, services.ErrInvalidDateRange
	}
	return start, end, nil
}
