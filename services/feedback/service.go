package feedback

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/internal/policy"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/repositories"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/services/enrichment"
	"go.uber.org/zap"
)

// polishContext is the context hint sent with feedback text
const polishContext = "employee feedback"

// CreateInput carries new feedback for a colleague's profile
type CreateInput struct {
	Content      string
	PolishWithAI bool
}

// FeedbackService manages feedback left on employee profiles
type FeedbackService struct {
	users    repositories.UserRepository
	feedback repositories.FeedbackRepository
	polisher enrichment.Polisher
	logger   *zap.Logger
}

// NewFeedbackService creates a new feedback service. polisher may be nil, in which
// case polishing requests fail as unavailable.
func NewFeedbackService(users repositories.UserRepository, feedback repositories.FeedbackRepository, polisher enrichment.Polisher, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{
		users:    users,
		feedback: feedback,
		polisher: polisher,
		logger:   logger,
	}
}

// List returns feedback on a profile, newest first
func (s *FeedbackService) List(ctx context.Context, profileID uuid.UUID) ([]*models.Feedback, error) {
	if _, err := s.getProfile(ctx, profileID); err != nil {
		return nil, err
	}

	entries, err := s.feedback.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, services.WrapInternal("failed to list feedback", err)
	}
	return entries, nil
}

// Create stores feedback from the caller on someone else's profile.
// When polishing is requested the stored content is the polished text, or nothing is stored.
func (s *FeedbackService) Create(ctx context.Context, principal models.Principal, profileID uuid.UUID, input CreateInput) (*models.Feedback, error) {
	decision := policy.Evaluate(principal, policy.ActionLeaveFeedback, profileID)
	if !decision.Allowed {
		return nil, services.NewDomainError(services.ErrorTypeForbidden, "cannot leave feedback on your own profile", nil)
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, services.ValidationFailed("invalid feedback", map[string]string{"content": "content is required"})
	}

	if _, err := s.getProfile(ctx, profileID); err != nil {
		return nil, err
	}

	polished := false
	if input.PolishWithAI {
		if s.polisher == nil {
			return nil, services.ErrEnrichmentUnavailable
		}
		result, err := s.polisher.Polish(ctx, enrichment.Request{Text: content, Context: polishContext})
		if err != nil {
			s.logger.Warn("feedback polishing failed",
				zap.String("subject_id", principal.SubjectID.String()),
				zap.String("profile_id", profileID.String()),
				zap.Error(err))
			return nil, err
		}
		content = result.PolishedText
		polished = true
	}

	entry := models.NewFeedback(profileID, principal.SubjectID, content, polished)
	if err := s.feedback.Create(ctx, entry); err != nil {
		return nil, services.WrapInternal("failed to create feedback", err)
	}
	entry.AuthorName = principal.DisplayName

	s.logger.Info("feedback created",
		zap.String("feedback_id", entry.ID.String()),
		zap.String("profile_id", profileID.String()),
		zap.Bool("polished", polished))

	return entry, nil
}

func (s *FeedbackService) getProfile(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to get profile", err)
	}
	return user, nil
}
