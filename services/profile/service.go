package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/internal/policy"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/repositories"
	"github.com/upb/hr-platform/services"
	"github.com/upb/hr-platform/utils"
	"go.uber.org/zap"
)

// Profile is exactly one of the full or the public projection of a user
type Profile struct {
	Full   *models.FullProfile
	Public *models.PublicProfile
}

// IsFull reports whether the caller received every HR field
func (p Profile) IsFull() bool {
	return p.Full != nil
}

// MarshalJSON encodes whichever projection is set
func (p Profile) MarshalJSON() ([]byte, error) {
	if p.Full != nil {
		return json.Marshal(p.Full)
	}
	return json.Marshal(p.Public)
}

// UpdateInput carries a partial profile update. Nil fields are left unchanged.
type UpdateInput struct {
	Name             *string
	Email            *string
	Department       *string
	Position         *string
	PhoneNumber      *string
	Address          *string
	EmergencyContact *string
	Salary           *float64
}

// ProfileService serves employee profiles with role-scoped visibility
type ProfileService struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(users repositories.UserRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		users:  users,
		logger: logger,
	}
}

// GetMe returns the caller's own full profile
func (s *ProfileService) GetMe(ctx context.Context, principal models.Principal) (*models.FullProfile, error) {
	user, err := s.getUser(ctx, principal.SubjectID)
	if err != nil {
		return nil, err
	}
	return user.FullProfile(), nil
}

// List returns the public projection of every user
func (s *ProfileService) List(ctx context.Context) ([]*models.PublicProfile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list profiles", err)
	}

	profiles := make([]*models.PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.PublicProfile())
	}
	return profiles, nil
}

// Get returns the full profile when the caller may see it, otherwise the public projection
func (s *ProfileService) Get(ctx context.Context, principal models.Principal, id uuid.UUID) (Profile, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	decision := policy.Evaluate(principal, policy.ActionViewFullProfile, user.ID)
	if decision.Allowed {
		return Profile{Full: user.FullProfile()}, nil
	}
	s.logger.Debug("serving public profile",
		zap.String("subject_id", principal.SubjectID.String()),
		zap.String("profile_id", id.String()),
		zap.String("reason", decision.Reason))
	return Profile{Public: user.PublicProfile()}, nil
}

// Update applies a partial update on behalf of the owner or a manager
func (s *ProfileService) Update(ctx context.Context, principal models.Principal, id uuid.UUID, input UpdateInput) (*models.FullProfile, error) {
	decision := policy.Evaluate(principal, policy.ActionEditProfile, id)
	if !decision.Allowed {
		s.logger.Info("profile update denied",
			zap.String("subject_id", principal.SubjectID.String()),
			zap.String("profile_id", id.String()),
			zap.String("reason", decision.Reason))
		return nil, services.ErrForbidden
	}

	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if salaryChanged(user.Salary, input.Salary) && !principal.IsManager() {
		return nil, services.NewDomainError(services.ErrorTypeForbidden, "only managers can change salary", nil)
	}

	applyUpdate(user, input)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, services.ErrDuplicateEmail
		case errors.Is(err, repositories.ErrNotFound):
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to update profile", err)
	}

	s.logger.Info("profile updated",
		zap.String("subject_id", principal.SubjectID.String()),
		zap.String("profile_id", id.String()))

	return user.FullProfile(), nil
}

func (s *ProfileService) getUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrUserNotFound
		}
		return nil, services.WrapInternal("failed to get profile", err)
	}
	return user, nil
}

func validateUpdate(input UpdateInput) error {
	fields := make(map[string]string)

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		fields["name"] = "name cannot be empty"
	}
	if input.Email != nil {
		if err := utils.ValidateEmail(strings.TrimSpace(*input.Email)); err != nil {
			fields["email"] = "email must be a valid address"
		}
	}
	if input.Salary != nil && *input.Salary < 0 {
		fields["salary"] = "salary cannot be negative"
	}

	if len(fields) > 0 {
		return services.ValidationFailed("invalid profile update", fields)
	}
	return nil
}

func applyUpdate(user *models.User, input UpdateInput) {
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.Department != nil {
		user.Department = *input.Department
	}
	if input.Position != nil {
		user.Position = *input.Position
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.EmergencyContact != nil {
		user.EmergencyContact = *input.EmergencyContact
	}
	if input.Salary != nil {
		salary := *input.Salary
		user.Salary = &salary
	}
}

// salaryChanged reports whether submitted differs from the stored salary.
// A nil submission leaves the salary untouched.
func salaryChanged(current, submitted *float64) bool {
	if submitted == nil {
		return false
	}
	return current == nil || *current != *submitted
}
