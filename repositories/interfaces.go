package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate record")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns a context that routes repository calls through the transaction
	Context() context.Context
}

// UserRepository is the credential store and the profile store.
// Lookups return ErrNotFound when no user matches.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by their unique email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves every user ordered by name
	List(ctx context.Context) ([]*models.User, error)

	// Update persists the editable profile fields
	Update(ctx context.Context, user *models.User) error
}

// AbsenceRequestRepository handles absence request data operations
type AbsenceRequestRepository interface {
	// Create creates a new absence request
	Create(ctx context.Context, req *models.AbsenceRequest) error

	// GetByID retrieves an absence request by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error)

	// GetByIDForUpdate retrieves an absence request and locks its row until the transaction ends
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error)

	// ListByEmployee retrieves an employee's requests, newest first
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.AbsenceRequest, error)

	// ListByStatus retrieves requests in a status, oldest first
	ListByStatus(ctx context.Context, status models.AbsenceStatus) ([]*models.AbsenceRequest, error)

	// UpdateStatus persists a manager's decision
	UpdateStatus(ctx context.Context, req *models.AbsenceRequest) error
}

// FeedbackRepository handles feedback data operations
type FeedbackRepository interface {
	// Create creates a new feedback entry
	Create(ctx context.Context, feedback *models.Feedback) error

	// ListByProfile retrieves feedback left on a profile, newest first
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Feedback, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users           UserRepository
	AbsenceRequests AbsenceRequestRepository
	Feedback        FeedbackRepository
}
