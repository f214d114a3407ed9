package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/repositories"
	"go.uber.org/zap"
)

const absenceSelect = `
		SELECT a.id, a.employee_id, u.name, a.start_date, a.end_date, a.reason, a.status,
		       a.reviewed_by, a.reviewed_at, a.created_at, a.updated_at
		FROM absence_requests a
		JOIN users u ON u.id = a.employee_id`

// AbsenceRequestRepository implements the repositories.AbsenceRequestRepository interface
type AbsenceRequestRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAbsenceRequestRepository creates a new absence request repository
func NewAbsenceRequestRepository(db *DB, logger *zap.Logger) repositories.AbsenceRequestRepository {
	return &AbsenceRequestRepository{
		db:     db,
		logger: logger,
	}
}

func scanAbsenceRequest(row rowScanner) (*models.AbsenceRequest, error) {
	req := &models.AbsenceRequest{}
	err := row.Scan(
		&req.ID,
		&req.EmployeeID,
		&req.EmployeeName,
		&req.StartDate,
		&req.EndDate,
		&req.Reason,
		&req.Status,
		&req.ReviewedBy,
		&req.ReviewedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return req, nil
}

// Create creates a new absence request
func (r *AbsenceRequestRepository) Create(ctx context.Context, req *models.AbsenceRequest) error {
	query := `
		INSERT INTO absence_requests (id, employee_id, start_date, end_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		req.ID,
		req.EmployeeID,
		req.StartDate,
		req.EndDate,
		req.Reason,
		req.Status,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create absence request: %w", translateError(err))
	}

	r.logger.Debug("absence request created",
		zap.String("id", req.ID.String()),
		zap.String("employee_id", req.EmployeeID.String()))
	return nil
}

// GetByID retrieves an absence request by ID
func (r *AbsenceRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error) {
	query := absenceSelect + ` WHERE a.id = $1`

	req, err := scanAbsenceRequest(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get absence request %s: %w", id, translateError(err))
	}
	return req, nil
}

// GetByIDForUpdate retrieves an absence request and locks it for the current transaction
func (r *AbsenceRequestRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.AbsenceRequest, error) {
	query := absenceSelect + ` WHERE a.id = $1 FOR UPDATE OF a`

	req, err := scanAbsenceRequest(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock absence request %s: %w", id, translateError(err))
	}
	return req, nil
}

// ListByEmployee retrieves an employee's requests, newest first
func (r *AbsenceRequestRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.AbsenceRequest, error) {
	return r.list(ctx, absenceSelect+` WHERE a.employee_id = $1 ORDER BY a.created_at DESC`, employeeID)
}

// ListByStatus retrieves requests in a status, oldest first
func (r *AbsenceRequestRepository) ListByStatus(ctx context.Context, status models.AbsenceStatus) ([]*models.AbsenceRequest, error) {
	return r.list(ctx, absenceSelect+` WHERE a.status = $1 ORDER BY a.created_at ASC`, status)
}

func (r *AbsenceRequestRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.AbsenceRequest, error) {
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query absence requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.AbsenceRequest, 0)
	for rows.Next() {
		req, err := scanAbsenceRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan absence request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating absence request rows: %w", err)
	}

	return requests, nil
}

// UpdateStatus persists a manager's decision
func (r *AbsenceRequestRepository) UpdateStatus(ctx context.Context, req *models.AbsenceRequest) error {
	query := `
		UPDATE absence_requests
		SET status = $2,
		    reviewed_by = $3,
		    reviewed_at = $4,
		    updated_at = $5
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		req.ID,
		req.Status,
		req.ReviewedBy,
		req.ReviewedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update absence request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to update absence request %s: %w", req.ID, repositories.ErrNotFound)
	}

	r.logger.Debug("absence request decided",
		zap.String("id", req.ID.String()),
		zap.String("status", string(req.Status)))
	return nil
}
