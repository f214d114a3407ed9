package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/repositories"
	"go.uber.org/zap"
)

// FeedbackRepository implements the repositories.FeedbackRepository interface
type FeedbackRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *DB, logger *zap.Logger) repositories.FeedbackRepository {
	return &FeedbackRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new feedback entry
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	query := `
		INSERT INTO feedback (id, profile_id, author_id, content, is_polished, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		feedback.ID,
		feedback.ProfileID,
		feedback.AuthorID,
		feedback.Content,
		feedback.IsPolished,
		feedback.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create feedback: %w", translateError(err))
	}

	r.logger.Debug("feedback created",
		zap.String("id", feedback.ID.String()),
		zap.String("profile_id", feedback.ProfileID.String()),
		zap.Bool("polished", feedback.IsPolished))
	return nil
}

// ListByProfile retrieves feedback left on a profile, newest first
func (r *FeedbackRepository) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*models.Feedback, error) {
	query := `
		SELECT f.id, f.profile_id, f.author_id, u.name, f.content, f.is_polished, f.created_at
		FROM feedback f
		JOIN users u ON u.id = f.author_id
		WHERE f.profile_id = $1
		ORDER BY f.created_at DESC
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.Feedback, 0)
	for rows.Next() {
		f := &models.Feedback{}
		if err := rows.Scan(
			&f.ID,
			&f.ProfileID,
			&f.AuthorID,
			&f.AuthorName,
			&f.Content,
			&f.IsPolished,
			&f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}

	return entries, nil
}
