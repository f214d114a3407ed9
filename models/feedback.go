package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback is a note left by one employee on a colleague's profile
type Feedback struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ProfileID  uuid.UUID `json:"profileId" db:"profile_id"`
	AuthorID   uuid.UUID `json:"authorId" db:"author_id"`
	AuthorName string    `json:"authorName" db:"-"`
	Content    string    `json:"content" db:"content"`
	IsPolished bool      `json:"isPolished" db:"is_polished"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// TableName returns the table name for the Feedback model
func (Feedback) TableName() string {
	return "feedback"
}

// NewFeedback creates a new Feedback instance
func NewFeedback(profileID, authorID uuid.UUID, content string, polished bool) *Feedback {
	return &Feedback{
		ID:         uuid.New(),
		ProfileID:  profileID,
		AuthorID:   authorID,
		Content:    content,
		IsPolished: polished,
		CreatedAt:  time.Now().UTC(),
	}
}
