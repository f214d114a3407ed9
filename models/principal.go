package models

import "github.com/google/uuid"

// Principal is the authenticated identity attached to a single request.
// It is built from a verified token and never mutated afterwards.
type Principal struct {
	SubjectID   uuid.UUID
	Email       string
	Role        UserRole
	DisplayName string
}

// NewPrincipal creates a new Principal
func NewPrincipal(subjectID uuid.UUID, email string, role UserRole, displayName string) Principal {
	return Principal{
		SubjectID:   subjectID,
		Email:       email,
		Role:        role,
		DisplayName: displayName,
	}
}

// IsManager returns true if the principal holds the manager role
func (p Principal) IsManager() bool {
	return p.Role == RoleManager
}
