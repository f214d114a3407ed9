package models

import (
	"time"

	"github.com/google/uuid"
)

// AbsenceStatus represents the lifecycle state of an absence request
type AbsenceStatus string

const (
	AbsenceStatusPending  AbsenceStatus = "pending"
	AbsenceStatusApproved AbsenceStatus = "approved"
	AbsenceStatusRejected AbsenceStatus = "rejected"
)

// AbsenceRequest is an employee's request for time off
type AbsenceRequest struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	EmployeeID   uuid.UUID     `json:"employeeId" db:"employee_id"`
	EmployeeName string        `json:"employeeName" db:"-"`
	StartDate    Date          `json:"startDate" db:"start_date"`
	EndDate      Date          `json:"endDate" db:"end_date"`
	Reason       string        `json:"reason" db:"reason"`
	Status       AbsenceStatus `json:"status" db:"status"`
	ReviewedBy   *uuid.UUID    `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedAt   *time.Time    `json:"reviewedAt,omitempty" db:"reviewed_at"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the AbsenceRequest model
func (AbsenceRequest) TableName() string {
	return "absence_requests"
}

// NewAbsenceRequest creates a new pending AbsenceRequest
func NewAbsenceRequest(employeeID uuid.UUID, start, end Date, reason string) *AbsenceRequest {
	now := time.Now().UTC()
	return &AbsenceRequest{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Reason:     reason,
		Status:     AbsenceStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// IsPending returns true while no manager has decided on the request
func (a *AbsenceRequest) IsPending() bool {
	return a.Status == AbsenceStatusPending
}

// Decide records a manager's decision
func (a *AbsenceRequest) Decide(status AbsenceStatus, managerID uuid.UUID, at time.Time) {
	a.Status = status
	a.ReviewedBy = &managerID
	a.ReviewedAt = &at
	a.UpdatedAt = at
}
