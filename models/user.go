package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of an employee within the company
type UserRole string

const (
	RoleEmployee UserRole = "employee"
	RoleManager  UserRole = "manager"
)

// IsValid reports whether the role is one of the known roles
func (r UserRole) IsValid() bool {
	return r == RoleEmployee || r == RoleManager
}

// User is both the credential record and the HR profile of an employee
type User struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Email            string    `json:"email" db:"email"`
	PasswordHash     string    `json:"-" db:"password_hash"`
	Name             string    `json:"name" db:"name"`
	Role             UserRole  `json:"role" db:"role"`
	Department       string    `json:"department" db:"department"`
	Position         string    `json:"position" db:"position"`
	HireDate         *Date     `json:"hireDate,omitempty" db:"hire_date"`
	Salary           *float64  `json:"salary,omitempty" db:"salary"`
	PhoneNumber      string    `json:"phoneNumber" db:"phone_number"`
	Address          string    `json:"address" db:"address"`
	EmergencyContact string    `json:"emergencyContact" db:"emergency_contact"`
	BankAccount      string    `json:"bankAccount" db:"bank_account"`
	SSN              string    `json:"ssn" db:"ssn"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(email, passwordHash, name string, role UserRole) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsManager returns true if the user has the manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// Summary returns the identity fields handed back on login and validation
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Position:   u.Position,
	}
}

// PublicProfile returns the reduced projection visible to any colleague
func (u *User) PublicProfile() *PublicProfile {
	return &PublicProfile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		Position:   u.Position,
	}
}

// FullProfile returns every HR field of the user
func (u *User) FullProfile() *FullProfile {
	return &FullProfile{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		Department:       u.Department,
		Position:         u.Position,
		HireDate:         u.HireDate,
		Salary:           u.Salary,
		PhoneNumber:      u.PhoneNumber,
		Address:          u.Address,
		EmergencyContact: u.EmergencyContact,
		BankAccount:      u.BankAccount,
		SSN:              u.SSN,
	}
}

// UserSummary is the principal summary returned by the auth service
type UserSummary struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       UserRole  `json:"role"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
}

// PublicProfile carries only name, email, department and position.
// It has no sensitive fields so it can never leak salary or identity numbers.
type PublicProfile struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Position   string    `json:"position"`
}

// FullProfile is visible to the owner and to managers
type FullProfile struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Role             UserRole  `json:"role"`
	Department       string    `json:"department"`
	Position         string    `json:"position"`
	HireDate         *Date     `json:"hireDate,omitempty"`
	Salary           *float64  `json:"salary,omitempty"`
	PhoneNumber      string    `json:"phoneNumber"`
	Address          string    `json:"address"`
	EmergencyContact string    `json:"emergencyContact"`
	BankAccount      string    `json:"bankAccount"`
	SSN              string    `json:"ssn"`
}
