package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// User tests
func TestNewUser(t *testing.T) {
	user := NewUser("ana@example.com", "hash", "Ana", RoleEmployee)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.Equal(t, RoleEmployee, user.Role)
	assert.False(t, user.IsManager())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUserRole_IsValid(t *testing.T) {
	assert.True(t, RoleEmployee.IsValid())
	assert.True(t, RoleManager.IsValid())
	assert.False(t, UserRole("admin").IsValid())
	assert.False(t, UserRole("").IsValid())
}

func TestUser_PasswordHashNotSerialized(t *testing.T) {
	user := NewUser("ana@example.com", "$2a$10$secret", "Ana", RoleEmployee)

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
}

func TestUser_PublicProfile(t *testing.T) {
	salary := 5200.0
	user := NewUser("ana@example.com", "hash", "Ana", RoleEmployee)
	user.Department = "Engineering"
	user.Position = "Developer"
	user.Salary = &salary
	user.SSN = "123-45-6789"
	user.BankAccount = "DE89370400440532013000"

	data, err := json.Marshal(user.PublicProfile())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Len(t, fields, 5)
	assert.Equal(t, "Ana", fields["name"])
	assert.Equal(t, "Engineering", fields["department"])
	assert.NotContains(t, fields, "salary")
	assert.NotContains(t, fields, "ssn")
	assert.NotContains(t, fields, "bankAccount")
}

func TestUser_FullProfile(t *testing.T) {
	salary := 5200.0
	hired := NewDate(2021, time.March, 1)
	user := NewUser("ana@example.com", "hash", "Ana", RoleManager)
	user.Salary = &salary
	user.HireDate = &hired
	user.SSN = "123-45-6789"

	profile := user.FullProfile()

	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, RoleManager, profile.Role)
	assert.Equal(t, &salary, profile.Salary)
	assert.Equal(t, "2021-03-01", profile.HireDate.String())
	assert.Equal(t, "123-45-6789", profile.SSN)
}

// Date tests
func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.July, 15)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-07-15"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-12-01"`), &parsed))
	assert.Equal(t, "2024-12-01", parsed.String())

	assert.Error(t, json.Unmarshal([]byte(`"01/12/2024"`), &parsed))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2024, 2, 29, 13, 5, 0, 0, time.UTC)))
	assert.Equal(t, "2024-02-29", d.String())

	require.NoError(t, d.Scan([]byte("2023-01-31")))
	assert.Equal(t, "2023-01-31", d.String())

	assert.Error(t, d.Scan(42))
}

// Absence request tests
func TestNewAbsenceRequest(t *testing.T) {
	employeeID := uuid.New()
	req := NewAbsenceRequest(employeeID, NewDate(2024, 5, 1), NewDate(2024, 5, 3), "vacation")

	assert.NotEqual(t, uuid.Nil, req.ID)
	assert.Equal(t, employeeID, req.EmployeeID)
	assert.Equal(t, AbsenceStatusPending, req.Status)
	assert.True(t, req.IsPending())
	assert.Nil(t, req.ReviewedBy)
}

func TestAbsenceRequest_Decide(t *testing.T) {
	req := NewAbsenceRequest(uuid.New(), NewDate(2024, 5, 1), NewDate(2024, 5, 3), "vacation")
	managerID := uuid.New()
	at := time.Date(2024, 4, 20, 9, 0, 0, 0, time.UTC)

	req.Decide(AbsenceStatusApproved, managerID, at)

	assert.False(t, req.IsPending())
	assert.Equal(t, AbsenceStatusApproved, req.Status)
	require.NotNil(t, req.ReviewedBy)
	assert.Equal(t, managerID, *req.ReviewedBy)
	assert.Equal(t, at, *req.ReviewedAt)
}

// Principal tests
func TestPrincipal_IsManager(t *testing.T) {
	assert.True(t, NewPrincipal(uuid.New(), "m@example.com", RoleManager, "M").IsManager())
	assert.False(t, NewPrincipal(uuid.New(), "e@example.com", RoleEmployee, "E").IsManager())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "absence_requests", AbsenceRequest{}.TableName())
	assert.Equal(t, "feedback", Feedback{}.TableName())
}
