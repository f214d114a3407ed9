package app

import (
	"context"
	"fmt"
	"time"

	"github.com/upb/hr-platform/models"
	"github.com/upb/hr-platform/repositories"
	"github.com/upb/hr-platform/services"
	"go.uber.org/zap"
)

type demoUser struct {
	email      string
	name       string
	role       models.UserRole
	department string
	position   string
	hired      models.Date
	salary     float64
}

var demoUsers = []demoUser{
	{"maria.manager@example.com", "Maria Manager", models.RoleManager, "Human Resources", "HR Manager", models.NewDate(2018, time.February, 12), 7800},
	{"ana.employee@example.com", "Ana Employee", models.RoleEmployee, "Engineering", "Software Engineer", models.NewDate(2021, time.June, 1), 5200},
	{"carlos.employee@example.com", "Carlos Employee", models.RoleEmployee, "Engineering", "QA Analyst", models.NewDate(2022, time.September, 19), 4600},
}

// SeedDemoUsers creates a manager and two employees when the user store is empty.
// A store that already has users is left untouched.
func SeedDemoUsers(ctx context.Context, users repositories.UserRepository, hasher services.PasswordHasher, password string, logger *zap.Logger) error {
	existing, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("user store not empty, skipping demo seed", zap.Int("users", len(existing)))
		return nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	for _, d := range demoUsers {
		u := models.NewUser(d.email, hash, d.name, d.role)
		u.Department = d.department
		u.Position = d.position
		hired := d.hired
		u.HireDate = &hired
		salary := d.salary
		u.Salary = &salary

		if err := users.Create(ctx, u); err != nil {
			return fmt.Errorf("failed to create demo user %s: %w", d.email, err)
		}
	}

	logger.Info("demo users seeded", zap.Int("count", len(demoUsers)))
	return nil
}
