package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/upb/hr-platform/models"
)

// Claims represents the claim set carried by an access token.
// The subject identifier travels in the registered "sub" claim.
type Claims struct {
	Email string          `json:"email"`
	Role  models.UserRole `json:"role"`
	Name  string          `json:"name"`
	jwt.RegisteredClaims
}

// SubjectID parses the subject claim
func (c *Claims) SubjectID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid sub claim: %w", err)
	}
	return id, nil
}

// Principal converts verified claims into the request principal
func (c *Claims) Principal() (models.Principal, error) {
	id, err := c.SubjectID()
	if err != nil {
		return models.Principal{}, err
	}
	return models.NewPrincipal(id, c.Email, c.Role, c.Name), nil
}

// validateShape checks the custom claims once the signature and expiry are known good
func (c *Claims) validateShape() error {
	if _, err := c.SubjectID(); err != nil {
		return err
	}
	if c.Email == "" {
		return fmt.Errorf("missing email claim")
	}
	if !c.Role.IsValid() {
		return fmt.Errorf("unknown role claim %q", c.Role)
	}
	if c.IssuedAt == nil {
		return fmt.Errorf("missing iat claim")
	}
	return nil
}
