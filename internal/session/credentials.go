package session

import (
	"grievanceportal/backend/internal/config"
	"grievanceportal/backend/internal/models"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	registrationNumberRe = regexp.MustCompile(`^RA[0-9]+$`)
	validate             = validator.New()
)

// Credentials is what a login form submits. UserType selects which of the
// two identity fields is used.
type Credentials struct {
	UserType           models.Role `json:"user_type"`
	RegistrationNumber string      `json:"registration_number,omitempty"`
	Email              string      `json:"email,omitempty"`
	Password           string      `json:"password"`
}

// Validate checks the credential shape before any lookup happens.
func (c *Credentials) Validate() error {
	switch c.UserType {
	case models.RoleStudent:
		c.RegistrationNumber = strings.TrimSpace(c.RegistrationNumber)
		if c.RegistrationNumber == "" {
			return models.Invalid("registration_number", "registration number is required")
		}
		if !registrationNumberRe.MatchString(c.RegistrationNumber) {
			return models.Invalid("registration_number", "registration number must start with RA followed by digits")
		}
		if len(c.Password) < config.StudentPasswordMinLength {
			return models.Invalid("password", "password must be at least %d characters", config.StudentPasswordMinLength)
		}
	case models.RoleAdmin:
		c.Email = strings.TrimSpace(c.Email)
		if err := validate.Var(c.Email, "required,email"); err != nil {
			return models.Invalid("email", "a valid email address is required")
		}
		if len(c.Password) < config.AdminPasswordMinLength {
			return models.Invalid("password", "password must be at least %d characters", config.AdminPasswordMinLength)
		}
	default:
		return models.Invalid("user_type", "user type must be student or admin")
	}
	return nil
}
