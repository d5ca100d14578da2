// Package session holds the registration and login gate: building new
// users from submitted details and checking credentials against existing
// ones.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Details is what a prospective customer or technician submits at signup.
// Admin accounts cannot be registered.
type Details struct {
	Name     string      `json:"name"               validate:"required,min=1,max=100"`
	Email    string      `json:"email"              validate:"required,email,max=255"`
	Phone    string      `json:"phone"              validate:"required,numeric,min=7,max=15"`
	Role     models.Role `json:"role"               validate:"required,oneof=Customer Technician"`
	Password string      `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	UPIID    string      `json:"upi_id,omitempty"   validate:"omitempty,max=100"`

	// Customer
	Address string `json:"address,omitempty" validate:"max=255"`
	Plan    string `json:"plan,omitempty"    validate:"max=50"` // tier chosen at signup

	// Technician
	Specialty string `json:"specialty,omitempty" validate:"max=100"`
	Location  string `json:"location,omitempty"  validate:"max=100"`
}

// Normalize trims whitespace and lowercases the email.
func (d Details) Normalize() Details {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = NormalizeEmail(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.UPIID = strings.TrimSpace(d.UPIID)
	d.Address = strings.TrimSpace(d.Address)
	d.Plan = strings.TrimSpace(d.Plan)
	d.Specialty = strings.TrimSpace(d.Specialty)
	d.Location = strings.TrimSpace(d.Location)
	return d
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks v's validate tags and reports the first failing field as
// a validation error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("%v", err)
	}
	return apperr.Validation("%s", formatFieldError(verrs[0]))
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

// BuildUser validates d and constructs the user it describes. Technicians
// start unverified with no jobs and no rating. The subscription is left
// unset; the ledger assigns it once the chosen plan is paid for.
func BuildUser(id string, d Details, now time.Time) (models.User, error) {
	d = d.Normalize()
	if err := Validate(d); err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Role:      d.Role,
		CreatedAt: now,
	}
	if d.UPIID != "" {
		user.UPIID = &d.UPIID
	}
	if d.Password != "" {
		hash, err := HashPassword(d.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	switch d.Role {
	case models.RoleCustomer:
		user.Address = d.Address
	case models.RoleTechnician:
		user.Specialty = d.Specialty
		user.Location = d.Location
		user.Verified = false
		user.JobsCompleted = 0
		user.Rating = 0
	}
	return user, nil
}
