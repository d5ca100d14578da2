package session

import (
	"github.com/servicehub-pro/servicehub-api/apperr"
	"github.com/servicehub-pro/servicehub-api/models"
)

// Credentials identify a login attempt. Password is ignored by
// authenticators that do not check secrets.
type Credentials struct {
	Email    string      `json:"email"              validate:"required,email,max=255"`
	Role     models.Role `json:"role"               validate:"required,oneof=Customer Technician Admin"`
	Password string      `json:"password,omitempty" validate:"max=128"`
}

// Authenticator decides whether creds prove the identity of user. user has
// already been matched on email and role.
type Authenticator interface {
	Authenticate(user models.User, creds Credentials) error
}

// LookupAuthenticator accepts any user matched on email and role. Identity
// is then proven by the phone verification step alone.
type LookupAuthenticator struct{}

func (LookupAuthenticator) Authenticate(models.User, Credentials) error {
	return nil
}

// PasswordAuthenticator requires the password to match the stored argon2id
// hash. Users registered without a password cannot log in.
type PasswordAuthenticator struct{}

func (PasswordAuthenticator) Authenticate(user models.User, creds Credentials) error {
	if user.PasswordHash == "" || creds.Password == "" {
		return apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}
	ok, err := VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil || !ok {
		return apperr.New(apperr.CodeUnauthorized, "invalid credentials")
	}
	return nil
}
