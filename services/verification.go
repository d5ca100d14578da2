package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/servicehub-pro/servicehub-api/apperr"
)

// DefaultVerificationCode is the shared code the simulated SMS channel
// accepts.
const DefaultVerificationCode = "123456"

// Verifier proves that the caller controls phone.
type Verifier interface {
	Verify(ctx context.Context, phone, code string) error
}

// StaticCodeVerifier accepts one fixed code for every phone number.
type StaticCodeVerifier struct {
	Code string
}

func (v StaticCodeVerifier) Verify(_ context.Context, _ string, code string) error {
	want := v.Code
	if want == "" {
		want = DefaultVerificationCode
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(code)), []byte(want)) != 1 {
		return apperr.New(apperr.CodeVerificationFailed, "invalid verification code")
	}
	return nil
}
