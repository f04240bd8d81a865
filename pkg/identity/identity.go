// Package identity wraps the hosted identity provider's REST surface.
// Authentication itself is fully delegated; this package only exposes the
// handful of operations the workspace needs and maps the provider's error
// codes onto fixed user-facing messages.
package identity

import "context"

// Account is the opaque authenticated-identity handle returned by the
// provider.
type Account struct {
	UID           string
	Email         string
	EmailVerified bool
	IDToken       string
	DisplayName   string
	PhotoURL      string
}

// Provider describes the identity operations consumed by the auth service.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (Account, error)
	SignIn(ctx context.Context, email, password string) (Account, error)
	SignInWithIDP(ctx context.Context, idToken string) (Account, error)
	SendEmailVerification(ctx context.Context, idToken string) error
	SendPasswordReset(ctx context.Context, email string) error
}

// Error is a provider failure carrying the provider's error code.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return "identity provider: " + e.Code
}

// Known provider error codes.
const (
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeEmailNotFound      = "EMAIL_NOT_FOUND"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	CodeInvalidEmail       = "INVALID_EMAIL"
)

// UserMessage maps the provider code onto a fixed user-facing message,
// with a generic fallback for unrecognised codes.
func (e *Error) UserMessage() string {
	switch e.Code {
	case CodeEmailExists:
		return "User already exists. Sign in?"
	case CodeEmailNotFound, CodeInvalidPassword, CodeInvalidCredentials:
		return "Password or Email Incorrect"
	case CodeInvalidEmail:
		return "Invalid email format."
	default:
		return "Authentication failed. Please try again."
	}
}
