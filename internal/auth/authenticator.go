// Package auth issues and validates session tokens and verifies user
// credentials.
package auth

import (
	"context"

	"github.com/mmynk/tripledger/internal/models"
)

// Authenticator registers and authenticates users. Implementations decide
// what a credential is.
type Authenticator interface {
	// Register creates an account for email. Returns ErrEmailExists when the
	// email is taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user owning email when credential matches,
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential before it is stored.
	ValidateCredential(credential string) error
}
