// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"gatehouse/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to register a new account.
type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginInput defines the data required for a password login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleAuthInput carries the opaque ID token from Google Sign-In.
type GoogleAuthInput struct {
	Credential string `json:"credential" validate:"required"`
}

// SaveProfileInput defines the data required to complete the profile step.
// The structural rules here are deliberately loose; exact per-field formats
// are a pluggable policy of the delivery layer.
type SaveProfileInput struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullName" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
}

// --- Output DTOs ---

// SignupOutput returns the newly created account's identifier.
type SignupOutput struct {
	Email string
}

// LoginOutput returns the authenticated email and its current profile, which
// may be nil when the profile step has not been completed.
type LoginOutput struct {
	Email   string
	Profile *entity.Profile
}

// GoogleAuthOutput returns the verified identity and the account's profile.
type GoogleAuthOutput struct {
	Email   string
	Name    string
	Profile *entity.Profile
}

// AuthUsecase defines the interface for account and login operations.
// This is the contract that the delivery layer depends on.
type AuthUsecase interface {
	// Signup creates an account with a locally hashed credential.
	Signup(ctx context.Context, input *SignupInput) (*SignupOutput, error)

	// Login authenticates a local password against the stored hash.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// GoogleAuth verifies an external identity token and establishes the
	// account, auto-provisioning one without a local credential when the
	// verified email is new (upsert-on-verify).
	GoogleAuth(ctx context.Context, input *GoogleAuthInput) (*GoogleAuthOutput, error)

	// SaveProfile overwrites the account's profile.
	SaveProfile(ctx context.Context, input *SaveProfileInput) (*entity.Profile, error)

	// ListAccounts returns every account for debug inspection. Callers must
	// redact credential material.
	ListAccounts(ctx context.Context) ([]*entity.Account, error)
}
