// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers
// and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"gatehouse/internal/domain/entity"
)

// Domain-specific errors for account persistence. The application layer
// handles these outcomes without depending on storage-specific errors; any
// other error from the store means the store itself was unreachable.
var (
	// ErrAccountNotFound is returned when no account exists for an email.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountExists is returned when creation would duplicate an email.
	ErrAccountExists = errors.New("account already exists")
)

// AccountRepository defines the standard operations for account persistence.
// Every mutating operation durably persists before returning: a nil error
// implies the write survives a process crash.
type AccountRepository interface {
	// Create persists a new account. The store assigns ID and CreatedAt.
	// Fails with ErrAccountExists if an account with that email exists.
	Create(ctx context.Context, account *entity.Account) error

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// SetProfile overwrites the profile on the account, stamping CompletedAt
	// with the current time. There is no merge and no history; concurrent
	// saves resolve last-write-wins.
	SetProfile(ctx context.Context, email string, fields entity.ProfileFields) (*entity.Profile, error)

	// List returns every account. Intended for debug/inspection; callers must
	// redact credential material before exposing the result.
	List(ctx context.Context) ([]*entity.Account, error)
}
