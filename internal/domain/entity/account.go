// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the durable record keyed by email. It exists if and only if a
// signup or a verified external login has completed for that email, and there
// is exactly one Account per email.
type Account struct {
	ID           uuid.UUID // The unique identifier assigned by the store at creation.
	Email        string    // Unique, case-sensitive login identifier. Immutable once created.
	PasswordHash string    // The bcrypt hash of the local password. Empty for external-identity-only accounts.
	Profile      *Profile  // The completed profile, or nil until profile setup finishes.
	CreatedAt    time.Time // Timestamp of account creation, stamped by the store.
}

// HasLocalCredential reports whether a password login is possible for this
// account. Accounts provisioned through an external identity carry no hash.
func (a *Account) HasLocalCredential() bool {
	return a.PasswordHash != ""
}

// Profile is the user-supplied descriptive record whose presence on an
// Account is the sole signal of "profile complete".
type Profile struct {
	FullName    string
	Phone       string
	City        string
	State       string
	CompletedAt time.Time // Stamped by the store on every save, never client-supplied.
}

// ProfileFields carries the caller-supplied profile attributes for a save.
// CompletedAt is deliberately absent; the store owns that timestamp.
type ProfileFields struct {
	FullName string
	Phone    string
	City     string
	State    string
}
