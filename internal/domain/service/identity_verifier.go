package service

import "context"

// Identity is the verified result of an external identity token.
type Identity struct {
	Email       string // The email the provider attests to.
	DisplayName string // The provider's display name for the user.
}

// IdentityVerifier converts an opaque external token into a confirmed
// email and display name.
//
// Trust boundary: the verifier is trusted blindly. The returned email is
// treated as already confirmed-owned by the caller; no additional proof is
// required. Strengthening this (e.g. signature validation against provider
// keys) is a deliberate behavior change, not a bug fix.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}
