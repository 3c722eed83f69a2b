package core

import "context"

// IdentityVerifier validates a bearer credential against the external
// identity provider and yields the verified email address. The verified
// email is trusted over any client-supplied email field.
type IdentityVerifier interface {
	Verify(ctx context.Context, bearerToken string) (email string, err error)
}
