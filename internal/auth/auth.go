// Package auth turns bearer tokens into user ids.
package auth

import "context"

// Verifier resolves a bearer token to the uid it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
