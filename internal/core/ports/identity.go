package ports

import (
	"context"
	"time"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

// IdentityVerifier validates a raw bearer token from the identity provider.
// Failures are classified: domain.ErrTokenExpired, domain.ErrTokenRevoked,
// or domain.ErrTokenInvalid.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.Identity, error)
}

// TokenRevoker puts a token id on the revocation list for ttl. Subsequent
// Verify calls for that token fail with domain.ErrTokenRevoked.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}
