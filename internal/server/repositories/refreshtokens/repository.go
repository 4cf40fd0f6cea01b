// Package refreshtokens declares the server-side store of the single trusted
// refresh token per account, with PostgreSQL and Redis implementations.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

// Repository keeps at most one refresh token per account. Saving replaces
// whatever was stored before.
type Repository interface {
	// Save stores token for accountID with an expiry of now+validity,
	// overwriting any previous token.
	Save(ctx context.Context, accountID string, token string, validity time.Duration) error

	// Get returns the current unexpired token of accountID or common.ErrNotFound.
	Get(ctx context.Context, accountID string) (*models.RefreshToken, error)

	// Rotate replaces the stored token with next only if it still equals
	// current. Otherwise it returns common.ErrNotFound and changes nothing.
	Rotate(ctx context.Context, accountID string, current string, next string, validity time.Duration) error

	// Delete removes the account's token. Deleting a missing token is not an error.
	Delete(ctx context.Context, accountID string) error
}
