// Package accounts declares the persistence contract for accounts.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

// Repository stores accounts. Lookups return common.ErrNotFound when no row matches.
type Repository interface {
	// Create inserts account and fills its ID (when empty) and timestamps.
	// A taken email yields common.ErrDuplicateEmail.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// MarkVerified flips the account to verified and clears its pending code.
	MarkVerified(ctx context.Context, id string) error
}
