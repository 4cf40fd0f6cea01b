// Package profiles declares the persistence contract for account profiles.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error)
	// GetByAccountIDForUpdate reads the profile and locks its row until the
	// surrounding transaction ends.
	GetByAccountIDForUpdate(ctx context.Context, accountID string) (*models.Profile, error)
	UpdateFields(ctx context.Context, accountID string, fields models.Fields) error
}
