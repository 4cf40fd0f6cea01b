// Package changes stores the append-only field change history.
package changes

import (
	"context"

	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

type Repository interface {
	// Create appends record and fills its ID and ChangedAt.
	Create(ctx context.Context, record *models.ChangeRecord) (*models.ChangeRecord, error)
	// ListByAccount returns the account's records, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]*models.ChangeRecord, error)
}
