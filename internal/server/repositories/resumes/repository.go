// Package resumes declares the persistence contract for résumés.
package resumes

import (
	"context"

	"github.com/dmitrijs2005/resumehub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, resume *models.Resume) (*models.Resume, error)
	// GetByID returns the résumé with its author's profile name.
	GetByID(ctx context.Context, id string) (*models.Resume, error)
	// GetByIDForUpdate reads and locks the résumé row; AuthorName is not filled.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Resume, error)
	List(ctx context.Context, order models.ResumeOrder) ([]*models.Resume, error)
	UpdateFields(ctx context.Context, id string, fields models.Fields) error
	Delete(ctx context.Context, id string) error
}
