// Package resumes persists résumé metadata and the single-active selection.
package resumes

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, resume *models.Asset) (*models.Asset, error)
	Get(ctx context.Context, id string) (*models.Asset, error)
	// GetActive returns the active résumé or common.ErrorNotFound.
	GetActive(ctx context.Context) (*models.Asset, error)
	List(ctx context.Context, limit, offset int) ([]models.Asset, error)
	Count(ctx context.Context) (int64, error)

	// LockActivation serializes activations. Only meaningful inside a transaction.
	LockActivation(ctx context.Context) error
	DeactivateAll(ctx context.Context) error
	Activate(ctx context.Context, id string) error

	// DeleteInactive removes the résumé unless it is active and returns its
	// storage key. common.ErrorNotFound means nothing was deleted.
	DeleteInactive(ctx context.Context, id string) (string, error)
}
