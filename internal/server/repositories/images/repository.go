// Package images persists image metadata. Payload bytes live in a
// payloads.Store under each image's storage key.
package images

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, image *models.Asset) (*models.Asset, error)
	Get(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context, filter models.AssetFilter, limit, offset int) ([]models.Asset, error)
	Count(ctx context.Context, filter models.AssetFilter) (int64, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdateMetadata(ctx context.Context, image *models.Asset) error
}
