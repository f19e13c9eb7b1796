// Package projects persists portfolio projects.
package projects

import (
	"context"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	Count(ctx context.Context, filter models.ProjectFilter) (int64, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	SetImage(ctx context.Context, id string, imageURL string) error
	// ExistsWithImage reports whether any project points its image at url.
	ExistsWithImage(ctx context.Context, url string) (bool, error)

	CountByStatus(ctx context.Context) ([]models.Count, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Project, error)
}
