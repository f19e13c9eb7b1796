// Package skills persists skill categories.
package skills

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	// List returns categories ordered by sort order. A blank category matches
	// all; limit <= 0 means no limit.
	List(ctx context.Context, category string, activeOnly bool, limit int) ([]models.SkillCategory, error)
	Count(ctx context.Context, activeOnly bool) (int64, error)
	Get(ctx context.Context, id string) (*models.SkillCategory, error)
	Create(ctx context.Context, c *models.SkillCategory) (*models.SkillCategory, error)
	Update(ctx context.Context, c *models.SkillCategory) (*models.SkillCategory, error)
	Delete(ctx context.Context, id string) error
}
