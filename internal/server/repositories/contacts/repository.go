// Package contacts persists messages submitted through the contact form.
package contacts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Contact) (*models.Contact, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	// List returns messages newest first. A blank status matches all.
	List(ctx context.Context, status string, limit, offset int) ([]models.Contact, error)
	Count(ctx context.Context, status string) (int64, error)
	// UpdateStatus sets status and, when reply is non-nil, the reply text and time.
	UpdateStatus(ctx context.Context, id, status string, reply *string, repliedAt *time.Time) (*models.Contact, error)
	Delete(ctx context.Context, id string) error

	CountByStatus(ctx context.Context) ([]models.Count, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Contact, error)
}
