// Package views records portfolio page views and answers the analytics
// aggregates over them.
package views

import (
	"context"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type DailyCount struct {
	Day   time.Time `db:"day" json:"_id"`
	Count int64     `db:"count" json:"count"`
}

type Repository interface {
	Create(ctx context.Context, v *models.PortfolioView) (*models.PortfolioView, error)
	// ExistsSince reports whether the visitor (ip, session) was seen at or after since.
	ExistsSince(ctx context.Context, ip, sessionID string, since time.Time) (bool, error)
	CountSince(ctx context.Context, since time.Time, uniqueOnly bool) (int64, error)
	PageCounts(ctx context.Context, since time.Time) ([]models.Count, error)
	DailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error)
	TopReferrers(ctx context.Context, since time.Time, limit int) ([]models.Count, error)
	Recent(ctx context.Context, limit int) ([]models.PortfolioView, error)
}
