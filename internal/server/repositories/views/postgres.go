package views

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/jmoiron/sqlx"
)

const viewColumns = `id, ip_address, user_agent, referrer, page, session_id, is_unique, viewed_at`

type PostgresRepository struct {
	db sqlx.ExtContext
}

func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.PortfolioView) (*models.PortfolioView, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO portfolio_views (ip_address, user_agent, referrer, page, session_id, is_unique)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, viewed_at`,
		v.IPAddress, v.UserAgent, v.Referrer, v.Page, v.SessionID, v.IsUnique).
		Scan(&v.ID, &v.ViewedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) ExistsSince(ctx context.Context, ip, sessionID string, since time.Time) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, r.db, &exists,
		`SELECT EXISTS (
		     SELECT 1 FROM portfolio_views
		     WHERE ip_address = $1 AND session_id = $2 AND viewed_at >= $3
		 )`,
		ip, sessionID, since)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) CountSince(ctx context.Context, since time.Time, uniqueOnly bool) (int64, error) {
	query := `SELECT count(*) FROM portfolio_views WHERE viewed_at >= $1`
	if uniqueOnly {
		query += ` AND is_unique`
	}

	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, query, since); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) PageCounts(ctx context.Context, since time.Time) ([]models.Count, error) {
	var out []models.Count
	err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT page AS key, count(*) AS count FROM portfolio_views
		 WHERE viewed_at >= $1
		 GROUP BY page
		 ORDER BY count DESC, page ASC`,
		since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) DailyCounts(ctx context.Context, since time.Time) ([]DailyCount, error) {
	var out []DailyCount
	err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT date_trunc('day', viewed_at) AS day, count(*) AS count FROM portfolio_views
		 WHERE viewed_at >= $1
		 GROUP BY day
		 ORDER BY day ASC`,
		since)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) TopReferrers(ctx context.Context, since time.Time, limit int) ([]models.Count, error) {
	var out []models.Count
	err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT referrer AS key, count(*) AS count FROM portfolio_views
		 WHERE viewed_at >= $1 AND referrer <> ''
		 GROUP BY referrer
		 ORDER BY count DESC, referrer ASC
		 LIMIT $2`,
		since, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]models.PortfolioView, error) {
	var out []models.PortfolioView
	if err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT `+viewColumns+` FROM portfolio_views ORDER BY viewed_at DESC LIMIT $1`, limit); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
