package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/jmoiron/sqlx"
)

const projectColumns = `id, title, description, technologies, github_url, live_url, featured, image,
		sort_order, status, created_at, updated_at`

// PostgresRepository implements project storage over sqlx (*sqlx.DB or *sqlx.Tx).
type PostgresRepository struct {
	db sqlx.ExtContext
}

func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func whereClause(filter models.ProjectFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.FeaturedOnly {
		conds = append(conds, "featured")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List orders by the manual sort order, then newest first.
func (r *PostgresRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	where, args := whereClause(filter)
	query := `SELECT ` + projectColumns + ` FROM projects` + where + ` ORDER BY sort_order ASC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var out []models.Project
	if err := sqlx.SelectContext(ctx, r.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Count(ctx context.Context, filter models.ProjectFilter) (int64, error) {
	where, args := whereClause(filter)

	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT count(*) FROM projects`+where, args...); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	query :=
		`INSERT INTO projects (title, description, technologies, github_url, live_url, featured, image, sort_order, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.Title, p.Description, p.Technologies, p.GithubURL, p.LiveURL, p.Featured, p.Image, p.Order, p.Status).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Project) (*models.Project, error) {
	query :=
		`UPDATE projects SET title = $2, description = $3, technologies = $4, github_url = $5, live_url = $6,
		     featured = $7, image = $8, sort_order = $9, status = $10, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Title, p.Description, p.Technologies, p.GithubURL, p.LiveURL, p.Featured, p.Image, p.Order, p.Status).
		Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
}

func (r *PostgresRepository) SetImage(ctx context.Context, id string, imageURL string) error {
	return r.exec(ctx, `UPDATE projects SET image = $2, updated_at = now() WHERE id = $1`, id, imageURL)
}

func (r *PostgresRepository) ExistsWithImage(ctx context.Context, url string) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, r.db, &exists,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE image = $1)`, url); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) CountByStatus(ctx context.Context) ([]models.Count, error) {
	var out []models.Count
	if err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT status AS key, count(*) AS count FROM projects GROUP BY status ORDER BY status`); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT count(*) FROM projects WHERE created_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]models.Project, error) {
	var out []models.Project
	if err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC LIMIT $1`, limit); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
