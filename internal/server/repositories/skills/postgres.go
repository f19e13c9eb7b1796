package skills

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/jmoiron/sqlx"
)

const skillColumns = `id, category, items, sort_order, is_active, created_at, updated_at`

type PostgresRepository struct {
	db sqlx.ExtContext
}

func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, category string, activeOnly bool, limit int) ([]models.SkillCategory, error) {
	var conds []string
	var args []any

	if category != "" {
		args = append(args, category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if activeOnly {
		conds = append(conds, "is_active")
	}

	query := `SELECT ` + skillColumns + ` FROM skills`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY sort_order ASC, created_at ASC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var out []models.SkillCategory
	if err := sqlx.SelectContext(ctx, r.db, &out, query, args...); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	query := `SELECT count(*) FROM skills`
	if activeOnly {
		query += ` WHERE is_active`
	}

	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, query); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.SkillCategory, error) {
	var c models.SkillCategory
	if err := sqlx.GetContext(ctx, r.db, &c, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.SkillCategory) (*models.SkillCategory, error) {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO skills (category, items, sort_order, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.Category, c.Skills, c.Order, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.SkillCategory) (*models.SkillCategory, error) {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE skills SET category = $2, items = $3, sort_order = $4, is_active = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		c.ID, c.Category, c.Skills, c.Order, c.IsActive).
		Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
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
