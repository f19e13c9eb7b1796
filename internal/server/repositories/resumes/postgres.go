package resumes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

const resumeColumns = `id, filename, original_name, mime_type, size, storage_key, is_active, created_at, updated_at`

// activationLockKey identifies the advisory lock taken around activation.
const activationLockKey int64 = 0x7265736d // "resm"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResume(row scanner) (*models.Asset, error) {
	a := &models.Asset{Kind: models.AssetResume}
	err := row.Scan(&a.ID, &a.Filename, &a.OriginalName, &a.MimeType, &a.Size, &a.StorageKey, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.URL = models.AssetURL(models.AssetResume, a.ID)
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, resume *models.Asset) (*models.Asset, error) {
	query :=
		`INSERT INTO resumes (filename, original_name, mime_type, size, storage_key, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		resume.Filename, resume.OriginalName, resume.MimeType, resume.Size, resume.StorageKey, resume.IsActive).
		Scan(&resume.ID, &resume.CreatedAt, &resume.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	resume.Kind = models.AssetResume
	resume.URL = models.AssetURL(models.AssetResume, resume.ID)
	return resume, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Asset, error) {
	a, err := scanResume(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Asset, error) {
	return r.getOne(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id)
}

func (r *PostgresRepository) GetActive(ctx context.Context) (*models.Asset, error) {
	return r.getOne(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE is_active LIMIT 1`)
}

// List returns résumé metadata newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]models.Asset, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Asset
	for rows.Next() {
		a, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM resumes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) LockActivation(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, activationLockKey); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeactivateAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE resumes SET is_active = FALSE, updated_at = now() WHERE is_active`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Activate(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE resumes SET is_active = TRUE, updated_at = now() WHERE id = $1`, id)
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

func (r *PostgresRepository) DeleteInactive(ctx context.Context, id string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM resumes WHERE id = $1 AND NOT is_active RETURNING storage_key`, id).Scan(&key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return key, nil
}
