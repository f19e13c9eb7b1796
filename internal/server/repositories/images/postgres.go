package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

const imageColumns = `id, filename, original_name, mime_type, size, storage_key, uploaded_by,
		project_id, is_active, created_at, updated_at`

// PostgresRepository implements image metadata storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(row scanner) (*models.Asset, error) {
	a := &models.Asset{Kind: models.AssetImage}
	var projectID sql.NullString

	err := row.Scan(&a.ID, &a.Filename, &a.OriginalName, &a.MimeType, &a.Size, &a.StorageKey, &a.UploadedBy,
		&projectID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if projectID.Valid {
		a.ProjectID = &projectID.String
	}
	a.URL = models.AssetURL(models.AssetImage, a.ID)
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, image *models.Asset) (*models.Asset, error) {
	query :=
		`INSERT INTO images (filename, original_name, mime_type, size, storage_key, uploaded_by, project_id, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		image.Filename, image.OriginalName, image.MimeType, image.Size, image.StorageKey, image.UploadedBy,
		image.ProjectID, image.IsActive).
		Scan(&image.ID, &image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	image.Kind = models.AssetImage
	image.URL = models.AssetURL(models.AssetImage, image.ID)
	return image, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Asset, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = $1`

	a, err := scanImage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func whereClause(filter models.AssetFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if filter.ProjectID != "" {
		args = append(args, filter.ProjectID)
		conds = append(conds, fmt.Sprintf("project_id = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns image metadata newest first.
func (r *PostgresRepository) List(ctx context.Context, filter models.AssetFilter, limit, offset int) ([]models.Asset, error) {
	where, args := whereClause(filter)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`SELECT %s FROM images%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		imageColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Asset
	for rows.Next() {
		a, err := scanImage(rows)
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

func (r *PostgresRepository) Count(ctx context.Context, filter models.AssetFilter) (int64, error) {
	where, args := whereClause(filter)

	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM images`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE images SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

// UpdateMetadata rewrites the mutable fields: filename and owning project.
func (r *PostgresRepository) UpdateMetadata(ctx context.Context, image *models.Asset) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE images SET filename = $2, project_id = $3, updated_at = now() WHERE id = $1`,
		image.ID, image.Filename, image.ProjectID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
