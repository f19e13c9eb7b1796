package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, kind string, dest any) error {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM site_settings WHERE kind = $1`, kind).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s settings: %w", kind, err)
	}
	return nil
}

func (r *PostgresRepository) EnsureDefault(ctx context.Context, kind string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", kind, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO site_settings (kind, data) VALUES ($1, $2) ON CONFLICT (kind) DO NOTHING`,
		kind, data)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Put(ctx context.Context, kind string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", kind, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO site_settings (kind, data) VALUES ($1, $2)
		 ON CONFLICT (kind) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		kind, data)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
