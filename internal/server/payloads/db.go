package payloads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
)

// DBStore keeps payloads in the asset_payloads table.
type DBStore struct {
	db dbx.DBTX
}

func NewDBStore(db dbx.DBTX) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Put(ctx context.Context, key string, data []byte, _ string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO asset_payloads (storage_key, data) VALUES ($1, $2)`, key, data)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *DBStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM asset_payloads WHERE storage_key = $1`, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return data, nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM asset_payloads WHERE storage_key = $1`, key); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
