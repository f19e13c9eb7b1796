package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/jmoiron/sqlx"
)

const contactColumns = `id, first_name, last_name, email, subject, message, status, ip_address, user_agent,
		replied_at, reply_message, created_at, updated_at`

type PostgresRepository struct {
	db sqlx.ExtContext
}

func NewPostgresRepository(db sqlx.ExtContext) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Contact) (*models.Contact, error) {
	if c.Status == "" {
		c.Status = models.ContactUnread
	}

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO contacts (first_name, last_name, email, subject, message, status, ip_address, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		c.FirstName, c.LastName, c.Email, c.Subject, c.Message, c.Status, c.IPAddress, c.UserAgent).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Contact, error) {
	var c models.Contact
	if err := sqlx.GetContext(ctx, r.db, &c, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Contact, error) {
	var out []models.Contact
	var err error

	if status == "" {
		err = sqlx.SelectContext(ctx, r.db, &out,
			`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
			limit, offset)
	} else {
		err = sqlx.SelectContext(ctx, r.db, &out,
			`SELECT `+contactColumns+` FROM contacts WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
			status, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Count(ctx context.Context, status string) (int64, error) {
	var n int64
	var err error

	if status == "" {
		err = sqlx.GetContext(ctx, r.db, &n, `SELECT count(*) FROM contacts`)
	} else {
		err = sqlx.GetContext(ctx, r.db, &n, `SELECT count(*) FROM contacts WHERE status = $1`, status)
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string, reply *string, repliedAt *time.Time) (*models.Contact, error) {
	var c models.Contact
	err := sqlx.GetContext(ctx, r.db, &c,
		`UPDATE contacts
		 SET status = $2,
		     reply_message = COALESCE($3, reply_message),
		     replied_at = COALESCE($4, replied_at),
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+contactColumns,
		id, status, reply, repliedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
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

func (r *PostgresRepository) CountByStatus(ctx context.Context) ([]models.Count, error) {
	var out []models.Count
	if err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT status AS key, count(*) AS count FROM contacts GROUP BY status ORDER BY status`); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	if err := sqlx.GetContext(ctx, r.db, &n, `SELECT count(*) FROM contacts WHERE created_at >= $1`, since); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]models.Contact, error) {
	var out []models.Contact
	if err := sqlx.SelectContext(ctx, r.db, &out,
		`SELECT `+contactColumns+` FROM contacts ORDER BY created_at DESC LIMIT $1`, limit); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
