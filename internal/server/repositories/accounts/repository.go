// Package accounts persists dashboard accounts and their login state.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
)

type Repository interface {
	// Create inserts a new account. A duplicate email yields common.ErrConflict.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// RecordFailedLogin atomically counts a failed attempt and locks the
	// account until now+lockFor once maxAttempts is reached. A lock that has
	// already expired restarts the count at one.
	RecordFailedLogin(ctx context.Context, id string, now time.Time, maxAttempts int, lockFor time.Duration) (int, *time.Time, error)
	// ResetLoginState clears the failure counter and lock and stamps the login time.
	ResetLoginState(ctx context.Context, id string, now time.Time) error

	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	// UpdateEmail changes the login email. A duplicate yields common.ErrConflict.
	UpdateEmail(ctx context.Context, id string, email string) error

	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.Account, error)
}
