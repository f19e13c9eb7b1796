package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/auth"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

const (
	minPasswordRunes = 6
	// bcrypt ignores input past this many bytes and refuses longer passwords.
	maxPasswordBytes = 72
)

// checkPassword applies the password length rules shared by registration
// and password changes.
func checkPassword(field, password string) error {
	if utf8.RuneCountInString(password) < minPasswordRunes {
		return newValidationError(field, "must be at least 6 characters")
	}
	if len(password) > maxPasswordBytes {
		return newValidationError(field, "must be at most 72 bytes")
	}
	return nil
}

// RegisterInput is the account registration request.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"omitempty,min=2,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,min=2,max=50"`
	Role      string `json:"role" validate:"omitempty,oneof=admin user"`
}

// LoginResult is a freshly issued session token and the account it belongs to.
type LoginResult struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"user"`
}

// AuthService hashes passwords, issues and verifies session tokens and runs
// the failed-login lockout.
type AuthService struct {
	db            *sqlx.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	maxAttempts   int
	lockDuration  time.Duration
	now           func() time.Time
}

func NewAuthService(db *sqlx.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		maxAttempts:   cfg.MaxLoginAttempts,
		lockDuration:  cfg.LockDuration,
		now:           time.Now,
	}
}

// Register creates an account. The email is stored in normalized form and
// must not be taken by another account, regardless of case.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	in.Email = models.NormalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := checkPassword("password", in.Password); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	repo := s.repomanager.Accounts(s.db)

	_, err := repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: email already registered", common.ErrConflict)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc, err := repo.Create(ctx, &models.Account{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("%w: email already registered", common.ErrConflict)
		}
		return nil, err
	}
	return acc, nil
}

// Login checks the password and issues a session token.
//
// A locked account is refused before the password is looked at. A wrong
// password counts towards the lockout threshold; a correct one resets it.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Accounts(s.db)
	now := s.now()

	acc, err := repo.GetByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}

	if acc.IsLocked(now) {
		return nil, common.ErrAccountLocked
	}
	if !acc.IsActive {
		return nil, common.ErrAccountInactive
	}

	ok, err := auth.CheckPassword(acc.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		if _, _, err := repo.RecordFailedLogin(ctx, acc.ID, now, s.maxAttempts, s.lockDuration); err != nil {
			return nil, fmt.Errorf("record failed login: %w", err)
		}
		return nil, common.ErrInvalidCredentials
	}

	if err := repo.ResetLoginState(ctx, acc.ID, now); err != nil {
		return nil, fmt.Errorf("reset login state: %w", err)
	}
	acc.FailedAttempts = 0
	acc.LockUntil = nil
	acc.LastLogin = &now

	token, err := s.issueToken(acc)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Account: acc}, nil
}

func (s *AuthService) issueToken(acc *models.Account) (string, error) {
	token, err := auth.GenerateToken(auth.Subject{AccountID: acc.ID, Email: acc.Email, Role: acc.Role},
		s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// Verify resolves a session token to a live, active account.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.Account, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	acc, err := s.repomanager.Accounts(s.db).GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrInvalidToken
		}
		return nil, err
	}
	if !acc.IsActive {
		return nil, common.ErrAccountInactive
	}
	return acc, nil
}

// RequireRole is Verify plus a role check.
func (s *AuthService) RequireRole(ctx context.Context, token, role string) (*models.Account, error) {
	acc, err := s.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	if acc.Role != role {
		return nil, fmt.Errorf("%w: %s role required", common.ErrForbidden, role)
	}
	return acc, nil
}

// Profile returns the account behind an authenticated request.
func (s *AuthService) Profile(ctx context.Context, accountID string) (*models.Account, error) {
	acc, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	return acc, nil
}

// ChangePassword replaces the password after confirming the current one.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	repo := s.repomanager.Accounts(s.db)

	acc, err := repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrAccountNotFound
		}
		return err
	}

	ok, err := auth.CheckPassword(acc.PasswordHash, current)
	if err != nil {
		return fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: current password is incorrect", common.ErrInvalidCredentials)
	}

	if err := checkPassword("newPassword", next); err != nil {
		return err
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return repo.UpdatePassword(ctx, acc.ID, hash)
}

// ChangeEmail moves the account to a new login email.
func (s *AuthService) ChangeEmail(ctx context.Context, accountID, newEmail string) (*models.Account, error) {
	email := models.NormalizeEmail(newEmail)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, newValidationError("email", "must be a valid email")
	}

	repo := s.repomanager.Accounts(s.db)

	other, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil && other.ID != accountID:
		return nil, fmt.Errorf("%w: email already in use", common.ErrConflict)
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		return nil, err
	}

	if err := repo.UpdateEmail(ctx, accountID, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	return repo.GetByID(ctx, accountID)
}

// EnsureAdmin creates the admin account unless one with that email exists.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*models.Account, bool, error) {
	acc, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, models.NormalizeEmail(email))
	if err == nil {
		return acc, false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, false, err
	}

	acc, err = s.Register(ctx, RegisterInput{
		Email:     email,
		Password:  password,
		FirstName: "Admin",
		LastName:  "User",
		Role:      models.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	return acc, true, nil
}
