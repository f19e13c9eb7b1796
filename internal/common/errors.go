// Package common defines shared constants and sentinel errors used across
// the portfolio API layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrValidation     = errors.New("validation error")
	ErrUnavailable    = errors.New("service unavailable")

	// Auth errors. All of them match ErrorUnauthorized.
	ErrAccountNotFound     = fmt.Errorf("%w: account not found", ErrorUnauthorized)
	ErrAccountLocked       = fmt.Errorf("%w: account locked", ErrorUnauthorized)
	ErrAccountInactive     = fmt.Errorf("%w: account inactive", ErrorUnauthorized)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrorUnauthorized)
	ErrInvalidToken        = fmt.Errorf("%w: invalid token", ErrorUnauthorized)
	ErrTokenExpired        = fmt.Errorf("%w: token expired", ErrorUnauthorized)
	ErrMissingBearerHeader = fmt.Errorf("%w: missing bearer token", ErrorUnauthorized)
)
