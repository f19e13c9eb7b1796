// Package payloads stores the raw bytes of uploaded assets. Metadata lives
// in the images and resumes repositories; a payload is addressed only by its
// storage key and never changes after Put.
package payloads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Get returns common.ErrorNotFound for an unknown key.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// NewStorageKey returns a fresh key under the given prefix, bucketed by day.
func NewStorageKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%02d/%v", prefix, now.Year(), now.Month(), now.Day(), uuid.New())
}
