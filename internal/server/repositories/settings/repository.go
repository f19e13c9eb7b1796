// Package settings stores the site's singleton documents (about, footer,
// contact/projects/skills section settings) as JSONB keyed by kind.
package settings

import "context"

type Repository interface {
	// Get decodes the stored document of the given kind into dest.
	// Returns common.ErrorNotFound when the kind was never written.
	Get(ctx context.Context, kind string, dest any) error
	// EnsureDefault stores value only if nothing is stored for kind yet.
	EnsureDefault(ctx context.Context, kind string, value any) error
	// Put replaces the stored document for kind.
	Put(ctx context.Context, kind string, value any) error
}
