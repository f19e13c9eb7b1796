// Package seed prepares a fresh database: the admin account and the default
// site singletons. Running it twice changes nothing.
package seed

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/settings"
)

// AdminEnsurer creates the admin account when it is missing.
// *services.AuthService satisfies it.
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, password string) (*models.Account, bool, error)
}

type Seeder struct {
	admins   AdminEnsurer
	settings settings.Repository
	out      io.Writer
}

func NewSeeder(a AdminEnsurer, s settings.Repository, out io.Writer) *Seeder {
	return &Seeder{admins: a, settings: s, out: out}
}

func defaults() []struct {
	kind  string
	value any
} {
	return []struct {
		kind  string
		value any
	}{
		{models.SettingsAbout, models.DefaultAbout()},
		{models.SettingsFooter, models.DefaultFooter()},
		{models.SettingsContact, models.DefaultContactSettings()},
		{models.SettingsProjects, models.DefaultProjectsSettings()},
		{models.SettingsSkills, models.DefaultSkillsSettings()},
	}
}

// Run ensures the admin account and every singleton exist. Existing
// documents are left untouched.
func (s *Seeder) Run(ctx context.Context, email string, password []byte) error {
	acc, created, err := s.admins.EnsureAdmin(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("admin account: %w", err)
	}
	if created {
		fmt.Fprintf(s.out, "Created admin user %s\n", acc.Email)
	} else {
		fmt.Fprintf(s.out, "Admin user %s already exists\n", acc.Email)
	}

	for _, d := range defaults() {
		if err := s.settings.EnsureDefault(ctx, d.kind, d.value); err != nil {
			return fmt.Errorf("%s settings: %w", d.kind, err)
		}
	}
	fmt.Fprintf(s.out, "Ensured %d settings documents\n", len(defaults()))
	return nil
}
