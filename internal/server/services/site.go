package services

import (
	"context"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/settings"
	"github.com/jmoiron/sqlx"
)

// loadSingleton returns the stored document of kind, writing def first if
// the document has never been stored.
func loadSingleton[T any](ctx context.Context, repo settings.Repository, kind string, def T) (*T, error) {
	if err := repo.EnsureDefault(ctx, kind, def); err != nil {
		return nil, err
	}
	var out T
	if err := repo.Get(ctx, kind, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func saveSingleton[T any](ctx context.Context, repo settings.Repository, kind string, v *T) (*T, error) {
	if err := validateStruct(v); err != nil {
		return nil, err
	}
	if err := repo.Put(ctx, kind, v); err != nil {
		return nil, err
	}
	return v, nil
}

// SiteService serves the about and footer singletons.
type SiteService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
}

func NewSiteService(db *sqlx.DB, m repomanager.RepositoryManager) *SiteService {
	return &SiteService{db: db, repomanager: m}
}

func (s *SiteService) About(ctx context.Context) (*models.About, error) {
	return loadSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsAbout, models.DefaultAbout())
}

func (s *SiteService) UpdateAbout(ctx context.Context, about *models.About) (*models.About, error) {
	return saveSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsAbout, about)
}

func (s *SiteService) Footer(ctx context.Context) (*models.Footer, error) {
	return loadSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsFooter, models.DefaultFooter())
}

func (s *SiteService) UpdateFooter(ctx context.Context, footer *models.Footer) (*models.Footer, error) {
	return saveSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsFooter, footer)
}
