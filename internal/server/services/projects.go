package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ProjectInput is the writable part of a project.
type ProjectInput struct {
	Title        string   `json:"title" validate:"required,min=3,max=100"`
	Description  string   `json:"description" validate:"required,min=10,max=500"`
	Technologies []string `json:"technologies" validate:"required,min=1,dive,required"`
	GithubURL    string   `json:"githubUrl" validate:"omitempty,http_url"`
	LiveURL      string   `json:"liveUrl" validate:"omitempty,http_url"`
	Featured     bool     `json:"featured"`
	Image        string   `json:"image"`
	Order        int      `json:"order" validate:"min=0"`
	Status       string   `json:"status" validate:"omitempty,oneof=active inactive archived"`
}

func (in ProjectInput) apply(p *models.Project) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.Technologies = models.StringList(in.Technologies)
	p.GithubURL = in.GithubURL
	p.LiveURL = in.LiveURL
	p.Featured = in.Featured
	p.Image = in.Image
	p.Order = in.Order
	p.Status = in.Status
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
}

type ProjectService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	blobs       *BlobService
}

func NewProjectService(db *sqlx.DB, m repomanager.RepositoryManager, blobs *BlobService) *ProjectService {
	return &ProjectService{db: db, repomanager: m, blobs: blobs}
}

// List returns projects by order, newest first within the same order.
// The status "all" disables status filtering; an empty status means active.
func (s *ProjectService) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	switch filter.Status {
	case "":
		filter.Status = models.ProjectActive
	case "all":
		filter.Status = ""
	}
	items, err := s.repomanager.Projects(s.db).List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Project{}
	}
	return items, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Projects(s.db).Get(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*models.Project, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	p := &models.Project{}
	in.apply(p)
	return s.repomanager.Projects(s.db).Create(ctx, p)
}

func (s *ProjectService) Update(ctx context.Context, id string, in ProjectInput) (*models.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	in.apply(p)
	return s.repomanager.Projects(s.db).Update(ctx, p)
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return s.repomanager.Projects(s.db).Delete(ctx, id)
}

// UploadImage stores an image owned by the project and points the project
// at it.
func (s *ProjectService) UploadImage(ctx context.Context, projectID string, in UploadInput) (*models.Project, *models.Asset, error) {
	p, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	in.Kind = models.AssetImage
	in.ProjectID = &p.ID
	img, err := s.blobs.Upload(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	if err := s.repomanager.Projects(s.db).SetImage(ctx, p.ID, img.URL); err != nil {
		return nil, nil, fmt.Errorf("attach image: %w", err)
	}
	p.Image = img.URL
	return p, img, nil
}

func (s *ProjectService) Settings(ctx context.Context) (*models.ProjectsSettings, error) {
	return loadSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsProjects, models.DefaultProjectsSettings())
}

func (s *ProjectService) UpdateSettings(ctx context.Context, in *models.ProjectsSettings) (*models.ProjectsSettings, error) {
	return saveSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsProjects, in)
}
