package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SkillInput struct {
	Category string             `json:"category" validate:"required,min=2,max=50"`
	Skills   []models.SkillItem `json:"skills" validate:"required,min=1,dive"`
	Order    int                `json:"order" validate:"min=0"`
	IsActive *bool              `json:"isActive"`
}

func (in SkillInput) apply(c *models.SkillCategory) {
	c.Category = strings.TrimSpace(in.Category)
	c.Skills = models.SkillItems(in.Skills)
	c.Order = in.Order
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

type SkillService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
}

func NewSkillService(db *sqlx.DB, m repomanager.RepositoryManager) *SkillService {
	return &SkillService{db: db, repomanager: m}
}

// List returns active categories, optionally narrowed to one category name.
func (s *SkillService) List(ctx context.Context, category string, limit int) ([]models.SkillCategory, error) {
	items, err := s.repomanager.Skills(s.db).List(ctx, category, true, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.SkillCategory{}
	}
	return items, nil
}

func (s *SkillService) Get(ctx context.Context, id string) (*models.SkillCategory, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Skills(s.db).Get(ctx, id)
}

func (s *SkillService) Create(ctx context.Context, in SkillInput) (*models.SkillCategory, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	c := &models.SkillCategory{IsActive: true}
	in.apply(c)
	return s.repomanager.Skills(s.db).Create(ctx, c)
}

func (s *SkillService) Update(ctx context.Context, id string, in SkillInput) (*models.SkillCategory, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	in.apply(c)
	return s.repomanager.Skills(s.db).Update(ctx, c)
}

func (s *SkillService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	return s.repomanager.Skills(s.db).Delete(ctx, id)
}

func (s *SkillService) AdditionalTechnologies(ctx context.Context) ([]string, error) {
	st, err := loadSingleton(ctx, s.repomanager.Settings(s.db), models.SettingsSkills, models.DefaultSkillsSettings())
	if err != nil {
		return nil, err
	}
	if st.AdditionalTechnologies == nil {
		return []string{}, nil
	}
	return st.AdditionalTechnologies, nil
}

// SetAdditionalTechnologies replaces the list, dropping blanks and duplicates.
func (s *SkillService) SetAdditionalTechnologies(ctx context.Context, techs []string) ([]string, error) {
	if techs == nil {
		return nil, newValidationError("technologies", "is required")
	}

	seen := make(map[string]bool, len(techs))
	clean := make([]string, 0, len(techs))
	for _, t := range techs {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		clean = append(clean, t)
	}

	st := models.SkillsSettings{AdditionalTechnologies: clean}
	if err := s.repomanager.Settings(s.db).Put(ctx, models.SettingsSkills, st); err != nil {
		return nil, err
	}
	return clean, nil
}
