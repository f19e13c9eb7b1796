package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

const (
	recentWindow        = 7 * 24 * time.Hour
	defaultRecentLimit  = 10
	maxRecentLimit      = 50
	healthCheckDeadline = 2 * time.Second
)

type ProjectStats struct {
	Total     int64          `json:"total"`
	Featured  int64          `json:"featured"`
	ByStatus  []models.Count `json:"byStatus"`
	NewRecent int64          `json:"newThisWeek"`
}

type ContactStats struct {
	Total     int64          `json:"total"`
	Unread    int64          `json:"unread"`
	ByStatus  []models.Count `json:"byStatus"`
	NewRecent int64          `json:"newThisWeek"`
}

type DashboardStats struct {
	Projects ProjectStats `json:"projects"`
	Skills   int64        `json:"skills"`
	Contacts ContactStats `json:"contacts"`
	Users    int64        `json:"users"`
	Images   int64        `json:"images"`
	Resumes  int64        `json:"resumes"`
	Views    struct {
		Total  int64 `json:"total"`
		Unique int64 `json:"unique"`
	} `json:"views"`
}

type RecentActivity struct {
	Projects []models.Project       `json:"projects"`
	Contacts []models.Contact       `json:"contacts"`
	Users    []models.Account       `json:"users"`
	Views    []models.PortfolioView `json:"views"`
}

type HealthReport struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	LatencyMS int64     `json:"latencyMs"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

type DashboardService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	started     time.Time
	now         func() time.Time
	ping        func(ctx context.Context) error
}

func NewDashboardService(db *sqlx.DB, m repomanager.RepositoryManager) *DashboardService {
	return &DashboardService{
		db:          db,
		repomanager: m,
		started:     time.Now(),
		now:         time.Now,
		ping:        db.PingContext,
	}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	since := s.now().Add(-recentWindow)
	out := &DashboardStats{}
	var err error

	projects := s.repomanager.Projects(s.db)
	if out.Projects.Total, err = projects.Count(ctx, models.ProjectFilter{}); err != nil {
		return nil, err
	}
	if out.Projects.Featured, err = projects.Count(ctx, models.ProjectFilter{FeaturedOnly: true}); err != nil {
		return nil, err
	}
	if out.Projects.ByStatus, err = projects.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if out.Projects.NewRecent, err = projects.CountCreatedSince(ctx, since); err != nil {
		return nil, err
	}

	if out.Skills, err = s.repomanager.Skills(s.db).Count(ctx, true); err != nil {
		return nil, err
	}

	contacts := s.repomanager.Contacts(s.db)
	if out.Contacts.Total, err = contacts.Count(ctx, ""); err != nil {
		return nil, err
	}
	if out.Contacts.Unread, err = contacts.Count(ctx, models.ContactUnread); err != nil {
		return nil, err
	}
	if out.Contacts.ByStatus, err = contacts.CountByStatus(ctx); err != nil {
		return nil, err
	}
	if out.Contacts.NewRecent, err = contacts.CountCreatedSince(ctx, since); err != nil {
		return nil, err
	}

	if out.Users, err = s.repomanager.Accounts(s.db).Count(ctx); err != nil {
		return nil, err
	}
	if out.Images, err = s.repomanager.Images(s.db).Count(ctx, models.AssetFilter{ActiveOnly: true}); err != nil {
		return nil, err
	}
	if out.Resumes, err = s.repomanager.Resumes(s.db).Count(ctx); err != nil {
		return nil, err
	}

	viewsRepo := s.repomanager.Views(s.db)
	if out.Views.Total, err = viewsRepo.CountSince(ctx, time.Time{}, false); err != nil {
		return nil, err
	}
	if out.Views.Unique, err = viewsRepo.CountSince(ctx, time.Time{}, true); err != nil {
		return nil, err
	}

	if out.Projects.ByStatus == nil {
		out.Projects.ByStatus = []models.Count{}
	}
	if out.Contacts.ByStatus == nil {
		out.Contacts.ByStatus = []models.Count{}
	}
	return out, nil
}

func (s *DashboardService) RecentActivity(ctx context.Context, limit int) (*RecentActivity, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}

	out := &RecentActivity{}
	var err error

	if out.Projects, err = s.repomanager.Projects(s.db).Recent(ctx, limit); err != nil {
		return nil, err
	}
	if out.Contacts, err = s.repomanager.Contacts(s.db).Recent(ctx, limit); err != nil {
		return nil, err
	}
	if out.Users, err = s.repomanager.Accounts(s.db).Recent(ctx, limit); err != nil {
		return nil, err
	}
	if out.Views, err = s.repomanager.Views(s.db).Recent(ctx, limit); err != nil {
		return nil, err
	}

	if out.Projects == nil {
		out.Projects = []models.Project{}
	}
	if out.Contacts == nil {
		out.Contacts = []models.Contact{}
	}
	if out.Users == nil {
		out.Users = []models.Account{}
	}
	if out.Views == nil {
		out.Views = []models.PortfolioView{}
	}
	return out, nil
}

// Health pings the database. It never fails; an unreachable database is
// reported in the result.
func (s *DashboardService) Health(ctx context.Context) *HealthReport {
	ctx, cancel := context.WithTimeout(ctx, healthCheckDeadline)
	defer cancel()

	start := s.now()
	err := s.ping(ctx)
	now := s.now()

	r := &HealthReport{
		Status:    "healthy",
		Database:  "connected",
		LatencyMS: now.Sub(start).Milliseconds(),
		Uptime:    now.Sub(s.started).Truncate(time.Second).String(),
		Timestamp: now,
	}
	if err != nil {
		r.Status = "unhealthy"
		r.Database = "disconnected"
	}
	return r
}
