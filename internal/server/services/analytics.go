package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/views"
	"github.com/jmoiron/sqlx"
)

const (
	uniqueViewWindow = 24 * time.Hour
	dailyWindow      = 7 * 24 * time.Hour
	topReferrerLimit = 10
)

var analyticsPeriods = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
}

type ViewInput struct {
	Page      string `json:"page" validate:"max=100"`
	Referrer  string `json:"referrer" validate:"max=2048"`
	SessionID string `json:"sessionId" validate:"max=200"`
}

type AnalyticsReport struct {
	Period       string             `json:"period"`
	TotalViews   int64              `json:"totalViews"`
	UniqueViews  int64              `json:"uniqueViews"`
	PageViews    []models.Count     `json:"pageViews"`
	DailyViews   []views.DailyCount `json:"dailyViews"`
	TopReferrers []models.Count     `json:"topReferrers"`
}

type AnalyticsService struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewAnalyticsService(db *sqlx.DB, m repomanager.RepositoryManager) *AnalyticsService {
	return &AnalyticsService{db: db, repomanager: m, now: time.Now}
}

// TrackView records a page view. A view is unique unless the same ip and
// session were seen in the last 24 hours.
func (s *AnalyticsService) TrackView(ctx context.Context, in ViewInput, client Client) (*models.PortfolioView, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	page := strings.TrimSpace(in.Page)
	if page == "" {
		page = "home"
	}

	repo := s.repomanager.Views(s.db)
	seen, err := repo.ExistsSince(ctx, client.IP, in.SessionID, s.now().Add(-uniqueViewWindow))
	if err != nil {
		return nil, err
	}

	return repo.Create(ctx, &models.PortfolioView{
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
		Referrer:  in.Referrer,
		Page:      page,
		SessionID: in.SessionID,
		IsUnique:  !seen,
	})
}

// Report aggregates views over period (1d, 7d, 30d or 90d, default 7d).
// Daily counts always cover the last 7 days.
func (s *AnalyticsService) Report(ctx context.Context, period string) (*AnalyticsReport, error) {
	if period == "" {
		period = "7d"
	}
	window, ok := analyticsPeriods[period]
	if !ok {
		return nil, newValidationError("period", "must be one of: 1d 7d 30d 90d")
	}

	now := s.now()
	since := now.Add(-window)
	repo := s.repomanager.Views(s.db)

	r := &AnalyticsReport{Period: period}
	var err error

	if r.TotalViews, err = repo.CountSince(ctx, since, false); err != nil {
		return nil, err
	}
	if r.UniqueViews, err = repo.CountSince(ctx, since, true); err != nil {
		return nil, err
	}
	if r.PageViews, err = repo.PageCounts(ctx, since); err != nil {
		return nil, err
	}
	if r.DailyViews, err = repo.DailyCounts(ctx, now.Add(-dailyWindow)); err != nil {
		return nil, err
	}
	if r.TopReferrers, err = repo.TopReferrers(ctx, since, topReferrerLimit); err != nil {
		return nil, err
	}

	if r.PageViews == nil {
		r.PageViews = []models.Count{}
	}
	if r.DailyViews == nil {
		r.DailyViews = []views.DailyCount{}
	}
	if r.TopReferrers == nil {
		r.TopReferrers = []models.Count{}
	}
	return r, nil
}
