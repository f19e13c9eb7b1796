// Package httpapi exposes the portfolio services as a JSON REST API under
// /api, routed with chi.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/models"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type AuthService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.Account, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Verify(ctx context.Context, token string) (*models.Account, error)
	RequireRole(ctx context.Context, token, role string) (*models.Account, error)
	Profile(ctx context.Context, accountID string) (*models.Account, error)
	ChangePassword(ctx context.Context, accountID, current, next string) error
	ChangeEmail(ctx context.Context, accountID, email string) (*models.Account, error)
}

type BlobService interface {
	Upload(ctx context.Context, in services.UploadInput) (*models.Asset, error)
	Fetch(ctx context.Context, kind models.AssetKind, id string) (*models.AssetContent, error)
	ActiveResume(ctx context.Context) (*models.Asset, error)
	FetchActiveResume(ctx context.Context) (*models.AssetContent, error)
	SoftDelete(ctx context.Context, imageID string) error
	UpdateImage(ctx context.Context, imageID string, filename, projectID *string) (*models.Asset, error)
	Activate(ctx context.Context, resumeID string) (*models.Asset, error)
	DeleteResume(ctx context.Context, resumeID string) error
	List(ctx context.Context, kind models.AssetKind, filter models.AssetFilter, page, pageSize int) (*models.Page[models.Asset], error)
}

type ProjectService interface {
	List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, in services.ProjectInput) (*models.Project, error)
	Update(ctx context.Context, id string, in services.ProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, projectID string, in services.UploadInput) (*models.Project, *models.Asset, error)
	Settings(ctx context.Context) (*models.ProjectsSettings, error)
	UpdateSettings(ctx context.Context, in *models.ProjectsSettings) (*models.ProjectsSettings, error)
}

type SkillService interface {
	List(ctx context.Context, category string, limit int) ([]models.SkillCategory, error)
	Get(ctx context.Context, id string) (*models.SkillCategory, error)
	Create(ctx context.Context, in services.SkillInput) (*models.SkillCategory, error)
	Update(ctx context.Context, id string, in services.SkillInput) (*models.SkillCategory, error)
	Delete(ctx context.Context, id string) error
	AdditionalTechnologies(ctx context.Context) ([]string, error)
	SetAdditionalTechnologies(ctx context.Context, techs []string) ([]string, error)
}

type ContactService interface {
	Submit(ctx context.Context, in services.ContactInput, client services.Client) (*models.Contact, error)
	Settings(ctx context.Context) (*models.ContactSettings, error)
	UpdateSettings(ctx context.Context, in *models.ContactSettings) (*models.ContactSettings, error)
	List(ctx context.Context, status string, page, pageSize int) (*models.Page[models.Contact], error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	UpdateStatus(ctx context.Context, id string, in services.StatusInput) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

type SiteService interface {
	About(ctx context.Context) (*models.About, error)
	UpdateAbout(ctx context.Context, about *models.About) (*models.About, error)
	Footer(ctx context.Context) (*models.Footer, error)
	UpdateFooter(ctx context.Context, footer *models.Footer) (*models.Footer, error)
}

type AnalyticsService interface {
	TrackView(ctx context.Context, in services.ViewInput, client services.Client) (*models.PortfolioView, error)
	Report(ctx context.Context, period string) (*services.AnalyticsReport, error)
}

type DashboardService interface {
	Stats(ctx context.Context) (*services.DashboardStats, error)
	RecentActivity(ctx context.Context, limit int) (*services.RecentActivity, error)
	Health(ctx context.Context) *services.HealthReport
}

// API holds the services behind the HTTP routes.
type API struct {
	Auth      AuthService
	Blobs     BlobService
	Projects  ProjectService
	Skills    SkillService
	Contacts  ContactService
	Site      SiteService
	Analytics AnalyticsService
	Dashboard DashboardService

	Environment    string
	RequestTimeout time.Duration

	log logging.Logger
}

func NewAPI(log logging.Logger) *API {
	return &API{log: log.With("module", "http")}
}

// Routes builds the router. Admin-only routes go through requireAdmin.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(a.accessLog)
	r.Use(middleware.Recoverer)
	if a.RequestTimeout > 0 {
		r.Use(middleware.Timeout(a.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "Route "+r.URL.Path+" not found", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", a.health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", a.login)
			r.Post("/logout", a.logout)
			r.With(a.requireAdmin).Post("/register", a.register)
			r.Group(func(r chi.Router) {
				r.Use(a.authenticate)
				r.Get("/profile", a.profile)
				r.Put("/update-email", a.updateEmail)
				r.Put("/update-password", a.updatePassword)
			})
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/{id}", a.getImage)
			r.Group(func(r chi.Router) {
				r.Use(a.requireAdmin)
				r.Post("/upload", a.uploadImage)
				r.Get("/", a.listImages)
				r.Put("/{id}", a.updateImage)
				r.Delete("/{id}", a.deleteImage)
			})
		})

		r.Route("/resume", func(r chi.Router) {
			r.Get("/info", a.resumeInfo)
			r.Get("/download", a.downloadActiveResume)
			r.Get("/download/{id}", a.downloadResume)
			r.Group(func(r chi.Router) {
				r.Use(a.requireAdmin)
				r.Post("/upload", a.uploadResume)
				r.Get("/all", a.listResumes)
				r.Put("/activate/{id}", a.activateResume)
				r.Delete("/delete/{id}", a.deleteResume)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", a.listProjects)
			r.Get("/settings", a.projectSettings)
			r.Get("/{id}", a.getProject)
			r.Group(func(r chi.Router) {
				r.Use(a.requireAdmin)
				r.Put("/settings", a.updateProjectSettings)
				r.Post("/", a.createProject)
				r.Put("/{id}", a.updateProject)
				r.Delete("/{id}", a.deleteProject)
				r.Post("/{id}/image", a.uploadProjectImage)
			})
		})

		r.Route("/skills", func(r chi.Router) {
			r.Get("/", a.listSkills)
			r.Get("/additional-technologies", a.additionalTechnologies)
			r.Get("/{id}", a.getSkill)
			r.Group(func(r chi.Router) {
				r.Use(a.requireAdmin)
				r.Put("/additional-technologies", a.updateAdditionalTechnologies)
				r.Post("/", a.createSkill)
				r.Put("/{id}", a.updateSkill)
				r.Delete("/{id}", a.deleteSkill)
			})
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", a.submitContact)
			r.Get("/settings", a.contactSettings)
			r.Group(func(r chi.Router) {
				r.Use(a.requireAdmin)
				r.Put("/settings", a.updateContactSettings)
				r.Get("/", a.listContacts)
				r.Get("/{id}", a.getContact)
				r.Patch("/{id}/status", a.updateContactStatus)
				r.Delete("/{id}", a.deleteContact)
			})
		})

		r.Route("/about", func(r chi.Router) {
			r.Get("/", a.about)
			r.With(a.requireAdmin).Put("/", a.updateAbout)
		})

		r.Route("/footer", func(r chi.Router) {
			r.Get("/", a.footer)
			r.With(a.requireAdmin).Put("/", a.updateFooter)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Post("/track-view", a.trackView)
			r.With(a.requireAdmin).Get("/analytics", a.analytics)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(a.requireAdmin)
			r.Get("/stats", a.dashboardStats)
			r.Get("/recent-activity", a.recentActivity)
			r.Get("/health", a.dashboardHealth)
		})
	})

	return r
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"timestamp":   time.Now().UTC(),
		"environment": a.Environment,
	})
}
