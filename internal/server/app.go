// Package server wires the portfolio API together: configuration, the
// Postgres pool and migrations, payload storage, services, and the HTTP and
// gRPC health listeners. Run blocks until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/logging"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/httpapi"
	"github.com/dmitrijs2005/portfolio/internal/server/mailer"
	"github.com/dmitrijs2005/portfolio/internal/server/payloads"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
	"github.com/jmoiron/sqlx"

	gs "github.com/dmitrijs2005/portfolio/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sqlx.DB
	api    *httpapi.API
}

// NewApp connects to the database, applies migrations and builds every
// service. The admin account from the config is created if missing.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(os.Stdout, c.LogLevel)

	db, err := dbx.Open(ctx, c.DatabaseDSN, c.DatabaseConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newPayloadStore(ctx, c, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var ml mailer.Mailer
	if c.SMTPHost != "" {
		ml = mailer.NewSMTPMailer(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPassword, c.MailFrom)
	}

	authSvc := services.NewAuthService(db, rm, c)
	blobSvc := services.NewBlobService(db, rm, store, logger)

	api := httpapi.NewAPI(logger)
	api.Auth = authSvc
	api.Blobs = blobSvc
	api.Projects = services.NewProjectService(db, rm, blobSvc)
	api.Skills = services.NewSkillService(db, rm)
	api.Contacts = services.NewContactService(db, rm, ml, logger)
	api.Site = services.NewSiteService(db, rm)
	api.Analytics = services.NewAnalyticsService(db, rm)
	api.Dashboard = services.NewDashboardService(db, rm)
	api.Environment = c.Environment
	api.RequestTimeout = c.RequestTimeout

	if c.AdminEmail != "" && c.AdminPassword != "" {
		acc, created, err := authSvc.EnsureAdmin(ctx, c.AdminEmail, c.AdminPassword)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("admin bootstrap error: %w", err)
		}
		if created {
			logger.Info(ctx, "admin account created", "email", acc.Email)
		}
	}

	return &App{config: c, logger: logger, db: db, api: api}, nil
}

func newPayloadStore(ctx context.Context, c *config.Config, db *sqlx.DB) (payloads.Store, error) {
	switch c.BlobBackend {
	case config.BlobBackendDB, "":
		return payloads.NewDBStore(db), nil
	case config.BlobBackendS3:
		s, err := payloads.NewS3Store(ctx, payloads.S3Settings{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.api.Routes(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.EndpointAddrGRPC, app.logger, app.db, 0)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until SIGINT/SIGTERM/SIGQUIT or a listener failure, then
// closes the pool.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
