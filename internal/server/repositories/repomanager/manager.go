package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/images"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/resumes"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/settings"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/skills"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/views"
	"github.com/jmoiron/sqlx"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction. Credential and asset stores take a dbx.DBTX so they can join
// dbx.WithTx; content stores take sqlx handles for struct scanning.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error

	Accounts(db dbx.DBTX) accounts.Repository
	Images(db dbx.DBTX) images.Repository
	Resumes(db dbx.DBTX) resumes.Repository
	Settings(db dbx.DBTX) settings.Repository

	Projects(db sqlx.ExtContext) projects.Repository
	Skills(db sqlx.ExtContext) skills.Repository
	Contacts(db sqlx.ExtContext) contacts.Repository
	Views(db sqlx.ExtContext) views.Repository
}
