package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/permissions"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// several of them in one transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	RollbackMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Permissions(db dbx.DBTX) permissions.Repository
	Files(db dbx.DBTX) files.Repository
}
