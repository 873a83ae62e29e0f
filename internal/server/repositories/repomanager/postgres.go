// Package repomanager provides the PostgreSQL RepositoryManager, wiring
// repository constructors and the goose migrations together.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/server/migrations"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/permissions"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Permissions(db dbx.DBTX) permissions.Repository {
	return permissions.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Files(db dbx.DBTX) files.Repository {
	return files.NewPostgresRepository(db)
}

// Seams for tests.
var (
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
	gooseResetContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.ResetContext(ctx, db, dir, opts...)
	}
)

func setup() error {
	goose.SetBaseFS(migrations.Migrations)
	return goose.SetDialect("pgx")
}

// RunMigrations applies every pending embedded migration.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// RollbackMigrations rolls back all applied migrations.
func (m *PostgresRepositoryManager) RollbackMigrations(ctx context.Context, db *sql.DB) error {
	if err := setup(); err != nil {
		return err
	}
	return gooseResetContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
