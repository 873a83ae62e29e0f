// Package services implements the backend's use cases on top of the
// repositories. Multi-table writes run in one transaction via dbx.WithTx.
package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
)

// DB is what services need from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

var _ DB = (*sql.DB)(nil)

// hydrateProfile attaches the permission list to p.
func hydrateProfile(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, p *models.Profile) error {
	perms, err := rm.Permissions(db).ForProfile(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("load permissions of profile %d: %w", p.ID, err)
	}
	p.Permissions = perms
	return nil
}

// loadUser returns the user with profiles and their permissions.
func loadUser(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, id int64) (*models.User, error) {
	u, err := rm.Users(db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := hydrateUser(ctx, rm, db, u); err != nil {
		return nil, err
	}
	return u, nil
}

func hydrateUser(ctx context.Context, rm repomanager.RepositoryManager, db dbx.DBTX, u *models.User) error {
	profiles, err := rm.Profiles(db).ForUser(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("load profiles of user %d: %w", u.ID, err)
	}
	for i := range profiles {
		if err := hydrateProfile(ctx, rm, db, &profiles[i]); err != nil {
			return err
		}
	}
	u.Profiles = profiles
	return nil
}
