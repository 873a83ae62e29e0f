package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AdminProfile is the profile seeded with SUPER_ADMIN.
const AdminProfile = "ADMIN"

// Catalogue is the permission set the console knows about.
var Catalogue = []models.Permission{
	{Name: common.PermSuperAdmin, Description: "Acesso total", Resource: "*", Action: "*"},
	{Name: common.PermCreateUser, Description: "Cadastrar e alterar usuários", Resource: "usuarios", Action: "escrever"},
	{Name: common.PermListUsers, Description: "Listar usuários", Resource: "usuarios", Action: "ler"},
	{Name: common.PermManageProfiles, Description: "Gerenciar perfis", Resource: "perfis", Action: "escrever"},
	{Name: common.PermManagePermissions, Description: "Gerenciar permissões", Resource: "permissoes", Action: "escrever"},
}

type SeedOptions struct {
	AdminLogin    string
	AdminPassword string
}

// Seed creates the permission catalogue, the ADMIN profile and an admin user.
// Existing rows are left untouched, so it is safe to run repeatedly. When no
// password is given a random one is generated and logged once.
func Seed(ctx context.Context, db DB, m repomanager.RepositoryManager, opts SeedOptions, log logging.Logger) error {
	if opts.AdminLogin == "" {
		return fmt.Errorf("%w: admin login is required", common.ErrorValidation)
	}
	generated := opts.AdminPassword == ""
	if generated {
		pw, err := common.MakeRandHexString(12)
		if err != nil {
			return err
		}
		opts.AdminPassword = pw
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var superID int64
		for _, p := range Catalogue {
			existing, err := m.Permissions(tx).GetByName(ctx, p.Name)
			switch {
			case err == nil:
			case errors.Is(err, common.ErrorNotFound):
				if existing, err = m.Permissions(tx).Create(ctx, &p); err != nil {
					return fmt.Errorf("seed permission %s: %w", p.Name, err)
				}
				log.Info(ctx, "permission seeded", "name", p.Name)
			default:
				return err
			}
			if existing.Name == common.PermSuperAdmin {
				superID = existing.ID
			}
		}

		profileID, err := seedAdminProfile(ctx, m, tx, superID)
		if err != nil {
			return err
		}

		if _, err := m.Users(tx).GetCredentials(ctx, opts.AdminLogin); err == nil {
			log.Info(ctx, "admin user already present", "login", opts.AdminLogin)
			return nil
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		u, err := m.Users(tx).Create(ctx, &models.User{Login: opts.AdminLogin, Active: true}, hash)
		if err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		if err := m.Users(tx).SetProfiles(ctx, u.ID, []int64{profileID}); err != nil {
			return err
		}
		log.Info(ctx, "admin user seeded", "login", opts.AdminLogin, "user_id", u.ID)
		if generated {
			log.Warn(ctx, "generated admin password, change it after first sign-in", "password", opts.AdminPassword)
		}
		return nil
	})
}

func seedAdminProfile(ctx context.Context, m repomanager.RepositoryManager, tx dbx.DBTX, superID int64) (int64, error) {
	list, err := m.Profiles(tx).List(ctx)
	if err != nil {
		return 0, err
	}
	for _, p := range list {
		if p.Name == AdminProfile {
			return p.ID, nil
		}
	}
	p, err := m.Profiles(tx).Create(ctx, &models.Profile{Name: AdminProfile, Active: true})
	if err != nil {
		return 0, fmt.Errorf("seed admin profile: %w", err)
	}
	if err := m.Profiles(tx).SetPermissions(ctx, p.ID, []int64{superID}); err != nil {
		return 0, err
	}
	return p.ID, nil
}
