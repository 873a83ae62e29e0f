package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
)

type PermissionService struct {
	db          DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewPermissionService(db DB, m repomanager.RepositoryManager, log logging.Logger) *PermissionService {
	return &PermissionService{db: db, repomanager: m, log: log}
}

func fromInput(in models.PermissionInput) *models.Permission {
	return &models.Permission{
		Name:         in.Name,
		Description:  in.Description,
		Resource:     in.Resource,
		Action:       in.Action,
		NumericValue: in.NumericValue,
		StringValue:  in.StringValue,
	}
}

func (s *PermissionService) List(ctx context.Context) ([]models.Permission, error) {
	return s.repomanager.Permissions(s.db).List(ctx)
}

func (s *PermissionService) Get(ctx context.Context, id int64) (*models.Permission, error) {
	return s.repomanager.Permissions(s.db).Get(ctx, id)
}

func (s *PermissionService) Create(ctx context.Context, in models.PermissionInput) (*models.Permission, error) {
	p, err := s.repomanager.Permissions(s.db).Create(ctx, fromInput(in))
	if err != nil {
		return nil, fmt.Errorf("create permission: %w", err)
	}
	s.log.Info(ctx, "permission created", "permission", p.Name)
	return p, nil
}

func (s *PermissionService) Update(ctx context.Context, id int64, in models.PermissionInput) (*models.Permission, error) {
	p := fromInput(in)
	p.ID = id
	repo := s.repomanager.Permissions(s.db)
	if err := repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update permission %d: %w", id, err)
	}
	return repo.Get(ctx, id)
}

func (s *PermissionService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Permissions(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("delete permission %d: %w", id, err)
	}
	s.log.Info(ctx, "permission deleted", "permission_id", id)
	return nil
}

func (s *PermissionService) SearchByName(ctx context.Context, name string) ([]models.Permission, error) {
	return s.repomanager.Permissions(s.db).SearchByName(ctx, name)
}

// Exists reports whether a permission with exactly this name is defined.
func (s *PermissionService) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.repomanager.Permissions(s.db).GetByName(ctx, name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrorNotFound):
		return false, nil
	default:
		return false, err
	}
}
