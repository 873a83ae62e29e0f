package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
)

type PermissionService interface {
	List(ctx context.Context) ([]models.Permission, error)
	Get(ctx context.Context, id int64) (*models.Permission, error)
	Create(ctx context.Context, in models.PermissionInput) (*models.Permission, error)
	Update(ctx context.Context, id int64, in models.PermissionInput) (*models.Permission, error)
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, name string) ([]models.Permission, error)
	Exists(ctx context.Context, name string) bool
}

type permissionService struct {
	gw  Gateway
	log logging.Logger
}

func NewPermissionService(gw Gateway, log logging.Logger) PermissionService {
	return &permissionService{gw: gw, log: log}
}

func (s *permissionService) List(ctx context.Context) ([]models.Permission, error) {
	var out []models.Permission
	if err := s.gw.Get(ctx, "permissoes", &out); err != nil {
		return nil, client.NewUserError(err)
	}
	return out, nil
}

func (s *permissionService) Get(ctx context.Context, id int64) (*models.Permission, error) {
	var p models.Permission
	if err := s.gw.Get(ctx, fmt.Sprintf("permissoes/%d", id), &p); err != nil {
		return nil, client.NewUserError(err)
	}
	return &p, nil
}

func (s *permissionService) Create(ctx context.Context, in models.PermissionInput) (*models.Permission, error) {
	var p models.Permission
	if err := s.gw.Post(ctx, "permissoes", in, &p); err != nil {
		return nil, client.NewUserError(err)
	}
	return &p, nil
}

func (s *permissionService) Update(ctx context.Context, id int64, in models.PermissionInput) (*models.Permission, error) {
	var p models.Permission
	if err := s.gw.Put(ctx, fmt.Sprintf("permissoes/%d", id), in, &p); err != nil {
		return nil, client.NewUserError(err)
	}
	return &p, nil
}

func (s *permissionService) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("permissoes/%d", id), nil); err != nil {
		return client.NewUserError(err)
	}
	return nil
}

func (s *permissionService) SearchByName(ctx context.Context, name string) ([]models.Permission, error) {
	var out []models.Permission
	if err := s.gw.Get(ctx, "permissoes/buscar?nome="+url.QueryEscape(name), &out); err != nil {
		return nil, client.NewUserError(err)
	}
	return out, nil
}

// Exists reports whether a permission called name exists. Any failure is
// taken as "no".
func (s *permissionService) Exists(ctx context.Context, name string) bool {
	var resp struct {
		Exists bool `json:"existe"`
	}
	if err := s.gw.Get(ctx, "permissoes/existe/"+url.PathEscape(name), &resp); err != nil {
		s.log.Debug(ctx, "permission lookup failed", "name", name, "error", err)
		return false
	}
	return resp.Exists
}
