package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
)

type UserService interface {
	Create(ctx context.Context, in models.UserInput) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, req pagination.PageRequest[models.UserFilter]) (*pagination.PageResponse[models.User], error)
	SetStatus(ctx context.Context, id int64, active bool) (*models.User, error)
	ChangePassword(ctx context.Context, id int64, current, next string) error
	WithPermissions(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	gw Gateway
}

func NewUserService(gw Gateway) UserService {
	return &userService{gw: gw}
}

func (s *userService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	var u models.User
	if err := s.gw.Post(ctx, "usuarios", in, &u); err != nil {
		return nil, client.NewUserError(err)
	}
	return &u, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.gw.Get(ctx, fmt.Sprintf("usuarios/%d", id), &u); err != nil {
		return nil, client.NewUserError(err)
	}
	return &u, nil
}

func (s *userService) Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error) {
	var u models.User
	if err := s.gw.Put(ctx, fmt.Sprintf("usuarios/%d", id), in, &u); err != nil {
		return nil, client.NewUserError(err)
	}
	return &u, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("usuarios/%d", id), nil); err != nil {
		return client.NewUserError(err)
	}
	return nil
}

func (s *userService) Search(ctx context.Context, req pagination.PageRequest[models.UserFilter]) (*pagination.PageResponse[models.User], error) {
	req.Normalize()
	var page pagination.PageResponse[models.User]
	if err := s.gw.Post(ctx, "usuarios/buscar", req, &page); err != nil {
		return nil, client.NewUserError(err)
	}
	return &page, nil
}

func (s *userService) SetStatus(ctx context.Context, id int64, active bool) (*models.User, error) {
	var u models.User
	if err := s.gw.Patch(ctx, fmt.Sprintf("usuarios/%d/status", id), models.StatusChange{Active: active}, &u); err != nil {
		return nil, client.NewUserError(err)
	}
	return &u, nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	body := models.PasswordChange{Current: current, New: next}
	if err := s.gw.Patch(ctx, fmt.Sprintf("usuarios/%d/senha", id), body, nil); err != nil {
		return client.NewUserError(err)
	}
	return nil
}

func (s *userService) WithPermissions(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.gw.Get(ctx, fmt.Sprintf("usuarios/%d/permissoes", id), &u); err != nil {
		return nil, client.NewUserError(err)
	}
	return &u, nil
}
