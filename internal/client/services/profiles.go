package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
)

type ProfileService interface {
	List(ctx context.Context) ([]models.Profile, error)
	Get(ctx context.Context, id int64) (*models.Profile, error)
	Create(ctx context.Context, in models.ProfileInput) (*models.Profile, error)
	Update(ctx context.Context, id int64, in models.ProfileInput) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, req pagination.PageRequest[models.ProfileFilter]) (*pagination.PageResponse[models.Profile], error)
}

type profileService struct {
	gw Gateway
}

func NewProfileService(gw Gateway) ProfileService {
	return &profileService{gw: gw}
}

func (s *profileService) List(ctx context.Context) ([]models.Profile, error) {
	var out []models.Profile
	if err := s.gw.Get(ctx, "perfis", &out); err != nil {
		return nil, client.NewUserError(err)
	}
	return out, nil
}

func (s *profileService) Get(ctx context.Context, id int64) (*models.Profile, error) {
	var p models.Profile
	if err := s.gw.Get(ctx, fmt.Sprintf("perfis/%d", id), &p); err != nil {
		return nil, client.NewUserError(err)
	}
	return &p, nil
}

func (s *profileService) Create(ctx context.Context, in models.ProfileInput) (*models.Profile, error) {
	var p models.Profile
	if err := s.gw.Post(ctx, "perfis", in, &p); err != nil {
		return nil, client.NewUserError(err)
	}
	return &p, nil
}

func (s *profileService) Update(ctx context.Context, id int64, in models.ProfileInput) (*models.Profile, error) {
	var p models.Profile
	if err := s.gw.Put(ctx, fmt.Sprintf("perfis/%d", id), in, &p); err != nil {
		return nil, client.NewUserError(err)
	}
	return &p, nil
}

func (s *profileService) Delete(ctx context.Context, id int64) error {
	if err := s.gw.Delete(ctx, fmt.Sprintf("perfis/%d", id), nil); err != nil {
		return client.NewUserError(err)
	}
	return nil
}

func (s *profileService) Search(ctx context.Context, req pagination.PageRequest[models.ProfileFilter]) (*pagination.PageResponse[models.Profile], error) {
	req.Normalize()
	var page pagination.PageResponse[models.Profile]
	if err := s.gw.Post(ctx, "perfis/buscar", req, &page); err != nil {
		return nil, client.NewUserError(err)
	}
	return &page, nil
}
