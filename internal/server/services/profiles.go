package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
)

type ProfileService struct {
	db          DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewProfileService(db DB, m repomanager.RepositoryManager, log logging.Logger) *ProfileService {
	return &ProfileService{db: db, repomanager: m, log: log}
}

func (s *ProfileService) hydrateAll(ctx context.Context, list []models.Profile) error {
	for i := range list {
		if err := hydrateProfile(ctx, s.repomanager, s.db, &list[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	list, err := s.repomanager.Profiles(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if err := s.hydrateAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ProfileService) Get(ctx context.Context, id int64) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := hydrateProfile(ctx, s.repomanager, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Create(ctx context.Context, in models.ProfileInput) (*models.Profile, error) {
	var id int64
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)
		p, err := repo.Create(ctx, &models.Profile{Name: in.Name, Active: activeOrDefault(in.Active)})
		if err != nil {
			return err
		}
		id = p.ID
		return repo.SetPermissions(ctx, id, in.PermissionIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.log.Info(ctx, "profile created", "profile_id", id)
	return s.Get(ctx, id)
}

func (s *ProfileService) Update(ctx context.Context, id int64, in models.ProfileInput) (*models.Profile, error) {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Profiles(tx)
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		current.Name = in.Name
		if in.Active != nil {
			current.Active = *in.Active
		}
		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		return repo.SetPermissions(ctx, id, in.PermissionIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("update profile %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *ProfileService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Profiles(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}
	s.log.Info(ctx, "profile deleted", "profile_id", id)
	return nil
}

func (s *ProfileService) Search(ctx context.Context, req pagination.PageRequest[models.ProfileFilter]) (*pagination.PageResponse[models.Profile], error) {
	req.Normalize()
	if err := req.CheckBounds(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	repo := s.repomanager.Profiles(s.db)

	total, err := repo.Count(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}
	page, skip := pagination.ComputeSkip(total, req.Page, req.PageSize)

	records, err := repo.Search(ctx, req.Filter, req.OrderBy, skip, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	if err := s.hydrateAll(ctx, records); err != nil {
		return nil, err
	}

	resp := pagination.NewPageResponse(records, total, page, req.PageSize)
	return &resp, nil
}
