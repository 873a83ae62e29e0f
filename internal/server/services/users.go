package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	db          DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	cost        int
}

func NewUserService(db DB, m repomanager.RepositoryManager, log logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, log: log, cost: bcrypt.DefaultCost}
}

// HashPassword returns the bcrypt hash stored in usuarios.senha_hash.
func (s *UserService) HashPassword(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

// Create stores a new user and links its profiles. A password is mandatory.
func (s *UserService) Create(ctx context.Context, in models.UserInput) (*models.User, error) {
	if in.Password == "" {
		return nil, fmt.Errorf("%w: senha is required", common.ErrorValidation)
	}
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var id int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Login:  in.Login,
			Active: activeOrDefault(in.Active),
			Person: in.Person,
		}, hash)
		if err != nil {
			return err
		}
		id = u.ID
		return s.repomanager.Users(tx).SetProfiles(ctx, id, in.ProfileIDs())
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info(ctx, "user created", "user_id", id)
	return s.Get(ctx, id)
}

func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return loadUser(ctx, s.repomanager, s.db, id)
}

// Update replaces login, status, person and profiles. The password changes
// only when one is supplied.
func (s *UserService) Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error) {
	var hash []byte
	if in.Password != "" {
		h, err := s.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		current.Login = in.Login
		current.Person = in.Person
		if in.Active != nil {
			current.Active = *in.Active
		}
		if err := repo.Update(ctx, current); err != nil {
			return err
		}
		if hash != nil {
			if err := repo.SetPassword(ctx, id, hash); err != nil {
				return err
			}
		}
		return repo.SetProfiles(ctx, id, in.ProfileIDs())
	})
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// Search serves one page of users. The page is clamped to the last one.
func (s *UserService) Search(ctx context.Context, req pagination.PageRequest[models.UserFilter]) (*pagination.PageResponse[models.User], error) {
	req.Normalize()
	if err := req.CheckBounds(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	repo := s.repomanager.Users(s.db)

	total, err := repo.Count(ctx, req.Filter)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	page, skip := pagination.ComputeSkip(total, req.Page, req.PageSize)

	records, err := repo.Search(ctx, req.Filter, req.OrderBy, skip, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	for i := range records {
		if err := hydrateUser(ctx, s.repomanager, s.db, &records[i]); err != nil {
			return nil, err
		}
	}

	resp := pagination.NewPageResponse(records, total, page, req.PageSize)
	return &resp, nil
}

func (s *UserService) SetStatus(ctx context.Context, id int64, active bool) (*models.User, error) {
	if err := s.repomanager.Users(s.db).SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("set status of user %d: %w", id, err)
	}
	s.log.Info(ctx, "user status changed", "user_id", id, "active", active)
	return s.Get(ctx, id)
}

// ChangePassword verifies the current password before storing the new one.
func (s *UserService) ChangePassword(ctx context.Context, id int64, in models.PasswordChange) error {
	repo := s.repomanager.Users(s.db)
	creds, err := repo.GetCredentialsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("change password of user %d: %w", id, err)
	}
	if err := bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(in.Current)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrorInvalidLoginPassword
		}
		return fmt.Errorf("change password of user %d: %w", id, err)
	}

	hash, err := s.HashPassword(in.New)
	if err != nil {
		return err
	}
	if err := repo.SetPassword(ctx, id, hash); err != nil {
		return fmt.Errorf("change password of user %d: %w", id, err)
	}
	s.log.Info(ctx, "password changed", "user_id", id)
	return nil
}
