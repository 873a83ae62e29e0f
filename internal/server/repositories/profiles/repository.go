package profiles

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
)

type Repository interface {
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	Get(ctx context.Context, id int64) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Count(ctx context.Context, f models.ProfileFilter) (int, error)
	Search(ctx context.Context, f models.ProfileFilter, order pagination.OrderBy, skip, limit int) ([]models.Profile, error)
	ForUser(ctx context.Context, userID int64) ([]models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	Delete(ctx context.Context, id int64) error
	SetPermissions(ctx context.Context, profileID int64, permissionIDs []int64) error
}
