package permissions

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Permission) (*models.Permission, error)
	Get(ctx context.Context, id int64) (*models.Permission, error)
	GetByName(ctx context.Context, name string) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	SearchByName(ctx context.Context, name string) ([]models.Permission, error)
	ForProfile(ctx context.Context, profileID int64) ([]models.Permission, error)
	Update(ctx context.Context, p *models.Permission) error
	Delete(ctx context.Context, id int64) error
}
