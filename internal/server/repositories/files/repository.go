package files

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) error
	Get(ctx context.Context, key string) (*models.File, error)
}
