package users

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	srvmodels "github.com/dmitrijs2005/gophadmin/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User, passwordHash []byte) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetCredentials(ctx context.Context, login string) (*srvmodels.Credentials, error)
	GetCredentialsByID(ctx context.Context, id int64) (*srvmodels.Credentials, error)
	Count(ctx context.Context, f models.UserFilter) (int, error)
	Search(ctx context.Context, f models.UserFilter, order pagination.OrderBy, skip, limit int) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetPassword(ctx context.Context, id int64, passwordHash []byte) error
	SetProfiles(ctx context.Context, userID int64, profileIDs []int64) error
	Delete(ctx context.Context, id int64) error
}
