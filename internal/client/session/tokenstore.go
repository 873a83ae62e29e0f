package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophadmin/internal/common"
)

// TokenKey is the metadata key under which the bearer token is persisted.
const TokenKey = "token"

// TokenStore persists the raw bearer token across restarts. Load returns ""
// when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// MetadataTokenStore keeps the token in the local metadata table.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (m *MetadataTokenStore) Load(ctx context.Context) (string, error) {
	v, err := m.repo.Get(ctx, TokenKey)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (m *MetadataTokenStore) Save(ctx context.Context, token string) error {
	return m.repo.Set(ctx, TokenKey, []byte(token))
}

func (m *MetadataTokenStore) Delete(ctx context.Context) error {
	return m.repo.Delete(ctx, TokenKey)
}
