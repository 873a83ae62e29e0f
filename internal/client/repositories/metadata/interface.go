// Package metadata persists small named values (such as the bearer token)
// in the console's local database.
package metadata

import (
	"context"
)

// Repository is a key/value store. Get returns common.ErrorNotFound for a
// missing key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
