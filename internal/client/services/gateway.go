// Package services holds the console's application services. Each one maps
// a backend resource onto Go calls and reduces transport failures to
// client.UserError values ready to show.
package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
)

// Gateway is the subset of client.HTTPClient the services use.
type Gateway interface {
	Get(ctx context.Context, endpoint string, out any, opts ...client.Option) error
	Post(ctx context.Context, endpoint string, body, out any, opts ...client.Option) error
	Put(ctx context.Context, endpoint string, body, out any, opts ...client.Option) error
	Patch(ctx context.Context, endpoint string, body, out any, opts ...client.Option) error
	Delete(ctx context.Context, endpoint string, out any, opts ...client.Option) error
	Upload(ctx context.Context, endpoint, field, filename string, r io.Reader, out any) error
	Download(ctx context.Context, endpoint string, opts ...client.Option) ([]byte, error)
}
