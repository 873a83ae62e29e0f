package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxErrorBody = 1 << 20

// TokenSource yields the bearer token to attach, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Option customises a single request.
type Option func(*requestOptions)

type requestOptions struct {
	headers http.Header
}

// WithHeader adds a caller header. It replaces any default header with the
// same name; several values are sent joined with ",".
func WithHeader(key string, values ...string) Option {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = http.Header{}
		}
		o.headers[http.CanonicalHeaderKey(key)] = append(o.headers[http.CanonicalHeaderKey(key)], values...)
	}
}

// HTTPClient sends JSON requests to a fixed backend origin.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewHTTPClient builds a gateway for baseURL. A zero timeout means none.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// SetTokenSource wires the session whose token is sent with each request.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// URL joins the base URL and endpoint, dropping one leading slash from the
// endpoint.
func (c *HTTPClient) URL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimPrefix(endpoint, "/")
}

func (c *HTTPClient) Get(ctx context.Context, endpoint string, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodGet, endpoint, nil, out, opts)
}

func (c *HTTPClient) Post(ctx context.Context, endpoint string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPost, endpoint, body, out, opts)
}

func (c *HTTPClient) Put(ctx context.Context, endpoint string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPut, endpoint, body, out, opts)
}

func (c *HTTPClient) Patch(ctx context.Context, endpoint string, body, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodPatch, endpoint, body, out, opts)
}

func (c *HTTPClient) Delete(ctx context.Context, endpoint string, out any, opts ...Option) error {
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, out, opts)
}

// Upload posts r as the multipart file field. The transport sets the
// multipart Content-Type; caller headers are not applied.
func (c *HTTPClient) Upload(ctx context.Context, endpoint, field, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("multipart: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(endpoint), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setBearer(req.Header)

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp.Body, out)
}

// Download fetches endpoint as opaque bytes.
func (c *HTTPClient) Download(ctx context.Context, endpoint string, opts ...Option) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, opts)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return data, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, body, out any, opts []Option) error {
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, endpoint, payload, opts)
	if err != nil {
		return err
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeBody(resp.Body, out)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader, opts []Option) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.setBearer(req.Header)

	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	for k, v := range o.headers {
		req.Header.Set(k, strings.Join(v, ","))
	}
	return req, nil
}

func (c *HTTPClient) setBearer(h http.Header) {
	if c.tokens == nil {
		return
	}
	if tok := c.tokens.Token(); tok != "" {
		h.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}
}

func (c *HTTPClient) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, readAPIError(resp)
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}

	var decoded any
	if len(raw) > 0 && json.Unmarshal(raw, &decoded) == nil {
		apiErr.Body = decoded
	} else {
		apiErr.Body = string(raw)
	}
	return apiErr
}

func decodeBody(r io.Reader, out any) error {
	if out == nil {
		_, _ = io.Copy(io.Discard, r)
		return nil
	}
	if err := json.NewDecoder(r).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
