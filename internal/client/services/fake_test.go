package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
)

// fakeGateway records the last call and answers with Resp (marshalled into
// out) or Err.
type fakeGateway struct {
	Resp any
	Err  error
	Data []byte

	LastMethod   string
	LastEndpoint string
	LastBody     any
	LastOpts     []client.Option
	LastField    string
	LastFilename string
	LastUpload   []byte
}

func (f *fakeGateway) answer(method, endpoint string, body, out any, opts []client.Option) error {
	f.LastMethod, f.LastEndpoint, f.LastBody, f.LastOpts = method, endpoint, body, opts
	if f.Err != nil {
		return f.Err
	}
	if out == nil || f.Resp == nil {
		return nil
	}
	b, err := json.Marshal(f.Resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (f *fakeGateway) Get(_ context.Context, ep string, out any, opts ...client.Option) error {
	return f.answer(http.MethodGet, ep, nil, out, opts)
}

func (f *fakeGateway) Post(_ context.Context, ep string, body, out any, opts ...client.Option) error {
	return f.answer(http.MethodPost, ep, body, out, opts)
}

func (f *fakeGateway) Put(_ context.Context, ep string, body, out any, opts ...client.Option) error {
	return f.answer(http.MethodPut, ep, body, out, opts)
}

func (f *fakeGateway) Patch(_ context.Context, ep string, body, out any, opts ...client.Option) error {
	return f.answer(http.MethodPatch, ep, body, out, opts)
}

func (f *fakeGateway) Delete(_ context.Context, ep string, out any, opts ...client.Option) error {
	return f.answer(http.MethodDelete, ep, nil, out, opts)
}

func (f *fakeGateway) Upload(_ context.Context, ep, field, filename string, r io.Reader, out any) error {
	f.LastField, f.LastFilename = field, filename
	f.LastUpload, _ = io.ReadAll(r)
	return f.answer(http.MethodPost, ep, nil, out, nil)
}

func (f *fakeGateway) Download(_ context.Context, ep string, opts ...client.Option) ([]byte, error) {
	if err := f.answer(http.MethodGet, ep, nil, nil, opts); err != nil {
		return nil, err
	}
	return f.Data, nil
}
