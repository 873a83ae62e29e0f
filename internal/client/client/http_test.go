package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type captured struct {
	method string
	path   string
	header http.Header
	body   []byte
}

func newServer(t *testing.T, status int, respBody string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.method = r.Method
		c.path = r.URL.RequestURI()
		c.header = r.Header.Clone()
		c.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func TestHTTPClient_URL(t *testing.T) {
	c := NewHTTPClient("http://api.local/", time.Second)
	assert.Equal(t, "http://api.local/usuarios", c.URL("/usuarios"))
	assert.Equal(t, "http://api.local/usuarios", c.URL("usuarios"))
	assert.Equal(t, "http://api.local//usuarios", c.URL("//usuarios"))
}

func TestHTTPClient_DefaultHeaders_NoToken(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"id":1}`)
	c := NewHTTPClient(srv.URL, time.Second)

	var out struct{ ID int64 }
	require.NoError(t, c.Get(context.Background(), "/auth/me", &out))

	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/auth/me", got.path)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.header.Get("Accept"))
	assert.Empty(t, got.header.Get("Authorization"))
	assert.Equal(t, int64(1), out.ID)
}

func TestHTTPClient_BearerAndCallerHeaders(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	c := NewHTTPClient(srv.URL, time.Second)
	c.SetTokenSource(staticToken("abc"))

	err := c.Post(context.Background(), "usuarios/buscar", map[string]int{"pagina": 0}, nil,
		WithHeader("Accept", "text/plain"),
		WithHeader("X-Tags", "a", "b"),
	)
	require.NoError(t, err)

	assert.Equal(t, "Bearer abc", got.header.Get("Authorization"))
	assert.Equal(t, "text/plain", got.header.Get("Accept"))
	assert.Equal(t, "a,b", got.header.Get("X-Tags"))
	assert.JSONEq(t, `{"pagina":0}`, string(got.body))
}

func TestHTTPClient_Verbs(t *testing.T) {
	ctx := context.Background()
	srv, got := newServer(t, http.StatusOK, ``)
	c := NewHTTPClient(srv.URL, time.Second)

	require.NoError(t, c.Put(ctx, "perfis/1", map[string]string{"nome": "x"}, nil))
	assert.Equal(t, http.MethodPut, got.method)

	require.NoError(t, c.Patch(ctx, "usuarios/1/status", map[string]bool{"ativo": false}, nil))
	assert.Equal(t, http.MethodPatch, got.method)
	assert.Equal(t, "/usuarios/1/status", got.path)

	require.NoError(t, c.Delete(ctx, "usuarios/1", nil))
	assert.Equal(t, http.MethodDelete, got.method)
}

func TestHTTPClient_EmptyBodyWithOut(t *testing.T) {
	srv, _ := newServer(t, http.StatusNoContent, ``)
	c := NewHTTPClient(srv.URL, time.Second)

	var out map[string]any
	require.NoError(t, c.Delete(context.Background(), "usuarios/1", &out))
	assert.Nil(t, out)
}

func TestHTTPClient_Non2xx_ReturnsAPIError(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"message":"login já cadastrado"}`)
	c := NewHTTPClient(srv.URL, time.Second)

	err := c.Post(context.Background(), "usuarios", map[string]string{}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "login já cadastrado", ExtractMessage(err))
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

func TestHTTPClient_401_IsUnauthorized(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"message":"token inválido"}`)
	c := NewHTTPClient(srv.URL, time.Second)

	err := c.Get(context.Background(), "auth/me", nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClient_TransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second)
	err := c.Get(context.Background(), "auth/me", nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Upload(t *testing.T) {
	var (
		contentType, auth, field, name, content string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		auth = r.Header.Get("Authorization")
		f, hdr, err := r.FormFile("arquivo")
		if err == nil {
			field = "arquivo"
			name = hdr.Filename
			b, _ := io.ReadAll(f)
			content = string(b)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"chave": "k1", "nome": name, "tamanho": len(content)})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second)
	c.SetTokenSource(staticToken("tok"))

	var out struct {
		Key  string `json:"chave"`
		Size int    `json:"tamanho"`
	}
	require.NoError(t, c.Upload(context.Background(), "/arquivos", "arquivo", "a.txt", strings.NewReader("hello"), &out))

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "arquivo", field)
	assert.Equal(t, "a.txt", name)
	assert.Equal(t, "hello", content)
	assert.Equal(t, "k1", out.Key)
	assert.Equal(t, 5, out.Size)
}

func TestHTTPClient_Download(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, "\x00\x01binary")
	c := NewHTTPClient(srv.URL, time.Second)

	data, err := c.Download(context.Background(), "arquivos/k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00\x01binary"), data)
	assert.Equal(t, "/arquivos/k1", got.path)
}

func TestHTTPClient_Download_Error(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, `{"message":"arquivo não encontrado"}`)
	c := NewHTTPClient(srv.URL, time.Second)

	_, err := c.Download(context.Background(), "arquivos/zz")
	assert.Equal(t, "arquivo não encontrado", ExtractMessage(err))
}
