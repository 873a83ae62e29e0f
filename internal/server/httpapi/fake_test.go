package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
)

type fakeAuth struct {
	tokens    map[string]*models.User
	signInErr error
	LastLogin string
}

func (f *fakeAuth) SignIn(_ context.Context, login, password string) (*models.SignInResponse, error) {
	f.LastLogin = login
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	for tok, u := range f.tokens {
		if u.Login == login {
			return &models.SignInResponse{Token: tok, TokenType: common.TokenType, User: u}, nil
		}
	}
	return nil, common.ErrorInvalidLoginPassword
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	u, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrInvalidToken
	}
	return u, nil
}

type fakeUsers struct {
	err          error
	LastInput    models.UserInput
	LastID       int64
	LastSearch   pagination.PageRequest[models.UserFilter]
	LastStatus   *bool
	LastPassword models.PasswordChange
	Deleted      []int64
}

func (f *fakeUsers) Create(_ context.Context, in models.UserInput) (*models.User, error) {
	f.LastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: 10, Login: in.Login, Active: true}, nil
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	f.LastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: id, Login: "user@x.io"}, nil
}

func (f *fakeUsers) Update(_ context.Context, id int64, in models.UserInput) (*models.User, error) {
	f.LastID, f.LastInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: id, Login: in.Login}, nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.Deleted = append(f.Deleted, id)
	return f.err
}

func (f *fakeUsers) Search(_ context.Context, req pagination.PageRequest[models.UserFilter]) (*pagination.PageResponse[models.User], error) {
	f.LastSearch = req
	if f.err != nil {
		return nil, f.err
	}
	req.Normalize()
	page := pagination.NewPageResponse([]models.User{{ID: 1, Login: "a@x.io"}}, 1, req.Page, req.PageSize)
	return &page, nil
}

func (f *fakeUsers) SetStatus(_ context.Context, id int64, active bool) (*models.User, error) {
	f.LastID, f.LastStatus = id, &active
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: id, Active: active}, nil
}

func (f *fakeUsers) ChangePassword(_ context.Context, id int64, in models.PasswordChange) error {
	f.LastID, f.LastPassword = id, in
	return f.err
}

type fakeProfiles struct {
	err        error
	LastInput  models.ProfileInput
	LastID     int64
	LastSearch pagination.PageRequest[models.ProfileFilter]
}

func (f *fakeProfiles) List(context.Context) ([]models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Profile{{ID: 1, Name: "ADMIN", Active: true, Permissions: []models.Permission{}}}, nil
}

func (f *fakeProfiles) Get(_ context.Context, id int64) (*models.Profile, error) {
	f.LastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Profile{ID: id, Name: "ADMIN"}, nil
}

func (f *fakeProfiles) Create(_ context.Context, in models.ProfileInput) (*models.Profile, error) {
	f.LastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Profile{ID: 2, Name: in.Name}, nil
}

func (f *fakeProfiles) Update(_ context.Context, id int64, in models.ProfileInput) (*models.Profile, error) {
	f.LastID, f.LastInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Profile{ID: id, Name: in.Name}, nil
}

func (f *fakeProfiles) Delete(_ context.Context, id int64) error {
	f.LastID = id
	return f.err
}

func (f *fakeProfiles) Search(_ context.Context, req pagination.PageRequest[models.ProfileFilter]) (*pagination.PageResponse[models.Profile], error) {
	f.LastSearch = req
	if f.err != nil {
		return nil, f.err
	}
	page := pagination.NewPageResponse([]models.Profile{}, 0, 0, 50)
	return &page, nil
}

type fakePermissions struct {
	err        error
	existing   map[string]bool
	LastInput  models.PermissionInput
	LastID     int64
	LastSearch string
}

func (f *fakePermissions) List(context.Context) ([]models.Permission, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Permission{{ID: 1, Name: common.PermSuperAdmin}}, nil
}

func (f *fakePermissions) Get(_ context.Context, id int64) (*models.Permission, error) {
	f.LastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &models.Permission{ID: id, Name: "X"}, nil
}

func (f *fakePermissions) Create(_ context.Context, in models.PermissionInput) (*models.Permission, error) {
	f.LastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Permission{ID: 3, Name: in.Name}, nil
}

func (f *fakePermissions) Update(_ context.Context, id int64, in models.PermissionInput) (*models.Permission, error) {
	f.LastID, f.LastInput = id, in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Permission{ID: id, Name: in.Name}, nil
}

func (f *fakePermissions) Delete(_ context.Context, id int64) error {
	f.LastID = id
	return f.err
}

func (f *fakePermissions) SearchByName(_ context.Context, name string) ([]models.Permission, error) {
	f.LastSearch = name
	if f.err != nil {
		return nil, f.err
	}
	return []models.Permission{{ID: 1, Name: name}}, nil
}

func (f *fakePermissions) Exists(_ context.Context, name string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.existing[name], nil
}

type fakeFiles struct {
	err       error
	blobs     map[string][]byte
	LastOwner int64
	LastName  string
	LastType  string
}

func (f *fakeFiles) Upload(_ context.Context, ownerID int64, name, contentType string, r io.Reader, _ int64) (*models.StoredFile, error) {
	f.LastOwner, f.LastName, f.LastType = ownerID, name, contentType
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	key := "arquivos/2026/10/18/" + name
	if f.blobs == nil {
		f.blobs = map[string][]byte{}
	}
	f.blobs[key] = data
	return &models.StoredFile{Key: key, Name: name, Size: int64(len(data)), ContentType: contentType}, nil
}

func (f *fakeFiles) Download(_ context.Context, key string) (io.ReadCloser, *models.StoredFile, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), &models.StoredFile{Key: key, Name: "report.txt", Size: int64(len(data)), ContentType: "text/plain"}, nil
}

// Tokens recognised by fakeAuth.
const (
	adminToken   = "admin-token"
	viewerToken  = "viewer-token"
	nobodyToken  = "nobody-token"
	viewerUserID = 7
)

type fixture struct {
	auth        *fakeAuth
	users       *fakeUsers
	profiles    *fakeProfiles
	permissions *fakePermissions
	files       *fakeFiles
	router      *Router
}

func newFixture(t *testing.T, mutate ...func(*Deps)) *fixture {
	t.Helper()

	perm := func(name string) models.Permission { return models.Permission{Name: name} }
	f := &fixture{
		auth: &fakeAuth{tokens: map[string]*models.User{
			adminToken: {ID: 1, Login: "admin@x.io", Active: true, Profiles: []models.Profile{
				{Name: "ADMIN", Permissions: []models.Permission{perm(common.PermSuperAdmin)}},
			}},
			viewerToken: {ID: viewerUserID, Login: "viewer@x.io", Active: true, Profiles: []models.Profile{
				{Name: "VIEWER", Permissions: []models.Permission{perm(common.PermListUsers)}},
			}},
			nobodyToken: {ID: 8, Login: "nobody@x.io", Active: true},
		}},
		users:       &fakeUsers{},
		profiles:    &fakeProfiles{},
		permissions: &fakePermissions{existing: map[string]bool{common.PermListUsers: true}},
		files:       &fakeFiles{},
	}

	deps := Deps{
		Auth:          f.auth,
		Users:         f.users,
		Profiles:      f.profiles,
		Permissions:   f.permissions,
		Files:         f.files,
		MaxUploadSize: 1 << 20,
	}
	for _, m := range mutate {
		m(&deps)
	}
	f.router = NewRouter(deps)
	return f
}

// do sends a request through the router and returns the recorded response.
func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}
