package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/services"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/client/token"
	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type memTokens struct{ v string }

func (m *memTokens) Load(context.Context) (string, error)   { return m.v, nil }
func (m *memTokens) Save(_ context.Context, v string) error { m.v = v; return nil }
func (m *memTokens) Delete(context.Context) error           { m.v = ""; return nil }

type fakeAuth struct {
	result    services.LoginResult
	store     *session.Store
	token     string
	LastLogin string
	LastPass  string
}

func (f *fakeAuth) Login(ctx context.Context, login, password string) services.LoginResult {
	f.LastLogin, f.LastPass = login, password
	if f.store != nil && f.result.Success {
		if err := f.store.SetSession(ctx, f.token, f.result.User); err != nil {
			return services.LoginResult{Message: client.DefaultErrorMessage}
		}
	}
	return f.result
}

func (f *fakeAuth) Me(context.Context, string) (*models.User, error) {
	return nil, client.ErrUnavailable
}

type fakeUsers struct {
	services.UserService
	page         *pagination.PageResponse[models.User]
	err          error
	LastSearch   pagination.PageRequest[models.UserFilter]
	LastCreate   models.UserInput
	LastStatusID int64
	LastActive   bool
	LastDeleted  int64
}

func (f *fakeUsers) Search(_ context.Context, req pagination.PageRequest[models.UserFilter]) (*pagination.PageResponse[models.User], error) {
	f.LastSearch = req
	return f.page, f.err
}

func (f *fakeUsers) Create(_ context.Context, in models.UserInput) (*models.User, error) {
	f.LastCreate = in
	return &models.User{ID: 11, Login: in.Login}, f.err
}

func (f *fakeUsers) SetStatus(_ context.Context, id int64, active bool) (*models.User, error) {
	f.LastStatusID, f.LastActive = id, active
	return &models.User{ID: id, Active: active}, f.err
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.LastDeleted = id
	return f.err
}

type fakePermissions struct {
	services.PermissionService
	exists     bool
	LastCreate models.PermissionInput
}

func (f *fakePermissions) Exists(context.Context, string) bool { return f.exists }

func (f *fakePermissions) Create(_ context.Context, in models.PermissionInput) (*models.Permission, error) {
	f.LastCreate = in
	return &models.Permission{ID: 3, Name: in.Name}, nil
}

type fakeProfiles struct {
	services.ProfileService
	LastCreate models.ProfileInput
}

func (f *fakeProfiles) Create(_ context.Context, in models.ProfileInput) (*models.Profile, error) {
	f.LastCreate = in
	return &models.Profile{ID: 4, Name: in.Name}, nil
}

type fakeFiles struct {
	LastName string
	LastBody []byte
	data     []byte
}

func (f *fakeFiles) Upload(_ context.Context, name string, r io.Reader) (*models.StoredFile, error) {
	f.LastName = name
	f.LastBody, _ = io.ReadAll(r)
	return &models.StoredFile{Key: "k1", Name: name, Size: int64(len(f.LastBody))}, nil
}

func (f *fakeFiles) Download(context.Context, string) ([]byte, error) { return f.data, nil }

// ---- helpers ----

func newTestApp(t *testing.T, lines ...string) (*App, *bytes.Buffer) {
	t.Helper()
	capturePrint(t)
	var out bytes.Buffer
	a := &App{
		log:    logging.Discard(),
		reader: bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n")),
		out:    &out,
		screen: session.LoginPath,
	}
	a.session = session.NewStore(&memTokens{}, session.WithNavigator(a))
	return a, &out
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })
	getPassword = func(io.Writer) ([]byte, error) {
		pw := pws[0]
		pws = pws[1:]
		return []byte(pw), nil
	}
}

func signIn(t *testing.T, a *App, u *models.User) {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		UserID:           token.ID(strconv.FormatInt(u.ID, 10)),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	raw, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, a.session.SetSession(context.Background(), raw, u))
}

// ---- tests ----

func TestLogin_Success(t *testing.T) {
	a, out := newTestApp(t, "ana@example.com")
	stubPasswords(t, "secret")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		UserID:           "1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	raw, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	user := &models.User{ID: 1, Login: "ana@example.com", Person: &models.Person{Name: "Ana"}}
	auth := &fakeAuth{result: services.LoginResult{Success: true, User: user}, store: a.session, token: raw}
	a.auth = auth

	require.NoError(t, a.Login(context.Background(), nil))
	assert.Equal(t, "ana@example.com", auth.LastLogin)
	assert.Equal(t, "secret", auth.LastPass)
	assert.Equal(t, session.HomePath, a.Screen())
	assert.Contains(t, out.String(), "Welcome, Ana!")
}

func TestLogin_ExpiredTokenStaysOnLogin(t *testing.T) {
	a, out := newTestApp(t, "ana@example.com")
	stubPasswords(t, "secret")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		UserID:           "1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
	})
	raw, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	user := &models.User{ID: 1, Login: "ana@example.com"}
	a.auth = &fakeAuth{result: services.LoginResult{Success: true, User: user}, store: a.session, token: raw}

	err = a.Login(context.Background(), nil)
	require.ErrorIs(t, err, errSessionExpired)
	assert.False(t, a.session.IsAuthenticated())
	assert.Equal(t, session.LoginPath, a.Screen())
	assert.NotContains(t, out.String(), "Welcome")
}

func TestLogin_Failure(t *testing.T) {
	a, _ := newTestApp(t, "ana@example.com")
	stubPasswords(t, "wrong")
	a.auth = &fakeAuth{result: services.LoginResult{Message: "Credenciais inválidas"}}

	err := a.Login(context.Background(), nil)
	require.ErrorIs(t, err, errLoginFailed)
	assert.Contains(t, client.ExtractMessage(err), "Credenciais inválidas")
	assert.Equal(t, session.LoginPath, a.Screen())
}

func TestLogout_NavigatesToLogin(t *testing.T) {
	a, out := newTestApp(t)
	signIn(t, a, &models.User{ID: 1})
	a.setScreen(session.HomePath)

	require.NoError(t, a.Logout(context.Background(), nil))
	assert.False(t, a.session.IsAuthenticated())
	assert.Equal(t, session.LoginPath, a.Screen())
	assert.Contains(t, out.String(), "Logged out.")
}

func TestWhoami(t *testing.T) {
	a, out := newTestApp(t)
	signIn(t, a, &models.User{ID: 5, Login: "bob", Profiles: []models.Profile{
		{Name: "ops", Permissions: []models.Permission{{Name: common.PermListUsers}, {Name: common.PermManageProfiles}}},
	}})

	require.NoError(t, a.Whoami(context.Background(), nil))
	assert.Contains(t, out.String(), "bob (id 5)")
	assert.Contains(t, out.String(), "LISTAR_USUARIOS, GERENCIAR_PERFIS")
}

func TestListUsers(t *testing.T) {
	a, out := newTestApp(t)
	users := &fakeUsers{page: &pagination.PageResponse[models.User]{
		Count: 1, Total: 21, Page: 1, LastPage: 2, PageSize: 20,
		Records: []models.User{{ID: 7, Login: "ana", Active: true}},
	}}
	a.users = users

	require.NoError(t, a.ListUsers(context.Background(), []string{"2", "ana"}))
	assert.Equal(t, 1, users.LastSearch.Page)
	assert.Equal(t, userPageSize, users.LastSearch.PageSize)
	assert.Equal(t, "ana", users.LastSearch.Filter.Login)
	assert.Equal(t, pagination.Asc, users.LastSearch.OrderBy["id"])
	assert.Contains(t, out.String(), "ana")
	assert.Contains(t, out.String(), "page 2 of 2, 1 of 21 users")

	assert.Error(t, a.ListUsers(context.Background(), []string{"zero"}))
}

func TestCreateUser(t *testing.T) {
	a, out := newTestApp(t, "new@example.com", "Novo Usuário", "12345678901", "1, 2")
	stubPasswords(t, "secret1")
	users := &fakeUsers{}
	a.users = users

	require.NoError(t, a.CreateUser(context.Background(), nil))
	in := users.LastCreate
	assert.Equal(t, "new@example.com", in.Login)
	assert.Equal(t, "secret1", in.Password)
	assert.Equal(t, []int64{1, 2}, in.ProfileIDs())
	require.NotNil(t, in.Person)
	assert.Equal(t, models.PersonIndividual, in.Person.Type)
	assert.Contains(t, out.String(), "created with id 11")
}

func TestCreateUser_ShortPassword(t *testing.T) {
	a, _ := newTestApp(t, "new@example.com")
	stubPasswords(t, "123")
	users := &fakeUsers{}
	a.users = users

	require.Error(t, a.CreateUser(context.Background(), nil))
	assert.Empty(t, users.LastCreate.Login)
}

func TestSetUserStatus(t *testing.T) {
	a, _ := newTestApp(t)
	users := &fakeUsers{}
	a.users = users

	require.NoError(t, a.SetUserStatus(context.Background(), []string{"3", "off"}))
	assert.Equal(t, int64(3), users.LastStatusID)
	assert.False(t, users.LastActive)

	require.Error(t, a.SetUserStatus(context.Background(), []string{"3", "maybe"}))
	require.Error(t, a.SetUserStatus(context.Background(), []string{"3"}))
}

func TestDeleteUser_ServiceError(t *testing.T) {
	a, _ := newTestApp(t)
	a.users = &fakeUsers{err: &client.UserError{Message: "não permitido"}}

	err := a.DeleteUser(context.Background(), []string{"9"})
	assert.Equal(t, "não permitido", client.ExtractMessage(err))
}

func TestCreateProfile(t *testing.T) {
	a, _ := newTestApp(t, "AUDITOR", "4,5")
	profiles := &fakeProfiles{}
	a.profiles = profiles

	require.NoError(t, a.CreateProfile(context.Background(), nil))
	assert.Equal(t, models.ProfileInput{Name: "AUDITOR", PermissionIDs: []int64{4, 5}}, profiles.LastCreate)
}

func TestCreatePermission(t *testing.T) {
	a, out := newTestApp(t, "exportar relatorios", "relatorios", "exportar", "Permite exportar", "")
	perms := &fakePermissions{}
	a.permissions = perms

	require.NoError(t, a.CreatePermission(context.Background(), nil))
	assert.Equal(t, "EXPORTAR RELATORIOS", perms.LastCreate.Name)
	assert.Equal(t, "relatorios", perms.LastCreate.Resource)
	assert.Equal(t, "exportar", perms.LastCreate.Action)
	assert.Equal(t, "Permite exportar", perms.LastCreate.Description)
	assert.Contains(t, out.String(), "created with id 3")
}

func TestCreatePermission_AlreadyExists(t *testing.T) {
	a, _ := newTestApp(t, "SUPER_ADMIN")
	perms := &fakePermissions{exists: true}
	a.permissions = perms

	require.Error(t, a.CreatePermission(context.Background(), nil))
	assert.Empty(t, perms.LastCreate.Name)
}

func TestUploadDownload(t *testing.T) {
	a, out := newTestApp(t)
	files := &fakeFiles{data: []byte("payload")}
	a.files = files
	dir := t.TempDir()
	src := filepath.Join(dir, "report.csv")
	require.NoError(t, os.WriteFile(src, []byte("a,b"), 0o600))

	require.NoError(t, a.Upload(context.Background(), []string{src}))
	assert.Equal(t, "report.csv", files.LastName)
	assert.Equal(t, []byte("a,b"), files.LastBody)
	assert.Contains(t, out.String(), "key k1")

	dst := filepath.Join(dir, "out.bin")
	require.NoError(t, a.Download(context.Background(), []string{"k1", dst}))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	assert.Error(t, a.Upload(context.Background(), nil))
	assert.Error(t, a.Download(context.Background(), []string{"k1"}))
}

func TestNavigate_AnnouncesExpiry(t *testing.T) {
	a, _ := newTestApp(t)
	lines := capturePrint(t)
	a.setScreen(session.HomePath)

	a.Navigate(context.Background(), session.LoginPath)
	a.Navigate(context.Background(), session.LoginPath)

	assert.Equal(t, session.LoginPath, a.Screen())
	assert.Len(t, *lines, 1)
}

func TestNavigate_ConcurrentWithExpiryTimer(t *testing.T) {
	a, _ := newTestApp(t)
	ended := make(chan struct{})
	var once sync.Once
	orig := printlnFn
	printlnFn = func(...any) (int, error) {
		once.Do(func() { close(ended) })
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		UserID:           "1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(1500 * time.Millisecond))},
	})
	raw, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	require.NoError(t, a.session.SetSession(context.Background(), raw, &models.User{ID: 1}))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		paths := []string{session.HomePath, "/users", "/profiles"}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			a.Navigate(context.Background(), paths[i%len(paths)])
			_ = a.Screen()
		}
	}()

	select {
	case <-ended:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not expire")
	}
	close(stop)
	wg.Wait()

	assert.False(t, a.session.IsAuthenticated())
	a.Navigate(context.Background(), session.LoginPath)
	assert.Equal(t, session.LoginPath, a.Screen())
}

func TestPrompt(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, "gophadmin> ", a.prompt())
	signIn(t, a, &models.User{ID: 1, Login: "ana"})
	assert.Equal(t, "gophadmin (ana)> ", a.prompt())
}
