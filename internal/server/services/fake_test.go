package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	srvmodels "github.com/dmitrijs2005/gophadmin/internal/server/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/permissions"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memRepos is an in-memory RepositoryManager. Every repository view shares
// the same tables, so joins behave like the PostgreSQL ones.
type memRepos struct {
	nextID       int64
	users        map[int64]*models.User
	creds        map[int64]*srvmodels.Credentials
	userProfiles map[int64][]int64
	profiles     map[int64]*models.Profile
	profilePerms map[int64][]int64
	perms        map[int64]*models.Permission
	files        map[string]*srvmodels.File

	failWith error

	LastSearchSkip  int
	LastSearchLimit int
}

func newMemRepos() *memRepos {
	return &memRepos{
		users:        map[int64]*models.User{},
		creds:        map[int64]*srvmodels.Credentials{},
		userProfiles: map[int64][]int64{},
		profiles:     map[int64]*models.Profile{},
		profilePerms: map[int64][]int64{},
		perms:        map[int64]*models.Permission{},
		files:        map[string]*srvmodels.File{},
	}
}

func (m *memRepos) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepos) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *memRepos) RollbackMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepos) Users(dbx.DBTX) users.Repository                   { return memUsers{m} }
func (m *memRepos) Profiles(dbx.DBTX) profiles.Repository             { return memProfiles{m} }
func (m *memRepos) Permissions(dbx.DBTX) permissions.Repository       { return memPerms{m} }
func (m *memRepos) Files(dbx.DBTX) files.Repository                   { return memFiles{m} }

// addPermission, addProfile and addUser seed the tables directly.
func (m *memRepos) addPermission(name string) int64 {
	id := m.id()
	m.perms[id] = &models.Permission{ID: id, Name: name}
	return id
}

func (m *memRepos) addProfile(name string, permIDs ...int64) int64 {
	id := m.id()
	m.profiles[id] = &models.Profile{ID: id, Name: name, Active: true}
	m.profilePerms[id] = permIDs
	return id
}

func (m *memRepos) addUser(login string, hash []byte, active bool, profileIDs ...int64) int64 {
	id := m.id()
	m.users[id] = &models.User{ID: id, Login: login, Active: active}
	m.creds[id] = &srvmodels.Credentials{ID: id, Login: login, PasswordHash: hash, Active: active}
	m.userProfiles[id] = profileIDs
	return id
}

type memUsers struct{ m *memRepos }

func (r memUsers) Create(ctx context.Context, u *models.User, hash []byte) (*models.User, error) {
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	for _, c := range r.m.creds {
		if c.Login == u.Login {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = r.m.id()
	cp := *u
	r.m.users[u.ID] = &cp
	r.m.creds[u.ID] = &srvmodels.Credentials{ID: u.ID, Login: u.Login, PasswordHash: hash, Active: u.Active}
	return u, nil
}

func (r memUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	cp.Profiles = []models.Profile{}
	return &cp, nil
}

func (r memUsers) GetCredentials(ctx context.Context, login string) (*srvmodels.Credentials, error) {
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	for _, c := range r.m.creds {
		if c.Login == login {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memUsers) GetCredentialsByID(ctx context.Context, id int64) (*srvmodels.Credentials, error) {
	c, ok := r.m.creds[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memUsers) filtered(f models.UserFilter) []models.User {
	out := []models.User{}
	for _, u := range r.m.users {
		if f.Login != "" && !strings.Contains(u.Login, f.Login) {
			continue
		}
		if f.Active != nil && u.Active != *f.Active {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memUsers) Count(ctx context.Context, f models.UserFilter) (int, error) {
	return len(r.filtered(f)), nil
}

func (r memUsers) Search(ctx context.Context, f models.UserFilter, _ pagination.OrderBy, skip, limit int) ([]models.User, error) {
	r.m.LastSearchSkip, r.m.LastSearchLimit = skip, limit
	all := r.filtered(f)
	if skip > len(all) {
		skip = len(all)
	}
	end := min(skip+limit, len(all))
	return all[skip:end], nil
}

func (r memUsers) Update(ctx context.Context, u *models.User) error {
	if _, ok := r.m.users[u.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *u
	r.m.users[u.ID] = &cp
	r.m.creds[u.ID].Login = u.Login
	r.m.creds[u.ID].Active = u.Active
	return nil
}

func (r memUsers) SetActive(ctx context.Context, id int64, active bool) error {
	if _, ok := r.m.users[id]; !ok {
		return common.ErrorNotFound
	}
	r.m.users[id].Active = active
	r.m.creds[id].Active = active
	return nil
}

func (r memUsers) SetPassword(ctx context.Context, id int64, hash []byte) error {
	c, ok := r.m.creds[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.PasswordHash = hash
	return nil
}

func (r memUsers) SetProfiles(ctx context.Context, userID int64, ids []int64) error {
	for _, id := range ids {
		if _, ok := r.m.profiles[id]; !ok {
			return common.ErrorValidation
		}
	}
	r.m.userProfiles[userID] = ids
	return nil
}

func (r memUsers) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.users[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.users, id)
	delete(r.m.creds, id)
	return nil
}

type memProfiles struct{ m *memRepos }

func (r memProfiles) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	for _, e := range r.m.profiles {
		if e.Name == p.Name {
			return nil, common.ErrorAlreadyExists
		}
	}
	p.ID = r.m.id()
	cp := *p
	r.m.profiles[p.ID] = &cp
	return p, nil
}

func (r memProfiles) Get(ctx context.Context, id int64) (*models.Profile, error) {
	p, ok := r.m.profiles[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memProfiles) sorted(keep func(*models.Profile) bool) []models.Profile {
	out := []models.Profile{}
	for _, p := range r.m.profiles {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memProfiles) List(ctx context.Context) ([]models.Profile, error) {
	return r.sorted(func(*models.Profile) bool { return true }), nil
}

func (r memProfiles) match(f models.ProfileFilter) func(*models.Profile) bool {
	return func(p *models.Profile) bool {
		return strings.Contains(p.Name, f.Name) && (f.Active == nil || p.Active == *f.Active)
	}
}

func (r memProfiles) Count(ctx context.Context, f models.ProfileFilter) (int, error) {
	return len(r.sorted(r.match(f))), nil
}

func (r memProfiles) Search(ctx context.Context, f models.ProfileFilter, _ pagination.OrderBy, skip, limit int) ([]models.Profile, error) {
	r.m.LastSearchSkip, r.m.LastSearchLimit = skip, limit
	all := r.sorted(r.match(f))
	if skip > len(all) {
		skip = len(all)
	}
	return all[skip:min(skip+limit, len(all))], nil
}

func (r memProfiles) ForUser(ctx context.Context, userID int64) ([]models.Profile, error) {
	out := []models.Profile{}
	for _, id := range r.m.userProfiles[userID] {
		if p, ok := r.m.profiles[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r memProfiles) Update(ctx context.Context, p *models.Profile) error {
	if _, ok := r.m.profiles[p.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *p
	r.m.profiles[p.ID] = &cp
	return nil
}

func (r memProfiles) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.profiles[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.profiles, id)
	return nil
}

func (r memProfiles) SetPermissions(ctx context.Context, profileID int64, ids []int64) error {
	for _, id := range ids {
		if _, ok := r.m.perms[id]; !ok {
			return common.ErrorValidation
		}
	}
	r.m.profilePerms[profileID] = ids
	return nil
}

type memPerms struct{ m *memRepos }

func (r memPerms) Create(ctx context.Context, p *models.Permission) (*models.Permission, error) {
	if _, err := r.GetByName(ctx, p.Name); err == nil {
		return nil, common.ErrorAlreadyExists
	}
	p.ID = r.m.id()
	cp := *p
	r.m.perms[p.ID] = &cp
	return p, nil
}

func (r memPerms) Get(ctx context.Context, id int64) (*models.Permission, error) {
	p, ok := r.m.perms[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPerms) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	if r.m.failWith != nil {
		return nil, r.m.failWith
	}
	for _, p := range r.m.perms {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r memPerms) List(ctx context.Context) ([]models.Permission, error) {
	return r.SearchByName(ctx, "")
}

func (r memPerms) SearchByName(ctx context.Context, name string) ([]models.Permission, error) {
	out := []models.Permission{}
	for _, p := range r.m.perms {
		if strings.Contains(p.Name, name) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memPerms) ForProfile(ctx context.Context, profileID int64) ([]models.Permission, error) {
	out := []models.Permission{}
	for _, id := range r.m.profilePerms[profileID] {
		if p, ok := r.m.perms[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r memPerms) Update(ctx context.Context, p *models.Permission) error {
	if _, ok := r.m.perms[p.ID]; !ok {
		return common.ErrorNotFound
	}
	cp := *p
	r.m.perms[p.ID] = &cp
	return nil
}

func (r memPerms) Delete(ctx context.Context, id int64) error {
	if _, ok := r.m.perms[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.m.perms, id)
	return nil
}

type memFiles struct{ m *memRepos }

func (r memFiles) Create(ctx context.Context, f *srvmodels.File) error {
	if r.m.failWith != nil {
		return r.m.failWith
	}
	cp := *f
	r.m.files[f.Key] = &cp
	return nil
}

func (r memFiles) Get(ctx context.Context, key string) (*srvmodels.File, error) {
	f, ok := r.m.files[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *f
	return &cp, nil
}
