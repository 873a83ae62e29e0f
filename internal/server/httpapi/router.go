// Package httpapi serves the REST contract the admin console talks to.
package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

type AuthService interface {
	SignIn(ctx context.Context, login, password string) (*models.SignInResponse, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type UserService interface {
	Create(ctx context.Context, in models.UserInput) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, in models.UserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, req pagination.PageRequest[models.UserFilter]) (*pagination.PageResponse[models.User], error)
	SetStatus(ctx context.Context, id int64, active bool) (*models.User, error)
	ChangePassword(ctx context.Context, id int64, in models.PasswordChange) error
}

type ProfileService interface {
	List(ctx context.Context) ([]models.Profile, error)
	Get(ctx context.Context, id int64) (*models.Profile, error)
	Create(ctx context.Context, in models.ProfileInput) (*models.Profile, error)
	Update(ctx context.Context, id int64, in models.ProfileInput) (*models.Profile, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, req pagination.PageRequest[models.ProfileFilter]) (*pagination.PageResponse[models.Profile], error)
}

type PermissionService interface {
	List(ctx context.Context) ([]models.Permission, error)
	Get(ctx context.Context, id int64) (*models.Permission, error)
	Create(ctx context.Context, in models.PermissionInput) (*models.Permission, error)
	Update(ctx context.Context, id int64, in models.PermissionInput) (*models.Permission, error)
	Delete(ctx context.Context, id int64) error
	SearchByName(ctx context.Context, name string) ([]models.Permission, error)
	Exists(ctx context.Context, name string) (bool, error)
}

type FileService interface {
	Upload(ctx context.Context, ownerID int64, name, contentType string, r io.Reader, size int64) (*models.StoredFile, error)
	Download(ctx context.Context, key string) (io.ReadCloser, *models.StoredFile, error)
}

// Deps are the router's collaborators. Limiter settings of zero disable
// sign-in throttling.
type Deps struct {
	Auth            AuthService
	Users           UserService
	Profiles        ProfileService
	Permissions     PermissionService
	Files           FileService
	Metrics         *Metrics
	Log             logging.Logger
	SignInPerMinute int
	SignInBurst     int
	MaxUploadSize   int64
}

type handler struct {
	auth        AuthService
	users       UserService
	profiles    ProfileService
	permissions PermissionService
	files       FileService
	metrics     *Metrics
	log         logging.Logger
	validate    *validator.Validate
	limiter     *ipLimiter
	maxUpload   int64
}

// Router is the backend's http.Handler.
type Router struct {
	http.Handler
	h *handler
}

// RunMaintenance sweeps idle rate-limit buckets until ctx is done.
func (rt *Router) RunMaintenance(ctx context.Context) {
	if rt.h.limiter != nil {
		rt.h.limiter.run(ctx)
	}
}

func NewRouter(d Deps) *Router {
	h := &handler{
		auth:        d.Auth,
		users:       d.Users,
		profiles:    d.Profiles,
		permissions: d.Permissions,
		files:       d.Files,
		metrics:     d.Metrics,
		log:         d.Log,
		validate:    newValidator(),
		maxUpload:   d.MaxUploadSize,
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}
	if h.log == nil {
		h.log = logging.Discard()
	}
	if d.SignInPerMinute > 0 {
		h.limiter = newIPLimiter(d.SignInPerMinute, max(d.SignInBurst, 1))
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 10 << 20
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(observe(h.log, h.metrics))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.With(h.rateLimit).Post("/auth/signin", h.signIn)

	r.Group(func(ar chi.Router) {
		ar.Use(h.authenticate)

		ar.Get("/auth/me", h.me)

		ar.Route("/usuarios", func(ur chi.Router) {
			ur.With(require(common.PermCreateUser)).Post("/", h.createUser)
			ur.With(require(common.PermListUsers)).Post("/buscar", h.searchUsers)
			ur.With(require(common.PermListUsers)).Get("/{id}", h.getUser)
			ur.With(require(common.PermCreateUser)).Put("/{id}", h.updateUser)
			ur.With(require(common.PermCreateUser)).Delete("/{id}", h.deleteUser)
			ur.With(require(common.PermCreateUser)).Patch("/{id}/status", h.setUserStatus)
			ur.Patch("/{id}/senha", h.changePassword)
			ur.Get("/{id}/permissoes", h.userPermissions)
		})

		ar.Route("/perfis", func(pr chi.Router) {
			read := require(common.PermManageProfiles, common.PermCreateUser)
			write := require(common.PermManageProfiles)
			pr.With(read).Get("/", h.listProfiles)
			pr.With(read).Post("/buscar", h.searchProfiles)
			pr.With(read).Get("/{id}", h.getProfile)
			pr.With(write).Post("/", h.createProfile)
			pr.With(write).Put("/{id}", h.updateProfile)
			pr.With(write).Delete("/{id}", h.deleteProfile)
		})

		ar.Route("/permissoes", func(pr chi.Router) {
			read := require(common.PermManagePermissions, common.PermManageProfiles)
			write := require(common.PermManagePermissions)
			pr.With(read).Get("/", h.listPermissions)
			pr.With(read).Get("/buscar", h.searchPermissions)
			pr.Get("/existe/{nome}", h.permissionExists)
			pr.With(read).Get("/{id}", h.getPermission)
			pr.With(write).Post("/", h.createPermission)
			pr.With(write).Put("/{id}", h.updatePermission)
			pr.With(write).Delete("/{id}", h.deletePermission)
		})

		ar.Post("/arquivos", h.uploadFile)
		ar.Get("/arquivos/*", h.downloadFile)
	})

	return &Router{Handler: r, h: h}
}
