package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/client/config"
	"github.com/dmitrijs2005/gophadmin/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophadmin/internal/client/services"
	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// App wires the console: local storage, the HTTP gateway, the session and
// the resource services.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	session     *session.Store
	auth        services.AuthService
	users       services.UserService
	profiles    services.ProfileService
	permissions services.PermissionService
	files       services.FileService

	reader *bufio.Reader
	out    io.Writer

	// screen is written by the REPL and by the auto-logout timer.
	mu     sync.Mutex
	screen string
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init local database: %w", err)
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		screen: session.LoginPath,
	}

	gw := client.NewHTTPClient(c.BaseURL, c.RequestTimeout)
	tokens := session.NewMetadataTokenStore(metadata.NewSQLiteRepository(db))
	a.session = session.NewStore(tokens,
		session.WithNavigator(a),
		session.WithLogger(log),
	)
	gw.SetTokenSource(a.session)

	a.auth = services.NewAuthService(gw, a.session, log)
	a.users = services.NewUserService(gw)
	a.profiles = services.NewProfileService(gw)
	a.permissions = services.NewPermissionService(gw, log)
	a.files = services.NewFileService(gw)
	return a, nil
}

// Run restores any persisted session and then serves the REPL until the
// user quits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	if err := a.session.Initialize(ctx, a.auth); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if a.session.IsAuthenticated() {
		a.setScreen(session.HomePath)
	}

	fmt.Fprintln(a.out, "gophadmin console (type 'help' for commands)")
	runREPL(ctx, a, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Navigate implements session.Navigator. Reaching the login screen from an
// expired session is announced to the user.
func (a *App) Navigate(ctx context.Context, path string) {
	if !a.setScreen(path) {
		return
	}
	a.log.Debug(ctx, "navigate", "path", path)
	if path == session.LoginPath {
		printlnFn("Session ended. Please log in again.")
	}
}

// Screen returns the path the console is currently on.
func (a *App) Screen() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

// setScreen moves to path and reports whether that was a change.
func (a *App) setScreen(path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if path == a.screen {
		return false
	}
	a.screen = path
	return true
}

func (a *App) prompt() string {
	if u := a.session.CurrentUser(); u != nil {
		return fmt.Sprintf("gophadmin (%s)> ", u.Login)
	}
	return "gophadmin> "
}

func (a *App) guardSession() sessionView { return a.session }
