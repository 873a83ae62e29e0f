// Package session owns the console's authentication state: the persisted
// bearer token, the signed-in user and the auto-logout timer.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/client/token"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// State is a read-only view of the session.
type State struct {
	Authenticated bool
	User          *models.User
}

// ProfileFetcher loads the user a token belongs to.
type ProfileFetcher interface {
	Me(ctx context.Context, token string) (*models.User, error)
}

// Navigator moves the console to another screen.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

type Option func(*Store)

func WithNavigator(n Navigator) Option { return func(s *Store) { s.nav = n } }

func WithScheduler(sch *Scheduler) Option { return func(s *Store) { s.scheduler = sch } }

func WithLogger(l logging.Logger) Option { return func(s *Store) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Store is the single owner of session state. Every change bumps a
// generation counter; timers and profile fetches started under an older
// generation are ignored when they complete.
type Store struct {
	tokens    TokenStore
	scheduler *Scheduler
	nav       Navigator
	log       logging.Logger
	now       func() time.Time

	mu      sync.Mutex
	gen     uint64
	token   string
	state   State
	subs    map[int]func(State)
	nextSub int
}

func NewStore(tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		tokens:    tokens,
		scheduler: NewScheduler(),
		log:       logging.Discard(),
		now:       time.Now,
		subs:      make(map[int]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize restores the session from the persisted token. Network failures
// leave the session logged out; only storage errors are returned.
func (s *Store) Initialize(ctx context.Context, fetcher ProfileFetcher) error {
	raw, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if raw == "" {
		return nil
	}

	payload, err := token.Decode(raw)
	if err != nil || !payload.Valid(s.now()) {
		s.log.Info(ctx, "discarding stored token", "malformed", err != nil)
		if err := s.tokens.Delete(ctx); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		return nil
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	user, err := fetcher.Me(ctx, raw)
	if err != nil {
		s.log.Warn(ctx, "restoring session failed", "error", err)
		if !s.current(gen) {
			return nil
		}
		return s.ClearSession(ctx)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		s.log.Debug(ctx, "stale session restore discarded")
		return nil
	}
	gen = s.setLocked(raw, user)
	s.mu.Unlock()

	s.notify()
	s.arm(ctx, payload.Remaining(s.now()), gen)
	return nil
}

// SetSession persists tok and marks user as signed in. The auto-logout timer
// is armed for the token's remaining lifetime.
func (s *Store) SetSession(ctx context.Context, tok string, user *models.User) error {
	payload, err := token.Decode(tok)
	if err != nil {
		return err
	}
	if err := s.tokens.Save(ctx, tok); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.mu.Lock()
	gen := s.setLocked(tok, user)
	s.mu.Unlock()

	s.notify()
	s.arm(ctx, payload.Remaining(s.now()), gen)
	return nil
}

// ClearSession forgets the token and user and cancels the auto-logout timer.
// In-memory state is cleared even when deleting the persisted token fails.
func (s *Store) ClearSession(ctx context.Context) error {
	s.scheduler.Cancel()

	s.mu.Lock()
	s.gen++
	s.token = ""
	s.state = State{}
	s.mu.Unlock()

	s.notify()

	if err := s.tokens.Delete(ctx); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Logout clears the session and returns where the caller should go next.
func (s *Store) Logout(ctx context.Context) string {
	if err := s.ClearSession(ctx); err != nil {
		s.log.Error(ctx, "logout", "error", err)
	}
	return LoginPath
}

// LogoutAndRedirect clears the session and navigates to the login screen.
func (s *Store) LogoutAndRedirect(ctx context.Context) {
	target := s.Logout(ctx)
	if s.nav != nil {
		s.nav.Navigate(ctx, target)
	}
}

// Token returns the current bearer token, "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Authenticated
}

func (s *Store) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe calls fn with the current state and again after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	st := s.state
	s.mu.Unlock()

	fn(st)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) setLocked(tok string, user *models.User) uint64 {
	s.gen++
	s.token = tok
	s.state = State{Authenticated: true, User: user}
	return s.gen
}

func (s *Store) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *Store) arm(ctx context.Context, remaining time.Duration, gen uint64) {
	ctx = context.WithoutCancel(ctx)
	s.scheduler.Arm(remaining, func() {
		if !s.current(gen) {
			return
		}
		s.log.Info(ctx, "session expired")
		s.LogoutAndRedirect(ctx)
	})
}

func (s *Store) notify() {
	s.mu.Lock()
	st := s.state
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
