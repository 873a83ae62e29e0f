// Package guard decides whether the console may enter a screen given the
// current session.
package guard

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/session"
)

// Decision is either Allow or a redirect target.
type Decision struct {
	Allow    bool
	Redirect string
}

// Session is the part of session.Store the guards consult.
type Session interface {
	IsAuthenticated() bool
	Logout(ctx context.Context) string
}

// Auth admits authenticated sessions. Anything else is logged out and sent
// to the login screen.
func Auth(ctx context.Context, s Session) Decision {
	if s.IsAuthenticated() {
		return Decision{Allow: true}
	}
	return Decision{Redirect: s.Logout(ctx)}
}

// Login admits only anonymous sessions; signed-in users go home.
func Login(s Session) Decision {
	if !s.IsAuthenticated() {
		return Decision{Allow: true}
	}
	return Decision{Redirect: session.HomePath}
}
