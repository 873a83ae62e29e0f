package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/client/session"
	"github.com/dmitrijs2005/gophadmin/internal/common"
)

// getSimpleText and getPassword point to the interactive input helpers and
// are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

var (
	errLoginFailed    = errors.New("login failed")
	errSessionExpired = errors.New("session expired")
)

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context, _ []string) error {
	login, err := getSimpleText(a.reader, "Login (email)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res := a.auth.Login(ctx, login, string(password))
	if !res.Success {
		a.log.Info(ctx, "login failed", "login", login)
		return fmt.Errorf("%w: %s", errLoginFailed, res.Message)
	}
	if !a.session.IsAuthenticated() {
		a.log.Info(ctx, "login returned an expired session", "login", login)
		return fmt.Errorf("%w: please log in again", errSessionExpired)
	}

	a.Navigate(ctx, session.HomePath)
	fmt.Fprintf(a.out, "Welcome, %s!\n", displayName(res.User.Login, res.User.Person))
	return nil
}

// Logout ends the session at the user's request.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.LogoutAndRedirect(ctx)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Whoami prints the signed-in user and the permissions they hold.
func (a *App) Whoami(_ context.Context, _ []string) error {
	u := a.session.CurrentUser()
	if u == nil {
		return nil
	}
	fmt.Fprintf(a.out, "%s (id %d)\n", displayName(u.Login, u.Person), u.ID)
	for _, p := range u.Profiles {
		fmt.Fprintf(a.out, "  profile: %s\n", p.Name)
	}
	fmt.Fprintf(a.out, "  permissions: %s\n", strings.Join(u.Permissions(), ", "))
	return nil
}
