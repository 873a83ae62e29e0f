package services

import (
	"context"

	"github.com/dmitrijs2005/gophadmin/internal/client/client"
	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
)

// LoginResult reports the outcome of a sign-in attempt. Login never fails
// with an error; callers branch on Success.
type LoginResult struct {
	Success bool
	User    *models.User
	Message string
}

// SessionWriter receives the credentials of a successful sign-in.
type SessionWriter interface {
	SetSession(ctx context.Context, token string, user *models.User) error
}

// AuthService signs users in and resolves a token to its user.
type AuthService interface {
	Login(ctx context.Context, login, password string) LoginResult
	Me(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	gw      Gateway
	session SessionWriter
	log     logging.Logger
}

func NewAuthService(gw Gateway, session SessionWriter, log logging.Logger) AuthService {
	return &authService{gw: gw, session: session, log: log}
}

// Login posts the credentials and, on success, stores the new session.
func (a *authService) Login(ctx context.Context, login, password string) LoginResult {
	var resp models.SignInResponse
	err := a.gw.Post(ctx, "auth/signin", models.SignInRequest{Login: login, Password: password}, &resp)
	if err != nil {
		a.log.Info(ctx, "sign-in rejected", "login", login, "error", err)
		return LoginResult{Message: client.ExtractMessage(err)}
	}
	if resp.Token == "" || resp.User == nil {
		return LoginResult{Message: client.DefaultErrorMessage}
	}

	if err := a.session.SetSession(ctx, resp.Token, resp.User); err != nil {
		a.log.Error(ctx, "storing session", "error", err)
		return LoginResult{Message: client.DefaultErrorMessage}
	}
	return LoginResult{Success: true, User: resp.User}
}

// Me fetches the user token belongs to. The token is sent explicitly so it
// works before the session holds it.
func (a *authService) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := a.gw.Get(ctx, "auth/me", &user,
		client.WithHeader(common.AuthorizationHeaderName, common.BearerPrefix+token))
	if err != nil {
		return nil, err
	}
	return &user, nil
}
