package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/server/auth"
	"github.com/dmitrijs2005/gophadmin/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	db          DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
}

func NewAuthService(db DB, m repomanager.RepositoryManager, secret string, ttl time.Duration, log logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		log:         log,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
	}
}

// SignIn checks the credentials and issues a bearer token. Unknown logins and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, login, password string) (*models.SignInResponse, error) {
	creds, err := s.repomanager.Users(s.db).GetCredentials(ctx, login)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidLoginPassword
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(creds.PasswordHash, []byte(password)); err != nil {
		s.log.Info(ctx, "sign-in rejected", "login", login)
		return nil, common.ErrorInvalidLoginPassword
	}
	if !creds.Active {
		return nil, common.ErrorInactiveUser
	}

	user, err := loadUser(ctx, s.repomanager, s.db, creds.ID)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	token, err := auth.GenerateToken(user.ID, user.Login, s.secret, s.ttl, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user signed in", "user_id", user.ID)
	return &models.SignInResponse{Token: token, TokenType: common.TokenType, User: user}, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	user, err := loadUser(ctx, s.repomanager, s.db, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}
	if !user.Active {
		return nil, common.ErrorInactiveUser
	}
	return user, nil
}
