// Package services implements the server's business operations on top of
// the repositories: account registration and login, and the book lifecycle.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/cryptox"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/auth"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/users"
	"github.com/google/uuid"
)

var (
	hashPassword   = cryptox.HashPassword
	verifyPassword = cryptox.VerifyPassword
)

type Credentials struct {
	UserName string `json:"username" validate:"required,printascii,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type UserService struct {
	users  users.Repository
	tokens *auth.TokenService
	log    logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(repo users.Repository, tokens *auth.TokenService, log logging.Logger) *UserService {
	return &UserService{
		users:  repo,
		tokens: tokens,
		log:    log.With("module", "users"),
	}
}

// Register creates an account and returns a token for it.
func (s *UserService) Register(ctx context.Context, userName, password string) (string, *models.User, error) {
	if err := validateStruct(Credentials{UserName: userName, Password: password}); err != nil {
		return "", nil, err
	}

	pw := []byte(password)
	defer cryptox.WipeByteArray(pw)

	hash, err := hashPassword(pw)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		PasswordHash: hash,
	})
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return token, user, nil
}

// Login checks the credentials and returns a fresh token. Unknown users and
// wrong passwords both yield common.ErrInvalidCredentials after a full hash
// verification.
func (s *UserService) Login(ctx context.Context, userName, password string) (string, *models.User, error) {
	pw := []byte(password)
	defer cryptox.WipeByteArray(pw)

	user, err := s.users.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = verifyPassword(pw, s.dummy())
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, err
	}

	ok, err := verifyPassword(pw, user.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "stored password hash is unreadable", "user_id", user.ID, "error", err)
		return "", nil, common.ErrInvalidCredentials
	}
	if !ok {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// Me returns the account of the authenticated actor.
func (s *UserService) Me(ctx context.Context, actorID string) (*models.User, error) {
	if actorID == "" {
		return nil, common.ErrUnauthenticated
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.users.GetByID(ctx, actorID)
}

// dummy is a throwaway hash verified for unknown usernames.
func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := hashPassword([]byte(uuid.NewString()))
		if err != nil {
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
