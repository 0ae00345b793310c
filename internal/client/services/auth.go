// Package services contains application services for the Bookkeeper CLI:
// session handling and book operations over the API client.
package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/bookkeeper/internal/client/client"
	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
)

// ErrNotLoggedIn is returned by operations that need a session when there
// is none.
var ErrNotLoggedIn = errors.New("not logged in")

// AuthService keeps the CLI session. The token lives in memory only and is
// dropped on logout; there is no refresh.
type AuthService interface {
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout()
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
	Token() (string, error)
	UserName() string
}

type authService struct {
	client client.Client

	mu       sync.RWMutex
	token    string
	userName string
}

func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

func (a *authService) setSession(s *models.Session, fallbackName string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = s.Token
	a.userName = fallbackName
	if s.User != nil && s.User.UserName != "" {
		a.userName = s.User.UserName
	}
}

// Register creates the account and starts a session for it.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	s, err := a.client.Register(ctx, username, password)
	if err != nil {
		return err
	}
	a.setSession(s, username)
	return nil
}

func (a *authService) Login(ctx context.Context, username string, password []byte) error {
	s, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.setSession(s, username)
	return nil
}

func (a *authService) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.userName = ""
}

// Me fetches the current user. An expired token ends the session.
func (a *authService) Me(ctx context.Context) (*models.User, error) {
	token, err := a.Token()
	if err != nil {
		return nil, err
	}
	u, err := a.client.Me(ctx, token)
	if errors.Is(err, client.ErrUnauthorized) {
		a.Logout()
	}
	return u, err
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Token() (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.token == "" {
		return "", ErrNotLoggedIn
	}
	return a.token, nil
}

func (a *authService) UserName() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userName
}
