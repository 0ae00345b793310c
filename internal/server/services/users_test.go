package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/auth"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, repo users.Repository) (*UserService, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	return NewUserService(repo, tokens, logging.Nop{}), tokens
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newUserService(t, memory.NewUserRepository())

	token, user, err := svc.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$argon2id$"))
	assert.NotContains(t, user.PasswordHash, "correct horse")

	sub, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub)

	token, logged, err := svc.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	sub, err = tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub)

	_, _, err = svc.Login(ctx, "alice", "wrong horse")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func stubHashing(t *testing.T) {
	t.Helper()
	origHash, origVerify := hashPassword, verifyPassword
	t.Cleanup(func() { hashPassword, verifyPassword = origHash, origVerify })

	hashPassword = func(pw []byte) (string, error) { return "h:" + string(pw), nil }
	verifyPassword = func(pw []byte, encoded string) (bool, error) {
		if !strings.HasPrefix(encoded, "h:") {
			return false, errors.New("bad hash")
		}
		return encoded == "h:"+string(pw), nil
	}
}

func TestRegister_Validation(t *testing.T) {
	stubHashing(t)
	svc, _ := newUserService(t, memory.NewUserRepository())

	tests := []struct {
		name     string
		username string
		password string
		fields   []string
	}{
		{"empty", "", "", []string{"username", "password"}},
		{"short username", "al", "secret1", []string{"username"}},
		{"short password", "alice", "12345", []string{"password"}},
		{"non ascii username", "alïce", "secret1", []string{"username"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tt.username, tt.password)
			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.FieldNames())
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	stubHashing(t)
	svc, _ := newUserService(t, memory.NewUserRepository())

	_, _, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	_, _, err = svc.Register(context.Background(), "alice", "secret2")
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
}

func TestRegister_HashError(t *testing.T) {
	stubHashing(t)
	hashPassword = func([]byte) (string, error) { return "", errors.New("no entropy") }
	svc, _ := newUserService(t, memory.NewUserRepository())

	_, _, err := svc.Register(context.Background(), "alice", "secret1")
	assert.ErrorContains(t, err, "no entropy")
}

type brokenUsers struct{ users.Repository }

func (brokenUsers) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, common.StoreError(errors.New("db down"))
}

func TestLogin_StoreErrorIsNotInvalidCredentials(t *testing.T) {
	stubHashing(t)
	svc, _ := newUserService(t, brokenUsers{})

	_, _, err := svc.Login(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, common.ErrStore)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_UnknownUserStillVerifies(t *testing.T) {
	stubHashing(t)
	var verified []string
	verifyPassword = func(pw []byte, encoded string) (bool, error) {
		verified = append(verified, encoded)
		return false, nil
	}
	svc, _ := newUserService(t, memory.NewUserRepository())

	_, _, err := svc.Login(context.Background(), "ghost", "secret1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	require.Len(t, verified, 1)
	assert.NotEmpty(t, verified[0])
}

func TestLogin_UnreadableHash(t *testing.T) {
	stubHashing(t)
	repo := memory.NewUserRepository()
	_, err := repo.Create(context.Background(), &models.User{ID: uuid.NewString(), UserName: "alice", PasswordHash: "garbage"})
	require.NoError(t, err)
	svc, _ := newUserService(t, repo)

	_, _, err = svc.Login(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestMe(t *testing.T) {
	stubHashing(t)
	svc, _ := newUserService(t, memory.NewUserRepository())

	_, user, err := svc.Register(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.UserName)

	_, err = svc.Me(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = svc.Me(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = svc.Me(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
