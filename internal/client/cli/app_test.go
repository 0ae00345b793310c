package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/client/client"
	"github.com/dmitrijs2005/bookkeeper/internal/client/config"
	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
	"github.com/dmitrijs2005/bookkeeper/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	token    string
	name     string
	offline  atomic.Bool
	loginErr error
	password []byte
	user     *models.User
}

func (f *fakeAuth) Register(_ context.Context, u string, p []byte) error {
	return f.Login(context.Background(), u, p)
}

func (f *fakeAuth) Login(_ context.Context, u string, p []byte) error {
	f.password = p
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token, f.name = "tok", u
	return nil
}

func (f *fakeAuth) Logout() { f.token, f.name = "", "" }

func (f *fakeAuth) Me(context.Context) (*models.User, error) { return f.user, nil }

func (f *fakeAuth) Ping(context.Context) error {
	if f.offline.Load() {
		return client.ErrUnavailable
	}
	return nil
}

func (f *fakeAuth) Token() (string, error) {
	if f.token == "" {
		return "", services.ErrNotLoggedIn
	}
	return f.token, nil
}

func (f *fakeAuth) UserName() string { return f.name }

type fakeBooks struct {
	family models.Family
	books  map[string]*models.Book
	edited models.BookInput
	added  models.BookInput
	err    error
}

func (f *fakeBooks) Family() models.Family { return f.family }

func (f *fakeBooks) Add(_ context.Context, in models.BookInput) (*models.Book, error) {
	f.added = in
	return &models.Book{ID: "new-id"}, f.err
}

func (f *fakeBooks) List(context.Context, bool) ([]*models.Book, error) {
	out := make([]*models.Book, 0, len(f.books))
	for _, b := range f.books {
		out = append(out, b)
	}
	return out, f.err
}

func (f *fakeBooks) Get(_ context.Context, id string) (*models.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "Book not found"}
	}
	return b, nil
}

func (f *fakeBooks) Edit(_ context.Context, _ string, in models.BookInput) error {
	f.edited = in
	return f.err
}

func (f *fakeBooks) Delete(context.Context, string) error { return f.err }

func (f *fakeBooks) SetCover(_ context.Context, id, _ string) (string, error) {
	return "covers/" + string(f.family) + "/" + id + "/k", f.err
}

func (f *fakeBooks) GetCover(_ context.Context, id string) (string, error) {
	return "covers/" + id + "-k", f.err
}

type fixture struct {
	app    *App
	auth   *fakeAuth
	books  *fakeBooks
	shared *fakeBooks
	out    *bytes.Buffer
}

func newFixture(t *testing.T, input string) *fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	f := &fixture{
		auth:   &fakeAuth{},
		books:  &fakeBooks{family: models.FamilyBooks, books: map[string]*models.Book{}},
		shared: &fakeBooks{family: models.FamilyProfileBooks, books: map[string]*models.Book{}},
		out:    &bytes.Buffer{},
	}
	f.app = newApp(cfg, f.auth, f.books, f.shared, strings.NewReader(input), f.out)

	origPw := getPassword
	getPassword = func(io.Writer) ([]byte, error) { return []byte("secret123"), nil }
	t.Cleanup(func() { getPassword = origPw })
	return f
}

func TestApp_LoginWipesPassword(t *testing.T) {
	f := newFixture(t, "alice\n")

	require.NoError(t, f.app.Login(context.Background()))
	assert.True(t, f.app.isLoggedIn())
	assert.Equal(t, "(alice)", f.app.getStatus())
	assert.Equal(t, make([]byte, len("secret123")), f.auth.password)
	assert.Contains(t, f.out.String(), "Login successful")
}

func TestApp_LoginFailure(t *testing.T) {
	f := newFixture(t, "alice\n")
	f.auth.loginErr = &client.APIError{StatusCode: 401, Message: "Invalid username or password"}

	err := f.app.Login(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, f.app.isLoggedIn())
}

func TestApp_AddReadsFields(t *testing.T) {
	f := newFixture(t, "Dune\nFrank Herbert\n1965\n")

	require.NoError(t, f.app.Add(context.Background(), models.FamilyProfileBooks))
	assert.Equal(t, models.BookInput{Title: "Dune", Author: "Frank Herbert", PublishYear: 1965}, f.shared.added)
	assert.Contains(t, f.out.String(), "Created new-id")
}

func TestApp_EditKeepsCurrentValues(t *testing.T) {
	f := newFixture(t, "\nF. Herbert\n\n")
	f.books.books["b1"] = &models.Book{ID: "b1", Title: "Dune", Author: "Frank Herbert", PublishYear: 1965}

	require.NoError(t, f.app.Edit(context.Background(), models.FamilyBooks, "b1"))
	assert.Equal(t, models.BookInput{Title: "Dune", Author: "F. Herbert", PublishYear: 1965}, f.books.edited)
}

func TestApp_EditMissingBook(t *testing.T) {
	f := newFixture(t, "")
	err := f.app.Edit(context.Background(), models.FamilyBooks, "nope")
	require.ErrorIs(t, err, client.ErrNotFound)
}

func TestApp_ListAndShow(t *testing.T) {
	f := newFixture(t, "")
	f.shared.books["p1"] = &models.Book{
		ID: "p1", Title: "Emma", Author: "Jane Austen", PublishYear: 1815,
		OwnerID: "u2", Owner: &models.Owner{ID: "u2", UserName: "bob"}, CoverKey: "covers/x",
	}
	ctx := context.Background()

	require.NoError(t, f.app.List(ctx, models.FamilyProfileBooks, false))
	assert.Contains(t, f.out.String(), "OWNER")
	assert.Contains(t, f.out.String(), "bob")

	f.out.Reset()
	require.NoError(t, f.app.List(ctx, models.FamilyBooks, true))
	assert.Equal(t, "No books\n", f.out.String())

	f.out.Reset()
	require.NoError(t, f.app.Show(ctx, models.FamilyProfileBooks, "p1"))
	assert.Contains(t, f.out.String(), "Owner:   bob")
	assert.Contains(t, f.out.String(), "Cover:   covers/x")
}

func TestApp_Me(t *testing.T) {
	f := newFixture(t, "")
	f.auth.user = &models.User{ID: "u1", UserName: "alice", BookIDs: []string{"b1", "b2"}}

	require.NoError(t, f.app.Me(context.Background()))
	assert.Contains(t, f.out.String(), "Books:         b1, b2")
	assert.Contains(t, f.out.String(), "Shared books:  -")
}

func TestApp_Covers(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	require.NoError(t, f.app.SetCover(ctx, models.FamilyProfileBooks, "p1", "cover.jpg"))
	assert.Contains(t, f.out.String(), "Cover uploaded: covers/profilebooks/p1/k")

	require.NoError(t, f.app.GetCover(ctx, models.FamilyBooks, "b1"))
	assert.Contains(t, f.out.String(), "Cover saved to covers/b1-k")
}

func TestApp_OnlineStatusWatcher(t *testing.T) {
	f := newFixture(t, "")
	f.auth.offline.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		f.app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.app.Mode() == ModeOffline }, time.Second, 5*time.Millisecond)

	f.auth.offline.Store(false)
	require.Eventually(t, func() bool { return f.app.Mode() == ModeOnline }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestApp_RunEndsOnEOF(t *testing.T) {
	f := newFixture(t, "help\n")
	captureOutput(t)

	f.app.Run(context.Background())
	assert.Contains(t, f.out.String(), "Welcome to Bookkeeper CLI")
	assert.Equal(t, ModeOnline, f.app.Mode())
}
