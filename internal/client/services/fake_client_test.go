package services

import (
	"context"

	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
)

// fakeClient implements client.Client for unit tests.
type fakeClient struct {
	session *models.Session
	user    *models.User
	book    *models.Book
	list    *models.BookList
	cover   *models.CoverURL
	err     error

	calls     []string
	lastToken string
	lastInput models.BookInput
	lastMine  bool
}

func (f *fakeClient) record(call, token string) { f.calls = append(f.calls, call); f.lastToken = token }

func (f *fakeClient) Ping(context.Context) error { f.record("ping", ""); return f.err }

func (f *fakeClient) Register(_ context.Context, _ string, _ []byte) (*models.Session, error) {
	f.record("register", "")
	return f.session, f.err
}

func (f *fakeClient) Login(_ context.Context, _ string, _ []byte) (*models.Session, error) {
	f.record("login", "")
	return f.session, f.err
}

func (f *fakeClient) Me(_ context.Context, token string) (*models.User, error) {
	f.record("me", token)
	return f.user, f.err
}

func (f *fakeClient) CreateBook(_ context.Context, token string, _ models.Family, in models.BookInput) (*models.Book, error) {
	f.record("create", token)
	f.lastInput = in
	return f.book, f.err
}

func (f *fakeClient) ListBooks(_ context.Context, token string, _ models.Family, mine bool) (*models.BookList, error) {
	f.record("list", token)
	f.lastMine = mine
	return f.list, f.err
}

func (f *fakeClient) GetBook(_ context.Context, token string, _ models.Family, _ string) (*models.Book, error) {
	f.record("get", token)
	return f.book, f.err
}

func (f *fakeClient) UpdateBook(_ context.Context, token string, _ models.Family, _ string, in models.BookInput) error {
	f.record("update", token)
	f.lastInput = in
	return f.err
}

func (f *fakeClient) DeleteBook(_ context.Context, token string, _ models.Family, _ string) error {
	f.record("delete", token)
	return f.err
}

func (f *fakeClient) CoverUploadURL(_ context.Context, token string, _ models.Family, _ string) (*models.CoverURL, error) {
	f.record("coverUpload", token)
	return f.cover, f.err
}

func (f *fakeClient) CoverDownloadURL(_ context.Context, token string, _ models.Family, _ string) (*models.CoverURL, error) {
	f.record("coverDownload", token)
	return f.cover, f.err
}
