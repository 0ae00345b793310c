package client

import (
	"context"

	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
)

// Client is the API contract the CLI services depend on. Calls that need a
// session take the bearer token explicitly.
type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username string, password []byte) (*models.Session, error)
	Login(ctx context.Context, username string, password []byte) (*models.Session, error)
	Me(ctx context.Context, token string) (*models.User, error)

	CreateBook(ctx context.Context, token string, f models.Family, in models.BookInput) (*models.Book, error)
	ListBooks(ctx context.Context, token string, f models.Family, mine bool) (*models.BookList, error)
	GetBook(ctx context.Context, token string, f models.Family, id string) (*models.Book, error)
	UpdateBook(ctx context.Context, token string, f models.Family, id string, in models.BookInput) error
	DeleteBook(ctx context.Context, token string, f models.Family, id string) error
	CoverUploadURL(ctx context.Context, token string, f models.Family, id string) (*models.CoverURL, error)
	CoverDownloadURL(ctx context.Context, token string, f models.Family, id string) (*models.CoverURL, error)
}
