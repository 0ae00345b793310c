package services

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/dmitrijs2005/bookkeeper/internal/client/client"
	"github.com/dmitrijs2005/bookkeeper/internal/client/models"
	"github.com/dmitrijs2005/bookkeeper/internal/filex"
	"github.com/dmitrijs2005/bookkeeper/internal/netx"
)

// CoversDir is where downloaded covers are written, relative to the working
// directory.
const CoversDir = "covers"

var (
	readFile       = filex.ReadLimited
	saveFile       = filex.SaveToSubdDir
	uploadObject   = netx.UploadToS3PresignedURL
	downloadObject = netx.DownloadFromS3PresignedURL
)

// BookService runs book operations for one family on behalf of the logged-in
// user.
type BookService interface {
	Family() models.Family
	Add(ctx context.Context, in models.BookInput) (*models.Book, error)
	List(ctx context.Context, mine bool) ([]*models.Book, error)
	Get(ctx context.Context, id string) (*models.Book, error)
	Edit(ctx context.Context, id string, in models.BookInput) error
	Delete(ctx context.Context, id string) error
	SetCover(ctx context.Context, id, filePath string) (string, error)
	GetCover(ctx context.Context, id string) (string, error)
}

type bookService struct {
	family models.Family
	client client.Client
	auth   AuthService
}

func NewBookService(f models.Family, c client.Client, auth AuthService) BookService {
	return &bookService{family: f, client: c, auth: auth}
}

func (s *bookService) Family() models.Family { return s.family }

// token returns the session token and ends the session when a call using it
// came back unauthenticated.
func (s *bookService) token() (string, func(error) error, error) {
	t, err := s.auth.Token()
	if err != nil {
		return "", nil, err
	}
	check := func(err error) error {
		if errors.Is(err, client.ErrUnauthorized) {
			s.auth.Logout()
		}
		return err
	}
	return t, check, nil
}

func (s *bookService) Add(ctx context.Context, in models.BookInput) (*models.Book, error) {
	t, check, err := s.token()
	if err != nil {
		return nil, err
	}
	b, err := s.client.CreateBook(ctx, t, s.family, in)
	return b, check(err)
}

func (s *bookService) List(ctx context.Context, mine bool) ([]*models.Book, error) {
	t, check, err := s.token()
	if err != nil {
		return nil, err
	}
	l, err := s.client.ListBooks(ctx, t, s.family, mine)
	if err != nil {
		return nil, check(err)
	}
	return l.Data, nil
}

func (s *bookService) Get(ctx context.Context, id string) (*models.Book, error) {
	t, check, err := s.token()
	if err != nil {
		return nil, err
	}
	b, err := s.client.GetBook(ctx, t, s.family, id)
	return b, check(err)
}

func (s *bookService) Edit(ctx context.Context, id string, in models.BookInput) error {
	t, check, err := s.token()
	if err != nil {
		return err
	}
	return check(s.client.UpdateBook(ctx, t, s.family, id, in))
}

func (s *bookService) Delete(ctx context.Context, id string) error {
	t, check, err := s.token()
	if err != nil {
		return err
	}
	return check(s.client.DeleteBook(ctx, t, s.family, id))
}

// SetCover uploads the file at filePath as the cover of book id and returns
// the object key.
func (s *bookService) SetCover(ctx context.Context, id, filePath string) (string, error) {
	t, check, err := s.token()
	if err != nil {
		return "", err
	}

	data, err := readFile(filePath, filex.MaxCoverSize)
	if err != nil {
		return "", err
	}

	u, err := s.client.CoverUploadURL(ctx, t, s.family, id)
	if err != nil {
		return "", check(err)
	}
	if err := uploadObject(ctx, u.URL, data); err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	return u.Key, nil
}

// GetCover downloads the cover of book id into CoversDir and returns the
// local path.
func (s *bookService) GetCover(ctx context.Context, id string) (string, error) {
	t, check, err := s.token()
	if err != nil {
		return "", err
	}

	u, err := s.client.CoverDownloadURL(ctx, t, s.family, id)
	if err != nil {
		return "", check(err)
	}
	data, err := downloadObject(ctx, u.URL)
	if err != nil {
		return "", fmt.Errorf("download cover: %w", err)
	}
	return saveFile(CoversDir, id+"-"+path.Base(u.Key), data)
}
