package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/policy"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/bookkeeper/internal/server/storage"
	"github.com/google/uuid"
)

// ErrCoversDisabled is returned by the cover operations when no object
// store is configured.
var ErrCoversDisabled = errors.New("cover storage is not configured")

// SyncFailureFunc is called when a book write succeeded but the matching
// back-reference update on the owner did not. op is "add" or "remove".
type SyncFailureFunc func(kind models.Kind, op string)

// CoverURL is a presigned URL for a cover object.
type CoverURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// BookService coordinates the lifecycle of one book family: it checks the
// ownership policy, writes the book and keeps the owner's back-reference set
// in step.
//
// Create and Delete are two separate writes. A failed back-reference write
// is logged and reported through the sync hook; the book write stands.
type BookService struct {
	kind       models.Kind
	visibility policy.Visibility
	books      books.Repository
	users      users.Repository
	covers     storage.CoverStore
	log        logging.Logger
	onSync     SyncFailureFunc
	newID      func() string
}

type Option func(*BookService)

func WithCoverStore(cs storage.CoverStore) Option {
	return func(s *BookService) { s.covers = cs }
}

func WithSyncFailureHook(fn SyncFailureFunc) Option {
	return func(s *BookService) { s.onSync = fn }
}

func NewBookService(kind models.Kind, vis policy.Visibility, bookRepo books.Repository, userRepo users.Repository,
	log logging.Logger, opts ...Option) *BookService {
	s := &BookService{
		kind:       kind,
		visibility: vis,
		books:      bookRepo,
		users:      userRepo,
		log:        log.With("module", "books", "kind", string(kind)),
		onSync:     func(models.Kind, string) {},
		newID:      uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *BookService) Kind() models.Kind { return s.kind }

func (s *BookService) Visibility() policy.Visibility { return s.visibility }

func (s *BookService) Create(ctx context.Context, actorID string, fields models.BookFields) (*models.Book, error) {
	if actorID == "" {
		return nil, common.ErrUnauthenticated
	}
	if err := validateStruct(fields); err != nil {
		return nil, err
	}

	book, err := s.books.Create(ctx, &models.Book{
		ID:          s.newID(),
		OwnerID:     actorID,
		Title:       *fields.Title,
		Author:      *fields.Author,
		PublishYear: *fields.PublishYear,
	})
	if err != nil {
		return nil, err
	}

	if err := s.users.AddOwned(ctx, actorID, s.kind, book.ID); err != nil {
		s.syncFailed(ctx, "add", actorID, book.ID, err)
	}

	return book, nil
}

func (s *BookService) Update(ctx context.Context, actorID, id string, fields models.BookFields) (*models.Book, error) {
	book, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actorID, book, policy.Write, s.visibility).Err(); err != nil {
		return nil, err
	}
	if err := validateStruct(fields); err != nil {
		return nil, err
	}

	if err := s.books.Update(ctx, book.ID, fields); err != nil {
		return nil, err
	}

	return s.books.Get(ctx, book.ID)
}

func (s *BookService) Delete(ctx context.Context, actorID, id string) error {
	book, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actorID, book, policy.Delete, s.visibility).Err(); err != nil {
		return err
	}

	if err := s.books.Delete(ctx, book.ID); err != nil {
		return err
	}

	if err := s.users.RemoveOwned(ctx, book.OwnerID, s.kind, book.ID); err != nil {
		s.syncFailed(ctx, "remove", book.OwnerID, book.ID, err)
	}
	return nil
}

// GetOne returns a single book with its owner attached. A private book the
// actor cannot see is reported as common.ErrorNotFound.
func (s *BookService) GetOne(ctx context.Context, actorID, id string) (*models.Book, error) {
	book, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(actorID, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ListMine lists the actor's books from the book table itself.
func (s *BookService) ListMine(ctx context.Context, actorID string) ([]*models.Book, error) {
	if actorID == "" {
		return nil, common.ErrUnauthenticated
	}
	return s.books.ListByOwner(ctx, actorID)
}

// ListAll lists every book of a shared family. Private families cannot be
// listed across owners.
func (s *BookService) ListAll(ctx context.Context) ([]*models.Book, error) {
	if s.visibility != policy.Shared {
		return nil, common.ErrNotAuthorized
	}
	return s.books.ListAll(ctx)
}

// CoverUploadURL assigns a fresh cover key to the book and returns a
// presigned upload URL for it. Only the owner may set a cover.
func (s *BookService) CoverUploadURL(ctx context.Context, actorID, id string) (*CoverURL, error) {
	if s.covers == nil {
		return nil, ErrCoversDisabled
	}
	book, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actorID, book, policy.Write, s.visibility).Err(); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("covers/%s/%s/%s", s.kind, book.ID, s.newID())

	url, err := s.covers.PresignPut(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := s.books.SetCoverKey(ctx, book.ID, key); err != nil {
		return nil, err
	}

	return &CoverURL{Key: key, URL: url}, nil
}

// CoverDownloadURL returns a presigned download URL for the book's cover.
func (s *BookService) CoverDownloadURL(ctx context.Context, actorID, id string) (*CoverURL, error) {
	if s.covers == nil {
		return nil, ErrCoversDisabled
	}
	book, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(actorID, book); err != nil {
		return nil, err
	}
	if book.CoverKey == "" {
		return nil, common.ErrorNotFound
	}

	url, err := s.covers.PresignGet(ctx, book.CoverKey)
	if err != nil {
		return nil, err
	}
	return &CoverURL{Key: book.CoverKey, URL: url}, nil
}

// fetch loads a book by id. Ids that are not UUIDs cannot exist.
func (s *BookService) fetch(ctx context.Context, id string) (*models.Book, error) {
	if len(id) != 36 {
		return nil, common.ErrorNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.books.Get(ctx, id)
}

func (s *BookService) authorizeRead(actorID string, book *models.Book) error {
	err := policy.Authorize(actorID, book, policy.Read, s.visibility).Err()
	if err == nil || common.IsAuthentication(err) {
		return err
	}
	if s.visibility == policy.Private {
		return common.ErrorNotFound
	}
	return err
}

func (s *BookService) syncFailed(ctx context.Context, op, userID, bookID string, err error) {
	s.log.Warn(ctx, "back-reference update failed",
		"op", op, "user_id", userID, "book_id", bookID, "error", err)
	s.onSync(s.kind, op)
}
