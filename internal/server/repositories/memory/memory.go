// Package memory provides in-memory user and book repositories. They are
// selected with a memory:// DSN and used in tests and local runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
)

// Store holds the users and both book families.
type Store struct {
	Users        *UserRepository
	Books        *BookRepository
	ProfileBooks *BookRepository
}

func NewStore() *Store {
	users := NewUserRepository()
	return &Store{
		Users:        users,
		Books:        NewBookRepository(users),
		ProfileBooks: NewBookRepository(users),
	}
}

// UserRepository is a mutex-guarded map of users.
type UserRepository struct {
	mu     sync.RWMutex
	byID   map[string]*models.User
	byName map[string]string
	now    func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:   make(map[string]*models.User),
		byName: make(map[string]string),
		now:    time.Now,
	}
}

func (r *UserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.UserName]; ok {
		return nil, common.ErrDuplicateUsername
	}

	user.CreatedAt = r.now().UTC()
	stored := cloneUser(user)
	stored.BookIDs = []string{}
	stored.ProfileBookIDs = []string{}
	r.byID[user.ID] = stored
	r.byName[user.UserName] = user.ID

	return cloneUser(stored), nil
}

func (r *UserRepository) GetUserByLogin(_ context.Context, userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[userName]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) AddOwned(_ context.Context, userID string, kind models.Kind, bookID string) error {
	return r.updateOwned(userID, kind, func(ids []string) []string {
		return append(ids, bookID)
	})
}

func (r *UserRepository) RemoveOwned(_ context.Context, userID string, kind models.Kind, bookID string) error {
	return r.updateOwned(userID, kind, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == bookID })
	})
}

func (r *UserRepository) updateOwned(userID string, kind models.Kind, fn func([]string) []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return common.ErrorNotFound
	}
	if kind == models.KindProfileBook {
		u.ProfileBookIDs = fn(u.ProfileBookIDs)
	} else {
		u.BookIDs = fn(u.BookIDs)
	}
	return nil
}

func (r *UserRepository) userName(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.byID[id]; ok {
		return u.UserName
	}
	return ""
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.BookIDs = slices.Clone(u.BookIDs)
	c.ProfileBookIDs = slices.Clone(u.ProfileBookIDs)
	return &c
}

// BookRepository stores one book family. It resolves owner names through
// the user repository it was built with.
type BookRepository struct {
	mu    sync.RWMutex
	books map[string]*models.Book
	users *UserRepository
	now   func() time.Time
}

func NewBookRepository(users *UserRepository) *BookRepository {
	return &BookRepository{
		books: make(map[string]*models.Book),
		users: users,
		now:   time.Now,
	}
}

func (r *BookRepository) Create(_ context.Context, book *models.Book) (*models.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[book.ID]; ok {
		return nil, common.StoreError(fmt.Errorf("duplicate book id %s", book.ID))
	}

	ts := r.now().UTC()
	book.CreatedAt, book.UpdatedAt = ts, ts
	stored := *book
	stored.Owner = nil
	r.books[book.ID] = &stored

	return book, nil
}

func (r *BookRepository) Get(_ context.Context, id string) (*models.Book, error) {
	r.mu.RLock()
	b, ok := r.books[id]
	var c models.Book
	if ok {
		c = *b
	}
	r.mu.RUnlock()

	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.withOwner(&c), nil
}

func (r *BookRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Book, error) {
	return r.list(func(b *models.Book) bool { return b.OwnerID == ownerID }), nil
}

func (r *BookRepository) ListAll(_ context.Context) ([]*models.Book, error) {
	return r.list(func(*models.Book) bool { return true }), nil
}

func (r *BookRepository) list(keep func(*models.Book) bool) []*models.Book {
	r.mu.RLock()
	result := []*models.Book{}
	for _, b := range r.books {
		if keep(b) {
			c := *b
			result = append(result, &c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	for _, b := range result {
		r.withOwner(b)
	}
	return result
}

func (r *BookRepository) withOwner(b *models.Book) *models.Book {
	b.Owner = &models.PublicUser{ID: b.OwnerID, UserName: r.users.userName(b.OwnerID)}
	return b
}

func (r *BookRepository) Update(_ context.Context, id string, fields models.BookFields) error {
	return r.mutate(id, func(b *models.Book) {
		if fields.Title != nil {
			b.Title = *fields.Title
		}
		if fields.Author != nil {
			b.Author = *fields.Author
		}
		if fields.PublishYear != nil {
			b.PublishYear = *fields.PublishYear
		}
	})
}

func (r *BookRepository) SetCoverKey(_ context.Context, id string, key string) error {
	return r.mutate(id, func(b *models.Book) { b.CoverKey = key })
}

func (r *BookRepository) mutate(id string, fn func(*models.Book)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.books[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(b)
	b.UpdatedAt = r.now().UTC()
	return nil
}

func (r *BookRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.books, id)
	return nil
}
