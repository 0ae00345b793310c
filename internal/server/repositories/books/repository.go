// Package books persists private books and shared profile books. Both
// families share one schema; a repository is bound to one table.
package books

import (
	"context"

	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, book *models.Book) (*models.Book, error)
	// Get returns the book with its owner projection attached.
	Get(ctx context.Context, id string) (*models.Book, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Book, error)
	// ListAll returns every book in the family with owner projections.
	ListAll(ctx context.Context) ([]*models.Book, error)
	// Update applies the non-nil fields. Owner is never touched.
	Update(ctx context.Context, id string, fields models.BookFields) error
	SetCoverKey(ctx context.Context, id string, key string) error
	Delete(ctx context.Context, id string) error
}
