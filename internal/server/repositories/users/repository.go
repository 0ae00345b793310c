// Package users persists user accounts and their owned-book back-references.
package users

import (
	"context"

	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
)

type Repository interface {
	// Create stores a new user. A taken username yields common.ErrDuplicateUsername.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)

	// AddOwned and RemoveOwned maintain the back-reference set for kind.
	AddOwned(ctx context.Context, userID string, kind models.Kind, bookID string) error
	RemoveOwned(ctx context.Context, userID string, kind models.Kind, bookID string) error
}
