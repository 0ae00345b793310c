// Package repomanager selects and wires the storage backend: PostgreSQL for
// regular DSNs and the in-memory store for memory:// DSNs.
package repomanager

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/users"
)

// MemoryDSN selects the in-memory backend.
const MemoryDSN = "memory://"

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Books(kind models.Kind) (books.Repository, error)
	PingContext(ctx context.Context) error
	Close() error
}

// New returns a manager for dsn. PostgreSQL connections are opened lazily by
// database/sql; call PingContext to check reachability.
func New(dsn string) (RepositoryManager, error) {
	if strings.HasPrefix(dsn, MemoryDSN) {
		return NewMemoryRepositoryManager(), nil
	}
	return OpenPostgres(dsn)
}
