package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/books"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/bookkeeper/internal/server/repositories/users"
)

// MemoryRepositoryManager vends repositories backed by one memory.Store.
type MemoryRepositoryManager struct {
	store *memory.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memory.NewStore()}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.store.Users }

func (m *MemoryRepositoryManager) Books(kind models.Kind) (books.Repository, error) {
	switch kind {
	case models.KindBook:
		return m.store.Books, nil
	case models.KindProfileBook:
		return m.store.ProfileBooks, nil
	default:
		return nil, fmt.Errorf("unknown book kind %q", kind)
	}
}

func (m *MemoryRepositoryManager) PingContext(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
