// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"github.com/solaunch/launchpad/internal/storage/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Store persists pool records and the append-only transition history
// used for audit and replay. The in-memory registry stays the source of
// truth for live state; the store trails it.
type Store interface {
	// Pools
	SavePool(ctx context.Context, record *models.PoolRecord) error
	UpdatePool(ctx context.Context, record *models.PoolRecord) error
	GetPool(ctx context.Context, poolID string) (*models.PoolRecord, error)
	ListPools(ctx context.Context, limit, offset int) ([]*models.PoolRecord, error)

	// Transition history (append-only)
	AppendEvent(ctx context.Context, event *models.TransitionEvent) error
	ListEvents(ctx context.Context, poolID string, limit, offset int) ([]*models.TransitionEvent, error)

	// Migrations
	RunMigrations() error
}
