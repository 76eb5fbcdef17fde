// internal/registry/registry.go
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/pool"
)

// ErrPoolNotFound is returned for unknown pool ids.
var ErrPoolNotFound = errors.New("pool not found")

// entry pairs a ledger with the mutex that linearizes its mutations.
type entry struct {
	mu     sync.Mutex
	ledger *pool.Ledger
}

// Registry is the process-wide map from pool id to ledger. Mutations go
// through WithPool, which holds an exclusive per-pool lock for the
// duration of exactly one state transition; pools never block each
// other. Pools are never removed: a migrated pool stays as an immutable
// historical record.
type Registry struct {
	mu     sync.RWMutex
	pools  map[string]*entry
	logger *zap.Logger
}

func New(logger *zap.Logger) *Registry {
	return &Registry{
		pools:  make(map[string]*entry),
		logger: logger.Named("registry"),
	}
}

// Register adds a freshly launched pool.
func (r *Registry) Register(ledger *pool.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pools[ledger.PoolID]; exists {
		return fmt.Errorf("pool %s already registered", ledger.PoolID)
	}
	r.pools[ledger.PoolID] = &entry{ledger: ledger}

	r.logger.Info("Pool registered",
		zap.String("pool_id", ledger.PoolID),
		zap.String("token_mint", ledger.TokenMint.String()))
	return nil
}

// WithPool runs fn with the pool's exclusive lock held. fn sees the
// ledger mid-transition and must leave it consistent: an error return
// is expected to mean "nothing changed".
func (r *Registry) WithPool(poolID string, fn func(l *pool.Ledger) error) error {
	e, err := r.lookup(poolID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.ledger)
}

// Snapshot returns a consistent copy of the pool state, taking the
// pool lock only long enough to copy.
func (r *Registry) Snapshot(poolID string) (pool.Snapshot, error) {
	e, err := r.lookup(poolID)
	if err != nil {
		return pool.Snapshot{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Snapshot(), nil
}

// Creator resolves the creator wallet of a pool without locking the
// ledger: the field is immutable after launch.
func (r *Registry) Creator(poolID string) (solana.PublicKey, error) {
	e, err := r.lookup(poolID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return e.ledger.Creator, nil
}

// List returns the ids of all registered pools.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.pools))
	for id := range r.pools {
		ids = append(ids, id)
	}
	return ids
}

// Len reports the number of registered pools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pools)
}

func (r *Registry) lookup(poolID string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.pools[poolID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, poolID)
	}
	return e, nil
}
