// internal/pool/errors.go
package pool

import "errors"

var (
	// ErrNotActive rejects mutations on a pool that has started or
	// finished migrating.
	ErrNotActive = errors.New("pool is not active")

	// ErrAllocationExhausted rejects a buy that would push cumulative
	// sales past the DBC allocation. Buys are never partially filled.
	ErrAllocationExhausted = errors.New("buy exceeds remaining curve allocation")

	// ErrThresholdNotReached rejects migration before proceeds cross
	// the migration threshold.
	ErrThresholdNotReached = errors.New("migration threshold not reached")

	// ErrAlreadyMigrated marks the terminal state; migrate becomes a
	// no-op returning the recorded destination pool.
	ErrAlreadyMigrated = errors.New("pool already migrated")

	// ErrMigrationInFlight should be unobservable under the per-pool
	// lock; it guards against misuse of the ledger outside it.
	ErrMigrationInFlight = errors.New("migration already in flight")
)
