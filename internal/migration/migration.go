// internal/migration/migration.go
package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/collab"
	"github.com/solaunch/launchpad/internal/pool"
)

// WrappedSOLMint is the SOL side of every destination pool.
var WrappedSOLMint = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")

// CreationError wraps an AMM factory failure. The pool has already been
// rolled back to Active when it is returned, so migrate can be retried.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("amm pool creation failed: %v", e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// Record is the durable outcome of one completed migration.
type Record struct {
	PoolID       string
	AMMPoolID    string
	SolReserve   uint64 // lamports handed to the AMM
	TokenReserve uint64 // unsold allocation handed to the AMM
	CompletedAt  time.Time
}

// Options tunes the retry policy around the external AMM factory call.
type Options struct {
	MaxTries   uint
	RetryDelay time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxTries:   3,
		RetryDelay: time.Second,
	}
}

// Controller drives the one-time Active -> Migrating -> Migrated
// transition. It must only be invoked while the caller holds the
// pool's registry lock.
type Controller struct {
	factory collab.AMMFactory
	opts    Options
	logger  *zap.Logger
}

func NewController(factory collab.AMMFactory, logger *zap.Logger, opts ...Options) *Controller {
	options := DefaultOptions()
	if len(opts) > 0 {
		options = opts[0]
	}
	return &Controller{
		factory: factory,
		opts:    options,
		logger:  logger.Named("migration"),
	}
}

// Execute migrates the pool if the threshold has been crossed.
//
// The AMM receives all of the pool's SOL and the unsold remainder of
// the DBC allocation; buyers keep what they bought and the creator
// keeps the non-DBC 20%, so total minted supply is conserved. A failed
// or cancelled factory call reverts the pool to Active with reserves
// and accruals untouched. Calling Execute on a Migrated pool returns
// the recorded destination without side effects.
func (c *Controller) Execute(ctx context.Context, ledger *pool.Ledger) (*Record, error) {
	if ledger.Status == pool.StatusMigrated {
		c.logger.Debug("Pool already migrated, returning existing destination",
			zap.String("pool_id", ledger.PoolID),
			zap.String("amm_pool_id", ledger.AMMPoolID))
		return recordFromLedger(ledger), nil
	}

	if err := ledger.BeginMigration(); err != nil {
		return nil, err
	}

	solReserve := ledger.SolReserve
	tokenReserve := ledger.DBCAllocation - ledger.TokensSold

	c.logger.Info("Migration started",
		zap.String("pool_id", ledger.PoolID),
		zap.Uint64("sol_reserve", solReserve),
		zap.Uint64("token_reserve", tokenReserve))

	backoffPolicy := backoff.NewExponentialBackOff()
	backoffPolicy.InitialInterval = c.opts.RetryDelay

	notify := func(err error, duration time.Duration) {
		c.logger.Warn("AMM pool creation failed, retrying",
			zap.String("pool_id", ledger.PoolID),
			zap.Duration("backoff", duration),
			zap.Error(err))
	}

	operation := func() (string, error) {
		return c.factory.CreatePool(ctx, collab.CreatePoolParams{
			TokenA:   WrappedSOLMint,
			TokenB:   ledger.TokenMint,
			ReserveA: solReserve,
			ReserveB: tokenReserve,
			FeeBps:   pool.DefaultAMMFeeBps,
		})
	}

	ammPoolID, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoffPolicy),
		backoff.WithMaxTries(c.opts.MaxTries),
		backoff.WithNotify(notify))
	if err != nil {
		if revertErr := ledger.RevertMigration(); revertErr != nil {
			// Should be impossible: we hold the lock and just set Migrating.
			c.logger.Error("Migration rollback failed",
				zap.String("pool_id", ledger.PoolID),
				zap.Error(revertErr))
		}
		return nil, &CreationError{Err: err}
	}

	if err := ledger.CompleteMigration(ammPoolID); err != nil {
		return nil, fmt.Errorf("complete migration: %w", err)
	}

	c.logger.Info("Migration completed",
		zap.String("pool_id", ledger.PoolID),
		zap.String("amm_pool_id", ammPoolID),
		zap.Uint64("sol_liquidity", solReserve),
		zap.Uint64("token_liquidity", tokenReserve))

	return &Record{
		PoolID:       ledger.PoolID,
		AMMPoolID:    ammPoolID,
		SolReserve:   solReserve,
		TokenReserve: tokenReserve,
		CompletedAt:  *ledger.MigratedAt,
	}, nil
}

func recordFromLedger(l *pool.Ledger) *Record {
	r := &Record{
		PoolID:       l.PoolID,
		AMMPoolID:    l.AMMPoolID,
		TokenReserve: l.DBCAllocation - l.TokensSold,
	}
	if l.MigratedAt != nil {
		r.CompletedAt = *l.MigratedAt
	}
	return r
}
