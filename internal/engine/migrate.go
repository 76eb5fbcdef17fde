// internal/engine/migrate.go
package engine

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/storage/models"
)

// MigrateRequest moves an over-threshold pool to the destination AMM.
type MigrateRequest struct {
	PoolID string
	Caller solana.PublicKey
}

// MigrateResult reports the (possibly previously) completed migration.
type MigrateResult struct {
	PoolID       string
	AMMPoolID    string
	SolLiquidity uint64
	TokenReserve uint64
	CompletedAt  time.Time
	AlreadyDone  bool
}

// Migrate runs the one-time handover under the pool lock. Anyone may
// trigger it once the threshold is crossed; a repeat call on a migrated
// pool returns the recorded destination unchanged.
func (e *Engine) Migrate(ctx context.Context, req MigrateRequest) (*MigrateResult, error) {
	var result *MigrateResult
	err := e.registry.WithPool(req.PoolID, func(l *pool.Ledger) error {
		alreadyDone := l.Status == pool.StatusMigrated

		record, err := e.migrator.Execute(ctx, l)
		if err != nil {
			return err
		}

		if !alreadyDone {
			e.persistPool(ctx, l.Snapshot())
			e.appendEvent(ctx, &models.TransitionEvent{
				EventID:   uuid.NewString(),
				PoolID:    req.PoolID,
				Kind:      models.EventMigrate,
				Caller:    req.Caller.String(),
				AMMPoolID: record.AMMPoolID,
			})
		}

		result = &MigrateResult{
			PoolID:       record.PoolID,
			AMMPoolID:    record.AMMPoolID,
			SolLiquidity: record.SolReserve,
			TokenReserve: record.TokenReserve,
			CompletedAt:  record.CompletedAt,
			AlreadyDone:  alreadyDone,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyDone {
		e.logger.Info("Pool migrated",
			zap.String("pool_id", result.PoolID),
			zap.String("amm_pool_id", result.AMMPoolID),
			zap.Uint64("sol_liquidity", result.SolLiquidity),
			zap.Uint64("token_liquidity", result.TokenReserve))
	}
	return result, nil
}
