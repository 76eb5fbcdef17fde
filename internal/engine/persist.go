// internal/engine/persist.go
package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/storage"
	"github.com/solaunch/launchpad/internal/storage/models"
)

// recordFromSnapshot projects ledger state into its persisted form.
func recordFromSnapshot(s pool.Snapshot) *models.PoolRecord {
	return &models.PoolRecord{
		PoolID:          s.PoolID,
		TokenMint:       s.TokenMint.String(),
		Creator:         s.Creator.String(),
		Name:            s.Name,
		Symbol:          s.Symbol,
		Description:     s.Description,
		Status:          s.Status.String(),
		SolReserve:      s.SolReserve,
		TokensSold:      s.TokensSold,
		TotalSupply:     s.TotalSupply,
		DBCAllocation:   s.DBCAllocation,
		PlatformFeeBps:  s.PlatformFeeBps,
		CreatorFeeBps:   s.CreatorFeeBps,
		AccruedPlatform: s.AccruedPlatform,
		AccruedCreator:  s.AccruedCreator,
		ClaimedPlatform: s.ClaimedPlatform,
		ClaimedCreator:  s.ClaimedCreator,
		TradeCount:      s.TradeCount,
		VolumeGross:     s.VolumeGross,
		LargestTrade:    s.LargestTrade,
		AMMPoolID:       s.AMMPoolID,
		MigratedAt:      s.MigratedAt,
	}
}

// persistPool writes the snapshot through the store. The registry is
// authoritative; a storage failure is logged and does not fail the
// operation that produced the snapshot.
func (e *Engine) persistPool(ctx context.Context, s pool.Snapshot) {
	record := recordFromSnapshot(s)

	err := e.store.UpdatePool(ctx, record)
	if errors.Is(err, storage.ErrNotFound) {
		// First write for this pool.
		err = e.store.SavePool(ctx, record)
	}
	if err != nil {
		e.logger.Error("Failed to persist pool state",
			zap.String("pool_id", s.PoolID),
			zap.Error(err))
	}
}

func (e *Engine) appendEvent(ctx context.Context, event *models.TransitionEvent) {
	if err := e.store.AppendEvent(ctx, event); err != nil {
		e.logger.Error("Failed to record transition event",
			zap.String("pool_id", event.PoolID),
			zap.String("kind", event.Kind),
			zap.Error(err))
	}
}
