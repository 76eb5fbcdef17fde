// internal/engine/buy.go
package engine

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/curve"
	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/storage/models"
)

// BuyRequest is one prospective purchase of curve tokens for SOL.
type BuyRequest struct {
	PoolID string
	Buyer  solana.PublicKey
	SolIn  uint64 // gross lamports
}

// BuyResult reports an executed buy. ReadyToMigrate tells the caller
// the pool crossed the migration threshold with this trade.
type BuyResult struct {
	PoolID         string
	TokensOut      uint64
	PlatformFee    uint64
	CreatorFee     uint64
	NetSolIn       uint64
	EffectivePrice uint64
	SolReserve     uint64
	ReadyToMigrate bool
}

// Buy quotes and commits a purchase atomically under the pool lock. A
// rejected quote leaves the pool untouched; there are no partial fills.
func (e *Engine) Buy(ctx context.Context, req BuyRequest) (*BuyResult, error) {
	if req.Buyer.IsZero() {
		return nil, &ValidationError{Field: "buyer", Reason: "wallet is required"}
	}
	if req.SolIn == 0 {
		return nil, &ValidationError{Field: "sol_in", Reason: "must be positive"}
	}

	var result *BuyResult
	err := e.registry.WithPool(req.PoolID, func(l *pool.Ledger) error {
		quote, err := curve.QuoteBuy(l.Snapshot(), req.SolIn)
		if err != nil {
			return err
		}

		// Tokens are minted on demand. Delivery precedes the ledger
		// commit so a minter failure rejects the trade cleanly; the
		// commit itself cannot fail once the quote validated under the
		// same lock.
		if err := e.minter.MintTo(ctx, l.TokenMint, quote.TokensOut, req.Buyer); err != nil {
			return &MintError{Err: err}
		}
		if err := l.ApplyBuy(quote.SolIn, quote.NetSolIn, quote.TokensOut, quote.PlatformFee, quote.CreatorFee); err != nil {
			return err
		}

		snapshot := l.Snapshot()
		e.persistPool(ctx, snapshot)
		e.appendEvent(ctx, &models.TransitionEvent{
			EventID:       uuid.NewString(),
			PoolID:        req.PoolID,
			Kind:          models.EventBuy,
			Caller:        req.Buyer.String(),
			SolIn:         quote.SolIn,
			TokensOut:     quote.TokensOut,
			PlatformFee:   quote.PlatformFee,
			CreatorFee:    quote.CreatorFee,
			ReserveBefore: snapshot.SolReserve - quote.NetSolIn,
			ReserveAfter:  snapshot.SolReserve,
			SoldBefore:    snapshot.TokensSold - quote.TokensOut,
			SoldAfter:     snapshot.TokensSold,
		})

		result = &BuyResult{
			PoolID:         req.PoolID,
			TokensOut:      quote.TokensOut,
			PlatformFee:    quote.PlatformFee,
			CreatorFee:     quote.CreatorFee,
			NetSolIn:       quote.NetSolIn,
			EffectivePrice: quote.EffectivePrice,
			SolReserve:     snapshot.SolReserve,
			ReadyToMigrate: snapshot.ReadyToMigrate(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("Buy executed",
		zap.String("pool_id", req.PoolID),
		zap.String("buyer", req.Buyer.String()),
		zap.Uint64("sol_in", req.SolIn),
		zap.Uint64("tokens_out", result.TokensOut),
		zap.Bool("ready_to_migrate", result.ReadyToMigrate))
	return result, nil
}
