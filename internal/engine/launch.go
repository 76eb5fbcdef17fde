// internal/engine/launch.go
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/fixedpoint"
	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/storage/models"
)

// LaunchRequest creates a token and its bonding-curve pool in one shot.
type LaunchRequest struct {
	Creator       solana.PublicKey
	Name          string
	Symbol        string
	Description   string
	CreatorFeeBps uint64
}

// LaunchResult reports the created pool and mint.
type LaunchResult struct {
	PoolID        string
	TokenMint     solana.PublicKey
	TotalSupply   uint64
	DBCAllocation uint64
	CreatorTokens uint64
	SpotPrice     uint64
}

func (r LaunchRequest) validate() error {
	if r.Creator.IsZero() {
		return &ValidationError{Field: "creator", Reason: "wallet is required"}
	}
	name := strings.TrimSpace(r.Name)
	if name == "" || len(name) > 100 {
		return &ValidationError{Field: "name", Reason: "must be 1-100 characters"}
	}
	symbol := strings.TrimSpace(r.Symbol)
	if symbol == "" || len(symbol) > 20 {
		return &ValidationError{Field: "symbol", Reason: "must be 1-20 characters"}
	}
	if r.CreatorFeeBps > pool.MaxCreatorFeeBps {
		return &ValidationError{
			Field:  "creator_fee_bps",
			Reason: fmt.Sprintf("must not exceed %d", pool.MaxCreatorFeeBps),
		}
	}
	return nil
}

// Launch mints the fixed supply, splits it between the curve allocation
// and the creator, and registers the Active pool. The mint happens
// before registration: a collaborator failure leaves no pool behind.
func (e *Engine) Launch(ctx context.Context, req LaunchRequest) (*LaunchResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	mint, err := e.minter.CreateMint(ctx, pool.TokenDecimals)
	if err != nil {
		return nil, &MintError{Err: fmt.Errorf("create mint: %w", err)}
	}

	allocation := fixedpoint.BpsOf(pool.TotalSupply, pool.DBCAllocationBps)
	creatorTokens := pool.TotalSupply - allocation

	// The curve allocation is minted on demand as buys execute and, at
	// migration, into the destination AMM. Only the creator's share is
	// issued up front, so circulating supply never exceeds what the
	// curve has actually sold.
	if err := e.minter.MintTo(ctx, mint, creatorTokens, req.Creator); err != nil {
		return nil, &MintError{Err: fmt.Errorf("mint creator share: %w", err)}
	}

	poolID := "dbc_" + mint.String()[:8]
	ledger := pool.NewLedger(poolID, mint, req.Creator,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Symbol),
		strings.TrimSpace(req.Description), req.CreatorFeeBps)

	if err := e.registry.Register(ledger); err != nil {
		return nil, fmt.Errorf("register pool: %w", err)
	}

	snapshot := ledger.Snapshot()
	e.persistPool(ctx, snapshot)
	e.appendEvent(ctx, &models.TransitionEvent{
		EventID: uuid.NewString(),
		PoolID:  poolID,
		Kind:    models.EventLaunch,
		Caller:  req.Creator.String(),
	})

	e.logger.Info("Pool launched",
		zap.String("pool_id", poolID),
		zap.String("token_mint", mint.String()),
		zap.String("creator", req.Creator.String()),
		zap.Uint64("creator_fee_bps", req.CreatorFeeBps))

	return &LaunchResult{
		PoolID:        poolID,
		TokenMint:     mint,
		TotalSupply:   pool.TotalSupply,
		DBCAllocation: allocation,
		CreatorTokens: creatorTokens,
		SpotPrice:     pool.DefaultBasePrice,
	}, nil
}
