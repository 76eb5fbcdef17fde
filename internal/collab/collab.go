// internal/collab/collab.go
//
// Package collab declares the narrow interfaces the engine consumes
// from the outside world: token minting, AMM pool creation, claim
// authorization and fee payouts. The engine treats every failure of
// these collaborators as first class and never assumes success.
package collab

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// Minter creates token mints and issues supply.
type Minter interface {
	// CreateMint creates a new token mint with the given decimal
	// precision and returns its address.
	CreateMint(ctx context.Context, decimals uint8) (solana.PublicKey, error)

	// MintTo issues amount base units of mint to the target account.
	MintTo(ctx context.Context, mint solana.PublicKey, amount uint64, to solana.PublicKey) error
}

// CreatePoolParams describes the two-sided pool requested from the AMM
// factory during migration.
type CreatePoolParams struct {
	TokenA   solana.PublicKey // SOL side
	TokenB   solana.PublicKey // launched token
	ReserveA uint64           // lamports
	ReserveB uint64           // token base units
	FeeBps   uint64
}

// AMMFactory creates the destination constant-product pool.
type AMMFactory interface {
	CreatePool(ctx context.Context, params CreatePoolParams) (string, error)
}

// AccessChecker decides whether a caller owns a fee bucket. The engine
// performs no identity logic of its own.
type AccessChecker interface {
	IsAuthorized(ctx context.Context, caller solana.PublicKey, bucket string, poolID string) (bool, error)
}

// Payout moves claimed fees to their owner and returns the transaction
// signature of the transfer.
type Payout interface {
	Transfer(ctx context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error)
}
