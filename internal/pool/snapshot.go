// internal/pool/snapshot.go
package pool

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Snapshot is an immutable value copy of a Ledger, safe to read and
// pass around without holding the pool lock.
type Snapshot struct {
	PoolID      string
	TokenMint   solana.PublicKey
	Creator     solana.PublicKey
	Name        string
	Symbol      string
	Description string
	CreatedAt   time.Time

	Status Status

	SolReserve    uint64
	TokensSold    uint64
	TotalSupply   uint64
	DBCAllocation uint64

	Curve          CurveParams
	PlatformFeeBps uint64
	CreatorFeeBps  uint64

	AccruedPlatform uint64
	AccruedCreator  uint64
	ClaimedPlatform uint64
	ClaimedCreator  uint64

	TradeCount   uint64
	VolumeGross  uint64
	LargestTrade uint64

	AMMPoolID  string
	MigratedAt *time.Time
}

// TokensRemaining is the unsold part of the DBC allocation.
func (s Snapshot) TokensRemaining() uint64 {
	if s.TokensSold >= s.DBCAllocation {
		return 0
	}
	return s.DBCAllocation - s.TokensSold
}

// ClaimablePlatform mirrors Ledger.ClaimablePlatform for readers.
func (s Snapshot) ClaimablePlatform() uint64 {
	if s.ClaimedPlatform >= s.AccruedPlatform {
		return 0
	}
	return s.AccruedPlatform - s.ClaimedPlatform
}

// ClaimableCreator mirrors Ledger.ClaimableCreator for readers.
func (s Snapshot) ClaimableCreator() uint64 {
	if s.ClaimedCreator >= s.AccruedCreator {
		return 0
	}
	return s.AccruedCreator - s.ClaimedCreator
}

// ReadyToMigrate reports whether the snapshot crossed the threshold
// while still active.
func (s Snapshot) ReadyToMigrate() bool {
	return s.Status == StatusActive && s.SolReserve >= MigrationThreshold
}
