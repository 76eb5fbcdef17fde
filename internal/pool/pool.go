// internal/pool/pool.go
package pool

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/solaunch/launchpad/internal/fixedpoint"
)

// Launch-time constants shared by every pool. Amounts are scaled
// integers: lamports for SOL, base units for the 9-decimal token mint.
const (
	TokenDecimals = uint8(9)

	// 10 billion whole tokens, expressed in base units.
	TotalSupply = uint64(10_000_000_000) * 1_000_000_000

	// 80% of supply is sold through the bonding curve.
	DBCAllocationBps = uint64(8_000)

	// 85.85 SOL of net proceeds trigger migration.
	MigrationThreshold = uint64(85_850_000_000)

	PlatformFeeBps    = uint64(50)
	MaxCreatorFeeBps  = uint64(450)
	DefaultAMMFeeBps  = uint64(30)
	DefaultBasePrice  = uint64(1_000)            // lamports per whole token (0.000001 SOL)
	DefaultImpactSpan = uint64(100_000_000_000)  // depth in lamports for 100% price impact
)

// CurveParams fixes the price function at launch.
type CurveParams struct {
	// BasePrice is the curve's starting price in lamports per whole token.
	BasePrice uint64

	// ImpactSpan is the pool depth, in lamports, at which the marginal
	// price doubles. The default of 100 SOL yields 1% impact per SOL.
	ImpactSpan uint64
}

// DefaultCurveParams returns the launch parameters used by the platform.
func DefaultCurveParams() CurveParams {
	return CurveParams{
		BasePrice:  DefaultBasePrice,
		ImpactSpan: DefaultImpactSpan,
	}
}

// Ledger is the authoritative state of one bonding-curve pool. It is
// never mutated outside the registry's per-pool lock; callers outside
// the lock only ever see value copies taken with Snapshot.
type Ledger struct {
	PoolID      string
	TokenMint   solana.PublicKey
	Creator     solana.PublicKey
	Name        string
	Symbol      string
	Description string
	CreatedAt   time.Time

	Status Status

	SolReserve    uint64 // lamports held by the pool, net of fees
	TokensSold    uint64 // cumulative token base units distributed
	TotalSupply   uint64
	DBCAllocation uint64

	Curve         CurveParams
	PlatformFeeBps uint64
	CreatorFeeBps  uint64

	AccruedPlatform uint64
	AccruedCreator  uint64
	ClaimedPlatform uint64
	ClaimedCreator  uint64

	TradeCount   uint64
	VolumeGross  uint64 // lifetime gross lamports in
	LargestTrade uint64 // largest single gross buy, lamports

	AMMPoolID  string
	MigratedAt *time.Time
}

// NewLedger builds an Active pool with zeroed reserves and accruals.
func NewLedger(poolID string, mint, creator solana.PublicKey, name, symbol, description string, creatorFeeBps uint64) *Ledger {
	allocation := fixedpoint.BpsOf(TotalSupply, DBCAllocationBps)
	return &Ledger{
		PoolID:         poolID,
		TokenMint:      mint,
		Creator:        creator,
		Name:           name,
		Symbol:         symbol,
		Description:    description,
		CreatedAt:      time.Now().UTC(),
		Status:         StatusActive,
		TotalSupply:    TotalSupply,
		DBCAllocation:  allocation,
		Curve:          DefaultCurveParams(),
		PlatformFeeBps: PlatformFeeBps,
		CreatorFeeBps:  creatorFeeBps,
	}
}

// Snapshot returns a consistent value copy of the ledger. MigratedAt is
// copied so the snapshot does not alias ledger-owned memory.
func (l *Ledger) Snapshot() Snapshot {
	s := Snapshot{
		PoolID:          l.PoolID,
		TokenMint:       l.TokenMint,
		Creator:         l.Creator,
		Name:            l.Name,
		Symbol:          l.Symbol,
		Description:     l.Description,
		CreatedAt:       l.CreatedAt,
		Status:          l.Status,
		SolReserve:      l.SolReserve,
		TokensSold:      l.TokensSold,
		TotalSupply:     l.TotalSupply,
		DBCAllocation:   l.DBCAllocation,
		Curve:           l.Curve,
		PlatformFeeBps:  l.PlatformFeeBps,
		CreatorFeeBps:   l.CreatorFeeBps,
		AccruedPlatform: l.AccruedPlatform,
		AccruedCreator:  l.AccruedCreator,
		ClaimedPlatform: l.ClaimedPlatform,
		ClaimedCreator:  l.ClaimedCreator,
		TradeCount:      l.TradeCount,
		VolumeGross:     l.VolumeGross,
		LargestTrade:    l.LargestTrade,
		AMMPoolID:       l.AMMPoolID,
	}
	if l.MigratedAt != nil {
		at := *l.MigratedAt
		s.MigratedAt = &at
	}
	return s
}

// ApplyBuy commits a quoted buy: the net amount enters the reserve, the
// sold counter advances and the fee buckets accrue their splits. The
// quote must already have been validated against this ledger state.
func (l *Ledger) ApplyBuy(grossSol, netSol, tokensOut, platformFee, creatorFee uint64) error {
	if l.Status != StatusActive {
		return ErrNotActive
	}

	sold, err := fixedpoint.CheckedAdd(l.TokensSold, tokensOut)
	if err != nil {
		return fmt.Errorf("tokens sold overflow: %w", err)
	}
	if sold > l.DBCAllocation {
		return ErrAllocationExhausted
	}
	reserve, err := fixedpoint.CheckedAdd(l.SolReserve, netSol)
	if err != nil {
		return fmt.Errorf("sol reserve overflow: %w", err)
	}

	l.SolReserve = reserve
	l.TokensSold = sold
	l.AccruedPlatform += platformFee
	l.AccruedCreator += creatorFee
	l.TradeCount++
	l.VolumeGross += grossSol
	if grossSol > l.LargestTrade {
		l.LargestTrade = grossSol
	}
	return nil
}

// ClaimablePlatform is the platform accrual not yet paid out.
func (l *Ledger) ClaimablePlatform() uint64 {
	v, err := fixedpoint.CheckedSub(l.AccruedPlatform, l.ClaimedPlatform)
	if err != nil {
		return 0
	}
	return v
}

// ClaimableCreator is the creator accrual not yet paid out.
func (l *Ledger) ClaimableCreator() uint64 {
	v, err := fixedpoint.CheckedSub(l.AccruedCreator, l.ClaimedCreator)
	if err != nil {
		return 0
	}
	return v
}

// MarkClaimedPlatform records a successful platform payout.
func (l *Ledger) MarkClaimedPlatform(amount uint64) error {
	if amount > l.ClaimablePlatform() {
		return fmt.Errorf("claim of %d exceeds claimable platform accrual %d", amount, l.ClaimablePlatform())
	}
	l.ClaimedPlatform += amount
	return nil
}

// MarkClaimedCreator records a successful creator payout.
func (l *Ledger) MarkClaimedCreator(amount uint64) error {
	if amount > l.ClaimableCreator() {
		return fmt.Errorf("claim of %d exceeds claimable creator accrual %d", amount, l.ClaimableCreator())
	}
	l.ClaimedCreator += amount
	return nil
}

// ReadyToMigrate reports whether net proceeds have crossed the threshold.
func (l *Ledger) ReadyToMigrate() bool {
	return l.Status == StatusActive && l.SolReserve >= MigrationThreshold
}

// BeginMigration freezes the DBC side. Only Active pools that crossed
// the threshold may enter Migrating.
func (l *Ledger) BeginMigration() error {
	switch l.Status {
	case StatusMigrated:
		return ErrAlreadyMigrated
	case StatusMigrating:
		return ErrMigrationInFlight
	}
	if l.SolReserve < MigrationThreshold {
		return ErrThresholdNotReached
	}
	l.Status = StatusMigrating
	return nil
}

// CompleteMigration records the destination AMM pool and empties the
// DBC reserve. The pool becomes a permanent historical record.
func (l *Ledger) CompleteMigration(ammPoolID string) error {
	if l.Status != StatusMigrating {
		return fmt.Errorf("cannot complete migration from status %s", l.Status)
	}
	now := time.Now().UTC()
	l.Status = StatusMigrated
	l.AMMPoolID = ammPoolID
	l.SolReserve = 0
	l.MigratedAt = &now
	return nil
}

// RevertMigration returns a Migrating pool to Active after a failed AMM
// creation. Reserves and accruals are untouched so the attempt is
// side-effect free.
func (l *Ledger) RevertMigration() error {
	if l.Status != StatusMigrating {
		return fmt.Errorf("cannot revert migration from status %s", l.Status)
	}
	l.Status = StatusActive
	return nil
}
