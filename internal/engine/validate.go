// internal/engine/validate.go
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solaunch/launchpad/internal/curve"
	"github.com/solaunch/launchpad/internal/fixedpoint"
	"github.com/solaunch/launchpad/internal/pool"
)

// Report is a human-oriented view of one pool's state. Scaled integers
// stay authoritative; the decimal renderings exist only for display.
type Report struct {
	PoolID      string
	TokenMint   string
	Creator     string
	Name        string
	Symbol      string
	Status      string
	CreatedAt   time.Time
	MigratedAt  *time.Time
	AMMPoolID   string

	SolReserve      uint64
	TokensSold      uint64
	TokensRemaining uint64
	SpotPrice       uint64 // lamports per whole token

	SolReserveSOL     string // e.g. "85.850000000"
	SpotPriceSOL      string
	MigrationProgress string // percent of threshold, e.g. "42.93%"

	PlatformFeeBps   uint64
	CreatorFeeBps    uint64
	ClaimablePlatform uint64
	ClaimableCreator  uint64

	TradeCount   uint64
	VolumeGross  uint64
	LargestTrade uint64

	Checks []string // violated invariants; empty means healthy
}

// Validate snapshots a pool and renders its report, including a sweep
// of the ledger invariants. A pool with a non-empty Checks list has a
// bug somewhere; the engine itself never produces one.
func (e *Engine) Validate(poolID string) (*Report, error) {
	s, err := e.registry.Snapshot(poolID)
	if err != nil {
		return nil, err
	}
	return buildReport(s), nil
}

// ListReports renders the report of every registered pool.
func (e *Engine) ListReports() []*Report {
	ids := e.registry.List()
	reports := make([]*Report, 0, len(ids))
	for _, id := range ids {
		s, err := e.registry.Snapshot(id)
		if err != nil {
			continue
		}
		reports = append(reports, buildReport(s))
	}
	return reports
}

func buildReport(s pool.Snapshot) *Report {
	lamports := decimal.NewFromInt(int64(fixedpoint.LamportsPerSOL))
	reserveSOL := decimal.NewFromUint64(s.SolReserve).Div(lamports)
	spot := curve.SpotPrice(s)
	spotSOL := decimal.NewFromUint64(spot).Div(lamports)

	progress := decimal.NewFromUint64(s.SolReserve).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromUint64(pool.MigrationThreshold))
	if s.Status == pool.StatusMigrated {
		progress = decimal.NewFromInt(100)
	} else if progress.GreaterThan(decimal.NewFromInt(100)) {
		progress = decimal.NewFromInt(100)
	}

	report := &Report{
		PoolID:            s.PoolID,
		TokenMint:         s.TokenMint.String(),
		Creator:           s.Creator.String(),
		Name:              s.Name,
		Symbol:            s.Symbol,
		Status:            s.Status.String(),
		CreatedAt:         s.CreatedAt,
		MigratedAt:        s.MigratedAt,
		AMMPoolID:         s.AMMPoolID,
		SolReserve:        s.SolReserve,
		TokensSold:        s.TokensSold,
		TokensRemaining:   s.TokensRemaining(),
		SpotPrice:         spot,
		SolReserveSOL:     reserveSOL.StringFixed(9),
		SpotPriceSOL:      spotSOL.StringFixed(9),
		MigrationProgress: progress.StringFixed(2) + "%",
		PlatformFeeBps:    s.PlatformFeeBps,
		CreatorFeeBps:     s.CreatorFeeBps,
		ClaimablePlatform: s.ClaimablePlatform(),
		ClaimableCreator:  s.ClaimableCreator(),
		TradeCount:        s.TradeCount,
		VolumeGross:       s.VolumeGross,
		LargestTrade:      s.LargestTrade,
		Checks:            checkInvariants(s),
	}
	return report
}

// checkInvariants sweeps the ledger rules that must hold at any point
// in a pool's life.
func checkInvariants(s pool.Snapshot) []string {
	var violations []string

	if s.TokensSold > s.DBCAllocation {
		violations = append(violations, fmt.Sprintf(
			"tokens sold %d exceeds curve allocation %d", s.TokensSold, s.DBCAllocation))
	}
	if s.DBCAllocation > s.TotalSupply {
		violations = append(violations, fmt.Sprintf(
			"curve allocation %d exceeds total supply %d", s.DBCAllocation, s.TotalSupply))
	}
	if s.ClaimedPlatform > s.AccruedPlatform {
		violations = append(violations, fmt.Sprintf(
			"claimed platform fees %d exceed accrual %d", s.ClaimedPlatform, s.AccruedPlatform))
	}
	if s.ClaimedCreator > s.AccruedCreator {
		violations = append(violations, fmt.Sprintf(
			"claimed creator fees %d exceed accrual %d", s.ClaimedCreator, s.AccruedCreator))
	}

	switch s.Status {
	case pool.StatusMigrated:
		if s.AMMPoolID == "" {
			violations = append(violations, "migrated pool has no destination amm pool id")
		}
		if s.MigratedAt == nil {
			violations = append(violations, "migrated pool has no migration timestamp")
		}
		if s.SolReserve != 0 {
			violations = append(violations, fmt.Sprintf(
				"migrated pool still holds %d lamports", s.SolReserve))
		}
	case pool.StatusActive, pool.StatusMigrating:
		if s.AMMPoolID != "" {
			violations = append(violations, "non-migrated pool carries an amm pool id")
		}
	}

	// Net proceeds must equal gross volume minus all fees ever accrued.
	wantReserve := s.VolumeGross - s.AccruedPlatform - s.AccruedCreator
	if s.Status != pool.StatusMigrated && s.SolReserve != wantReserve {
		violations = append(violations, fmt.Sprintf(
			"reserve %d does not match volume minus fees %d", s.SolReserve, wantReserve))
	}

	return violations
}
