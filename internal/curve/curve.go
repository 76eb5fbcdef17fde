// internal/curve/curve.go
package curve

import (
	"errors"
	"fmt"

	"github.com/solaunch/launchpad/internal/fixedpoint"
	"github.com/solaunch/launchpad/internal/pool"
)

// ErrInsufficientOutput rejects a buy whose net input rounds to zero
// tokens. Raising the trade size resolves it.
var ErrInsufficientOutput = errors.New("buy too small: token output rounds to zero")

// ErrZeroAmount rejects a non-positive input before any pricing runs.
var ErrZeroAmount = errors.New("sol amount must be positive")

// Quote is the full pricing breakdown of one prospective buy. All
// fields are scaled integers; fees round up and token output rounds
// down so rounding always favors the pool.
type Quote struct {
	SolIn          uint64 // gross lamports offered by the buyer
	PlatformFee    uint64
	CreatorFee     uint64
	TotalFee       uint64
	NetSolIn       uint64 // lamports entering the reserve
	EffectivePrice uint64 // lamports per whole token for this trade
	TokensOut      uint64 // token base units the buyer receives
}

// QuoteBuy prices a buy against a pool snapshot without mutating
// anything. Fee computation precedes pricing: both fees come out of the
// gross input, never out of the token output.
//
// The marginal price grows linearly with pool depth:
//
//	eff = basePrice * (impactSpan + solReserve + solIn) / impactSpan
//
// so a larger trade pays a worse price than the same lamports split
// across earlier buys would have, and the spot price rises as
// cumulative proceeds grow.
func QuoteBuy(s pool.Snapshot, solIn uint64) (*Quote, error) {
	if solIn == 0 {
		return nil, ErrZeroAmount
	}
	if s.Status != pool.StatusActive {
		return nil, pool.ErrNotActive
	}

	platformFee := fixedpoint.FeeCeil(solIn, s.PlatformFeeBps)
	creatorFee := fixedpoint.FeeCeil(solIn, s.CreatorFeeBps)
	totalFee := platformFee + creatorFee

	netSol, err := fixedpoint.CheckedSub(solIn, totalFee)
	if err != nil || netSol == 0 {
		// Fees swallowed the whole input; only possible for dust-sized buys.
		return nil, ErrInsufficientOutput
	}

	eff, err := effectivePrice(s.Curve, s.SolReserve, solIn)
	if err != nil {
		return nil, fmt.Errorf("effective price: %w", err)
	}

	tokensOut, err := fixedpoint.MulDiv(netSol, fixedpoint.TokenUnitsPerUnit, eff, fixedpoint.RoundDown)
	if err != nil {
		return nil, fmt.Errorf("token output: %w", err)
	}
	if tokensOut == 0 {
		return nil, ErrInsufficientOutput
	}

	if s.TokensSold+tokensOut > s.DBCAllocation {
		return nil, pool.ErrAllocationExhausted
	}

	return &Quote{
		SolIn:          solIn,
		PlatformFee:    platformFee,
		CreatorFee:     creatorFee,
		TotalFee:       totalFee,
		NetSolIn:       netSol,
		EffectivePrice: eff,
		TokensOut:      tokensOut,
	}, nil
}

// SpotPrice is the price function evaluated at solIn = 0: the marginal
// price in lamports per whole token for an infinitesimal buy at the
// current depth.
func SpotPrice(s pool.Snapshot) uint64 {
	eff, err := effectivePrice(s.Curve, s.SolReserve, 0)
	if err != nil {
		return s.Curve.BasePrice
	}
	return eff
}

// effectivePrice rounds up: the trader never gets a better price than
// the exact curve value.
func effectivePrice(p pool.CurveParams, solReserve, solIn uint64) (uint64, error) {
	if p.ImpactSpan == 0 {
		return 0, fixedpoint.ErrDivisionByZero
	}
	depth, err := fixedpoint.CheckedAdd(solReserve, solIn)
	if err != nil {
		return 0, err
	}
	scale, err := fixedpoint.CheckedAdd(p.ImpactSpan, depth)
	if err != nil {
		return 0, err
	}
	return fixedpoint.MulDiv(p.BasePrice, scale, p.ImpactSpan, fixedpoint.RoundUp)
}
