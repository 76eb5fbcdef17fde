// internal/fixedpoint/fixedpoint.go
package fixedpoint

import (
	"errors"
	"math"
	"math/big"
)

// Scaled-integer units used across the engine. SOL amounts are lamports,
// token amounts are base units of a 9-decimal mint. No floating point is
// used anywhere on the accounting path.
const (
	LamportsPerSOL    = uint64(1_000_000_000)
	TokenUnitsPerUnit = uint64(1_000_000_000)
	BpsDenominator    = uint64(10_000)
)

var (
	ErrDivisionByZero = errors.New("fixedpoint: division by zero")
	ErrOverflow       = errors.New("fixedpoint: uint64 overflow")
)

// Rounding selects the rounding direction of MulDiv.
type Rounding int

const (
	RoundDown Rounding = iota
	RoundUp
)

// MulDiv computes a * b / denominator with 128-bit intermediate precision.
// The result is rounded in the requested direction and must fit in uint64.
func MulDiv(a, b, denominator uint64, round Rounding) (uint64, error) {
	if denominator == 0 {
		return 0, ErrDivisionByZero
	}

	num := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	den := new(big.Int).SetUint64(denominator)

	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if round == RoundUp && rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}

	if !quo.IsUint64() {
		return 0, ErrOverflow
	}
	return quo.Uint64(), nil
}

// FeeCeil returns the fee charged on amount at the given bps rate,
// rounded up so repeated small trades cannot leak value from the pool.
func FeeCeil(amount, bps uint64) uint64 {
	// bps <= 10_000 and amount fits uint64, so the ceil fits as well.
	fee, _ := MulDiv(amount, bps, BpsDenominator, RoundUp)
	return fee
}

// BpsOf returns amount * bps / 10_000 rounded down.
func BpsOf(amount, bps uint64) uint64 {
	v, _ := MulDiv(amount, bps, BpsDenominator, RoundDown)
	return v
}

// CheckedAdd returns a + b or ErrOverflow.
func CheckedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// CheckedSub returns a - b or ErrOverflow when b > a.
func CheckedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}
