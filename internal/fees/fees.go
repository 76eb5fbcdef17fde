// internal/fees/fees.go
package fees

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/collab"
	"github.com/solaunch/launchpad/internal/fixedpoint"
	"github.com/solaunch/launchpad/internal/pool"
)

// Bucket names a fee accumulator on a pool.
type Bucket string

const (
	BucketPlatform Bucket = "platform"
	BucketCreator  Bucket = "creator"
)

// ErrUnknownBucket rejects a claim against a bucket that does not exist.
var ErrUnknownBucket = errors.New("unknown fee bucket")

// ParseBucket validates a wire-level bucket name.
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case BucketPlatform:
		return BucketPlatform, nil
	case BucketCreator:
		return BucketCreator, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBucket, s)
}

// TransferError wraps a payout failure. The accrual is left untouched
// when it occurs, so the claim can simply be retried.
type TransferError struct {
	Err error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("fee transfer failed: %v", e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Accountant splits trade fees into buckets and settles claims against
// a payout collaborator.
type Accountant struct {
	payout collab.Payout
	logger *zap.Logger
}

func NewAccountant(payout collab.Payout, logger *zap.Logger) *Accountant {
	return &Accountant{
		payout: payout,
		logger: logger.Named("fees"),
	}
}

// Split computes the platform and creator cut of a gross buy. Both
// round up; the quote layer rejects buys the rounding would consume.
func Split(grossSol, platformBps, creatorBps uint64) (platformFee, creatorFee uint64) {
	return fixedpoint.FeeCeil(grossSol, platformBps), fixedpoint.FeeCeil(grossSol, creatorBps)
}

// ClaimResult reports a settled claim.
type ClaimResult struct {
	Bucket    Bucket
	Amount    uint64 // may be zero when nothing had accrued
	Signature solana.Signature
}

// Claim pays out the full claimable balance of a bucket to the given
// owner. The order is transfer-then-mark: a failed transfer leaves the
// accrual untouched, so a crash can never pair a failed payout with a
// decremented balance. A zero claimable balance is not an error; the
// payout is skipped and a zero result returned.
func (a *Accountant) Claim(ctx context.Context, ledger *pool.Ledger, bucket Bucket, to solana.PublicKey) (*ClaimResult, error) {
	var claimable uint64
	switch bucket {
	case BucketPlatform:
		claimable = ledger.ClaimablePlatform()
	case BucketCreator:
		claimable = ledger.ClaimableCreator()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}

	if claimable == 0 {
		a.logger.Debug("Nothing to claim",
			zap.String("pool_id", ledger.PoolID),
			zap.String("bucket", string(bucket)))
		return &ClaimResult{Bucket: bucket}, nil
	}

	sig, err := a.payout.Transfer(ctx, to, claimable)
	if err != nil {
		a.logger.Warn("Fee payout failed, accrual preserved",
			zap.String("pool_id", ledger.PoolID),
			zap.String("bucket", string(bucket)),
			zap.Uint64("amount", claimable),
			zap.Error(err))
		return nil, &TransferError{Err: err}
	}

	switch bucket {
	case BucketPlatform:
		err = ledger.MarkClaimedPlatform(claimable)
	case BucketCreator:
		err = ledger.MarkClaimedCreator(claimable)
	}
	if err != nil {
		// Unreachable under the per-pool lock; the claimable amount was
		// read in the same critical section.
		return nil, fmt.Errorf("mark claimed: %w", err)
	}

	a.logger.Info("Fees claimed",
		zap.String("pool_id", ledger.PoolID),
		zap.String("bucket", string(bucket)),
		zap.Uint64("amount", claimable),
		zap.String("signature", sig.String()))

	return &ClaimResult{Bucket: bucket, Amount: claimable, Signature: sig}, nil
}
