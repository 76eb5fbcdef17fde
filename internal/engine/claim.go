// internal/engine/claim.go
package engine

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/fees"
	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/storage/models"
)

// ClaimRequest withdraws the full claimable balance of one fee bucket.
type ClaimRequest struct {
	PoolID string
	Caller solana.PublicKey
	Bucket string
}

// ClaimResult reports the settled payout. Amount is zero when nothing
// had accrued; that is a success, not an error.
type ClaimResult struct {
	PoolID    string
	Bucket    fees.Bucket
	Amount    uint64
	Signature solana.Signature
}

// Claim authorizes the caller against the bucket, then settles the
// payout under the pool lock. Fee accrual is independent of pool
// status; claims work before and after migration alike.
func (e *Engine) Claim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	if req.Caller.IsZero() {
		return nil, &ValidationError{Field: "caller", Reason: "wallet is required"}
	}
	bucket, err := fees.ParseBucket(req.Bucket)
	if err != nil {
		return nil, err
	}

	authorized, err := e.acl.IsAuthorized(ctx, req.Caller, string(bucket), req.PoolID)
	if err != nil {
		return nil, fmt.Errorf("authorization check: %w", err)
	}
	if !authorized {
		e.logger.Warn("Claim rejected",
			zap.String("pool_id", req.PoolID),
			zap.String("bucket", string(bucket)),
			zap.String("caller", req.Caller.String()))
		return nil, ErrUnauthorizedClaimant
	}

	var result *ClaimResult
	err = e.registry.WithPool(req.PoolID, func(l *pool.Ledger) error {
		to := e.platformWallet
		if bucket == fees.BucketCreator {
			to = l.Creator
		}

		settled, err := e.accountant.Claim(ctx, l, bucket, to)
		if err != nil {
			return err
		}

		if settled.Amount > 0 {
			e.persistPool(ctx, l.Snapshot())
			e.appendEvent(ctx, &models.TransitionEvent{
				EventID:       uuid.NewString(),
				PoolID:        req.PoolID,
				Kind:          models.EventClaim,
				Caller:        req.Caller.String(),
				Bucket:        string(bucket),
				ClaimedAmount: settled.Amount,
				Signature:     settled.Signature.String(),
			})
		}

		result = &ClaimResult{
			PoolID:    req.PoolID,
			Bucket:    settled.Bucket,
			Amount:    settled.Amount,
			Signature: settled.Signature,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
