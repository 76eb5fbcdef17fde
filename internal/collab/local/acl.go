// internal/collab/local/acl.go
package local

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// CreatorLookup resolves a pool's creator wallet. The registry's
// Creator method satisfies it.
type CreatorLookup func(poolID string) (solana.PublicKey, error)

// ACL authorizes claims: the platform wallet owns the platform bucket,
// the pool's creator owns the creator bucket.
type ACL struct {
	platformWallet solana.PublicKey
	creatorOf      CreatorLookup
	logger         *zap.Logger
}

func NewACL(platformWallet solana.PublicKey, creatorOf CreatorLookup, logger *zap.Logger) *ACL {
	return &ACL{
		platformWallet: platformWallet,
		creatorOf:      creatorOf,
		logger:         logger.Named("local_acl"),
	}
}

func (a *ACL) IsAuthorized(_ context.Context, caller solana.PublicKey, bucket string, poolID string) (bool, error) {
	switch bucket {
	case "platform":
		return caller.Equals(a.platformWallet), nil
	case "creator":
		creator, err := a.creatorOf(poolID)
		if err != nil {
			return false, fmt.Errorf("resolve pool creator: %w", err)
		}
		return caller.Equals(creator), nil
	}

	a.logger.Warn("Authorization check for unknown bucket",
		zap.String("bucket", bucket),
		zap.String("pool_id", poolID))
	return false, nil
}
