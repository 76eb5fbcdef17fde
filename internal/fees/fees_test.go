package fees

import (
	"context"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/pool"
)

// stubPayout records transfers and can be told to fail.
type stubPayout struct {
	fail      error
	transfers []uint64
}

func (p *stubPayout) Transfer(_ context.Context, _ solana.PublicKey, lamports uint64) (solana.Signature, error) {
	if p.fail != nil {
		return solana.Signature{}, p.fail
	}
	p.transfers = append(p.transfers, lamports)
	var sig solana.Signature
	_, _ = rand.Read(sig[:])
	return sig, nil
}

func testLedger(t *testing.T) *pool.Ledger {
	t.Helper()
	return pool.NewLedger("dbc_fees0001", solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(),
		"Fee Token", "FEE", "", 100)
}

func TestSplit(t *testing.T) {
	platform, creator := Split(10_000_000_000, 50, 100)
	assert.Equal(t, uint64(50_000_000), platform)
	assert.Equal(t, uint64(100_000_000), creator)
	assert.LessOrEqual(t, platform+creator, uint64(10_000_000_000))

	platform, creator = Split(1, 50, 450)
	assert.Equal(t, uint64(1), platform, "dust fees round up")
	assert.Equal(t, uint64(1), creator)
}

func TestParseBucket(t *testing.T) {
	b, err := ParseBucket("platform")
	require.NoError(t, err)
	assert.Equal(t, BucketPlatform, b)

	b, err = ParseBucket("creator")
	require.NoError(t, err)
	assert.Equal(t, BucketCreator, b)

	_, err = ParseBucket("treasury")
	assert.ErrorIs(t, err, ErrUnknownBucket)
}

func TestClaimPaysOutAndMarks(t *testing.T) {
	ledger := testLedger(t)
	ledger.AccruedCreator = 300_000

	payout := &stubPayout{}
	acc := NewAccountant(payout, zap.NewNop())

	res, err := acc.Claim(context.Background(), ledger, BucketCreator, ledger.Creator)
	require.NoError(t, err)
	assert.Equal(t, uint64(300_000), res.Amount)
	assert.Equal(t, []uint64{300_000}, payout.transfers)
	assert.Zero(t, ledger.ClaimableCreator())
	assert.Equal(t, uint64(300_000), ledger.ClaimedCreator)
}

func TestClaimIsIdempotentWithNoNewAccrual(t *testing.T) {
	ledger := testLedger(t)
	ledger.AccruedPlatform = 1_000

	payout := &stubPayout{}
	acc := NewAccountant(payout, zap.NewNop())
	ctx := context.Background()
	to := solana.NewWallet().PublicKey()

	first, err := acc.Claim(ctx, ledger, BucketPlatform, to)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), first.Amount)

	second, err := acc.Claim(ctx, ledger, BucketPlatform, to)
	require.NoError(t, err)
	assert.Zero(t, second.Amount, "second claim with nothing accrued pays zero")
	assert.Len(t, payout.transfers, 1, "no second transfer is attempted")
}

func TestClaimTransferFailureKeepsAccrual(t *testing.T) {
	ledger := testLedger(t)
	ledger.AccruedCreator = 777

	payout := &stubPayout{fail: errors.New("rpc timeout")}
	acc := NewAccountant(payout, zap.NewNop())

	_, err := acc.Claim(context.Background(), ledger, BucketCreator, ledger.Creator)
	var transferErr *TransferError
	require.ErrorAs(t, err, &transferErr)

	assert.Equal(t, uint64(777), ledger.ClaimableCreator(), "failed transfer must not decrement accrual")
	assert.Zero(t, ledger.ClaimedCreator)
}
