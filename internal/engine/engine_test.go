package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/collab/local"
	"github.com/solaunch/launchpad/internal/fees"
	"github.com/solaunch/launchpad/internal/migration"
	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/registry"
	"github.com/solaunch/launchpad/internal/storage/memory"
	"github.com/solaunch/launchpad/internal/storage/models"
)

type harness struct {
	engine   *Engine
	minter   *local.Minter
	factory  *local.AMMFactory
	payout   *local.Payout
	store    *memory.Store
	platform solana.PublicKey
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zap.NewNop()

	reg := registry.New(logger)
	minter := local.NewMinter(logger)
	factory := local.NewAMMFactory(logger)
	payout := local.NewPayout(logger)
	store := memory.New()
	platform := solana.NewWallet().PublicKey()
	acl := local.NewACL(platform, reg.Creator, logger)

	eng := New(Params{
		Registry:       reg,
		Minter:         minter,
		AMMFactory:     factory,
		ACL:            acl,
		Payout:         payout,
		Store:          store,
		PlatformWallet: platform,
		Migration:      migration.Options{MaxTries: 2, RetryDelay: time.Millisecond},
		Logger:         logger,
	})
	return &harness{
		engine:   eng,
		minter:   minter,
		factory:  factory,
		payout:   payout,
		store:    store,
		platform: platform,
	}
}

func launchPool(t *testing.T, h *harness, creator solana.PublicKey, creatorFeeBps uint64) *LaunchResult {
	t.Helper()
	res, err := h.engine.Launch(context.Background(), LaunchRequest{
		Creator:       creator,
		Name:          "Rocket Token",
		Symbol:        "RKT",
		Description:   "to the moon",
		CreatorFeeBps: creatorFeeBps,
	})
	require.NoError(t, err)
	return res
}

func TestLaunchValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	creator := solana.NewWallet().PublicKey()

	cases := []struct {
		name string
		req  LaunchRequest
	}{
		{"missing creator", LaunchRequest{Name: "T", Symbol: "T"}},
		{"empty name", LaunchRequest{Creator: creator, Symbol: "T"}},
		{"empty symbol", LaunchRequest{Creator: creator, Name: "T"}},
		{"fee too high", LaunchRequest{Creator: creator, Name: "T", Symbol: "T", CreatorFeeBps: pool.MaxCreatorFeeBps + 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.engine.Launch(ctx, tc.req)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.True(t, IsDomainError(err))
		})
	}
	assert.Zero(t, h.engine.Registry().Len(), "no pool registered on rejected launch")
}

func TestLaunchMintsCreatorShareOnly(t *testing.T) {
	h := newHarness(t)
	creator := solana.NewWallet().PublicKey()

	res := launchPool(t, h, creator, 100)

	assert.Equal(t, pool.TotalSupply, res.DBCAllocation+res.CreatorTokens)
	assert.Equal(t, uint64(2_000_000_000)*1_000_000_000, res.CreatorTokens, "creator holds a fifth of supply")
	assert.Equal(t, res.CreatorTokens, h.minter.Supply(res.TokenMint),
		"only the creator share circulates at launch")
	assert.Equal(t, "dbc_"+res.TokenMint.String()[:8], res.PoolID)

	record, err := h.store.GetPool(context.Background(), res.PoolID)
	require.NoError(t, err)
	assert.Equal(t, "active", record.Status)

	events, err := h.store.ListEvents(context.Background(), res.PoolID, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventLaunch, events[0].Kind)
}

func TestLaunchMintFailureLeavesNoPool(t *testing.T) {
	h := newHarness(t)
	h.minter.FailNext(errors.New("rpc unavailable"))

	_, err := h.engine.Launch(context.Background(), LaunchRequest{
		Creator: solana.NewWallet().PublicKey(),
		Name:    "Doomed",
		Symbol:  "DOOM",
	})
	var mintErr *MintError
	require.ErrorAs(t, err, &mintErr)
	assert.True(t, IsCollaboratorError(err))
	assert.Zero(t, h.engine.Registry().Len())
}

func TestBuyAccounting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	creator := solana.NewWallet().PublicKey()
	buyer := solana.NewWallet().PublicKey()
	launched := launchPool(t, h, creator, 100)

	res, err := h.engine.Buy(ctx, BuyRequest{
		PoolID: launched.PoolID,
		Buyer:  buyer,
		SolIn:  10_000_000_000, // 10 SOL
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(5_000_000), res.PlatformFee, "50 bps of 10 SOL")
	assert.Equal(t, uint64(10_000_000), res.CreatorFee, "100 bps of 10 SOL")
	assert.Equal(t, uint64(9_985_000_000), res.NetSolIn)
	assert.Equal(t, res.NetSolIn, res.SolReserve, "only the net amount enters the reserve")
	assert.False(t, res.ReadyToMigrate)

	assert.Equal(t, launched.CreatorTokens+res.TokensOut, h.minter.Supply(launched.TokenMint),
		"buyer tokens are minted on demand")

	report, err := h.engine.Validate(launched.PoolID)
	require.NoError(t, err)
	assert.Empty(t, report.Checks)
	assert.Equal(t, uint64(5_000_000), report.ClaimablePlatform)
	assert.Equal(t, uint64(10_000_000), report.ClaimableCreator)
	assert.Equal(t, uint64(1), report.TradeCount)
	assert.Equal(t, uint64(10_000_000_000), report.VolumeGross)
}

func TestBuyMintFailureLeavesPoolUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	launched := launchPool(t, h, solana.NewWallet().PublicKey(), 0)

	h.minter.FailNext(errors.New("rpc unavailable"))
	_, err := h.engine.Buy(ctx, BuyRequest{
		PoolID: launched.PoolID,
		Buyer:  solana.NewWallet().PublicKey(),
		SolIn:  1_000_000_000,
	})
	var mintErr *MintError
	require.ErrorAs(t, err, &mintErr)

	report, err := h.engine.Validate(launched.PoolID)
	require.NoError(t, err)
	assert.Zero(t, report.SolReserve)
	assert.Zero(t, report.TradeCount)
}

func TestFullLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	creator := solana.NewWallet().PublicKey()
	buyer := solana.NewWallet().PublicKey()
	launched := launchPool(t, h, creator, 100)

	// One 90 SOL buy crosses the 85.85 SOL threshold after fees.
	buyRes, err := h.engine.Buy(ctx, BuyRequest{
		PoolID: launched.PoolID,
		Buyer:  buyer,
		SolIn:  90_000_000_000,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(450_000_000), buyRes.PlatformFee)
	assert.Equal(t, uint64(900_000_000), buyRes.CreatorFee)
	assert.Equal(t, uint64(88_650_000_000), buyRes.SolReserve)
	assert.Equal(t, uint64(1_900), buyRes.EffectivePrice, "price has risen 90 percent at 90 SOL depth")
	assert.True(t, buyRes.ReadyToMigrate)

	// Migrate.
	migRes, err := h.engine.Migrate(ctx, MigrateRequest{PoolID: launched.PoolID, Caller: buyer})
	require.NoError(t, err)
	assert.False(t, migRes.AlreadyDone)
	assert.Equal(t, uint64(88_650_000_000), migRes.SolLiquidity)
	assert.Equal(t, launched.DBCAllocation-buyRes.TokensOut, migRes.TokenReserve)

	created, ok := h.factory.Pool(migRes.AMMPoolID)
	require.True(t, ok)
	assert.Equal(t, migration.WrappedSOLMint, created.TokenA)
	assert.Equal(t, launched.TokenMint, created.TokenB)
	assert.Equal(t, migRes.SolLiquidity, created.ReserveA)
	assert.Equal(t, migRes.TokenReserve, created.ReserveB)

	// Buys are rejected once migrated.
	_, err = h.engine.Buy(ctx, BuyRequest{PoolID: launched.PoolID, Buyer: buyer, SolIn: 1_000_000_000})
	assert.ErrorIs(t, err, pool.ErrNotActive)
	assert.True(t, IsDomainError(err))

	// A repeat migrate is a no-op returning the same destination.
	again, err := h.engine.Migrate(ctx, MigrateRequest{PoolID: launched.PoolID, Caller: buyer})
	require.NoError(t, err)
	assert.True(t, again.AlreadyDone)
	assert.Equal(t, migRes.AMMPoolID, again.AMMPoolID)

	// Fees stay claimable after migration.
	claimed, err := h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: creator, Bucket: "creator"})
	require.NoError(t, err)
	assert.Equal(t, uint64(900_000_000), claimed.Amount)

	report, err := h.engine.Validate(launched.PoolID)
	require.NoError(t, err)
	assert.Empty(t, report.Checks)
	assert.Equal(t, "migrated", report.Status)
	assert.Equal(t, "100.00%", report.MigrationProgress)
	assert.Zero(t, report.SolReserve)

	events, err := h.store.ListEvents(ctx, launched.PoolID, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 4) // launch, buy, migrate, claim
	assert.Equal(t, models.EventMigrate, events[2].Kind)
	assert.Equal(t, migRes.AMMPoolID, events[2].AMMPoolID)
}

func TestMigrateBelowThreshold(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	launched := launchPool(t, h, solana.NewWallet().PublicKey(), 0)

	_, err := h.engine.Migrate(ctx, MigrateRequest{PoolID: launched.PoolID, Caller: solana.NewWallet().PublicKey()})
	assert.ErrorIs(t, err, pool.ErrThresholdNotReached)
	assert.True(t, IsDomainError(err))
}

func TestClaimAuthorization(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	creator := solana.NewWallet().PublicKey()
	stranger := solana.NewWallet().PublicKey()
	launched := launchPool(t, h, creator, 100)

	_, err := h.engine.Buy(ctx, BuyRequest{
		PoolID: launched.PoolID,
		Buyer:  solana.NewWallet().PublicKey(),
		SolIn:  10_000_000_000,
	})
	require.NoError(t, err)

	// A stranger owns neither bucket.
	_, err = h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: stranger, Bucket: "creator"})
	assert.ErrorIs(t, err, ErrUnauthorizedClaimant)
	_, err = h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: stranger, Bucket: "platform"})
	assert.ErrorIs(t, err, ErrUnauthorizedClaimant)
	assert.Empty(t, h.payout.Transfers(), "rejected claims move no funds")

	// The rightful owners collect their accruals.
	platformClaim, err := h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: h.platform, Bucket: "platform"})
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), platformClaim.Amount)

	creatorClaim, err := h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: creator, Bucket: "creator"})
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), creatorClaim.Amount)

	transfers := h.payout.Transfers()
	require.Len(t, transfers, 2)
	assert.Equal(t, h.platform, transfers[0].To)
	assert.Equal(t, creator, transfers[1].To)

	// A second claim finds nothing, successfully.
	repeat, err := h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: creator, Bucket: "creator"})
	require.NoError(t, err)
	assert.Zero(t, repeat.Amount)
	assert.Len(t, h.payout.Transfers(), 2)
}

func TestClaimTransferFailurePreservesAccrual(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	creator := solana.NewWallet().PublicKey()
	launched := launchPool(t, h, creator, 100)

	_, err := h.engine.Buy(ctx, BuyRequest{
		PoolID: launched.PoolID,
		Buyer:  solana.NewWallet().PublicKey(),
		SolIn:  10_000_000_000,
	})
	require.NoError(t, err)

	h.payout.FailNext(errors.New("network partition"))
	_, err = h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: creator, Bucket: "creator"})
	var transferErr *fees.TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.True(t, IsCollaboratorError(err))

	report, err := h.engine.Validate(launched.PoolID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), report.ClaimableCreator, "failed payout keeps the accrual intact")

	retried, err := h.engine.Claim(ctx, ClaimRequest{PoolID: launched.PoolID, Caller: creator, Bucket: "creator"})
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000_000), retried.Amount)
}

func TestClaimUnknownBucket(t *testing.T) {
	h := newHarness(t)
	launched := launchPool(t, h, solana.NewWallet().PublicKey(), 0)

	_, err := h.engine.Claim(context.Background(), ClaimRequest{
		PoolID: launched.PoolID,
		Caller: h.platform,
		Bucket: "treasury",
	})
	assert.ErrorIs(t, err, fees.ErrUnknownBucket)
}

func TestUnknownPool(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.engine.Buy(ctx, BuyRequest{PoolID: "dbc_missing1", Buyer: solana.NewWallet().PublicKey(), SolIn: 1})
	assert.ErrorIs(t, err, registry.ErrPoolNotFound)
	_, err = h.engine.Validate("dbc_missing1")
	assert.ErrorIs(t, err, registry.ErrPoolNotFound)
}

func TestMigrationSurvivesTransientFactoryFailure(t *testing.T) {
	h := newHarness(t) // MaxTries: 2
	ctx := context.Background()
	buyer := solana.NewWallet().PublicKey()
	launched := launchPool(t, h, solana.NewWallet().PublicKey(), 0)

	_, err := h.engine.Buy(ctx, BuyRequest{PoolID: launched.PoolID, Buyer: buyer, SolIn: 90_000_000_000})
	require.NoError(t, err)

	// One failure is absorbed by the retry policy.
	h.factory.FailNext(errors.New("congested"))
	migRes, err := h.engine.Migrate(ctx, MigrateRequest{PoolID: launched.PoolID, Caller: buyer})
	require.NoError(t, err)
	assert.False(t, migRes.AlreadyDone)
}

func TestMigrationFailureRollsBackAndStaysRetryable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	buyer := solana.NewWallet().PublicKey()

	// Single-try engine on the same registry so one armed failure
	// exhausts the retry budget.
	strict := New(Params{
		Registry:       h.engine.Registry(),
		Minter:         h.minter,
		AMMFactory:     h.factory,
		ACL:            local.NewACL(h.platform, h.engine.Registry().Creator, zap.NewNop()),
		Payout:         h.payout,
		Store:          h.store,
		PlatformWallet: h.platform,
		Migration:      migration.Options{MaxTries: 1, RetryDelay: time.Millisecond},
		Logger:         zap.NewNop(),
	})

	launched := launchPool(t, h, solana.NewWallet().PublicKey(), 0)
	_, err := h.engine.Buy(ctx, BuyRequest{PoolID: launched.PoolID, Buyer: buyer, SolIn: 90_000_000_000})
	require.NoError(t, err)

	h.factory.FailNext(errors.New("factory exploded"))
	_, err = strict.Migrate(ctx, MigrateRequest{PoolID: launched.PoolID, Caller: buyer})
	var creationErr *migration.CreationError
	require.ErrorAs(t, err, &creationErr)
	assert.True(t, IsCollaboratorError(err))

	report, err := strict.Validate(launched.PoolID)
	require.NoError(t, err)
	assert.Equal(t, "active", report.Status, "failed migration rolls back to active")
	assert.Equal(t, uint64(89_550_000_000), report.SolReserve, "reserve untouched by the failed attempt")

	retried, err := strict.Migrate(ctx, MigrateRequest{PoolID: launched.PoolID, Caller: buyer})
	require.NoError(t, err)
	assert.False(t, retried.AlreadyDone)
}
