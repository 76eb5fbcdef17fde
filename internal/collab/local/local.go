// internal/collab/local/local.go
//
// Package local provides deterministic in-process implementations of
// the engine's collaborators. They back the devnet-less run mode and
// the test suite; each one can be armed to fail its next call so the
// engine's failure paths stay exercised.
package local

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/collab"
)

// failer arms a one-shot injected failure.
type failer struct {
	mu   sync.Mutex
	next error
}

// FailNext makes the next call return err instead of succeeding.
func (f *failer) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next = err
}

func (f *failer) take() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.next
	f.next = nil
	return err
}

// Minter issues mints as fresh keypairs and tracks issued supply.
type Minter struct {
	failer
	mu     sync.Mutex
	supply map[solana.PublicKey]uint64
	logger *zap.Logger
}

func NewMinter(logger *zap.Logger) *Minter {
	return &Minter{
		supply: make(map[solana.PublicKey]uint64),
		logger: logger.Named("local_minter"),
	}
}

func (m *Minter) CreateMint(_ context.Context, decimals uint8) (solana.PublicKey, error) {
	if err := m.take(); err != nil {
		return solana.PublicKey{}, err
	}
	mint := solana.NewWallet().PublicKey()

	m.mu.Lock()
	m.supply[mint] = 0
	m.mu.Unlock()

	m.logger.Info("Mint created",
		zap.String("mint", mint.String()),
		zap.Uint8("decimals", decimals))
	return mint, nil
}

func (m *Minter) MintTo(_ context.Context, mint solana.PublicKey, amount uint64, to solana.PublicKey) error {
	if err := m.take(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.supply[mint]; !ok {
		return fmt.Errorf("unknown mint %s", mint.String())
	}
	m.supply[mint] += amount

	m.logger.Debug("Supply minted",
		zap.String("mint", mint.String()),
		zap.Uint64("amount", amount),
		zap.String("to", to.String()))
	return nil
}

// Supply reports the issued supply of a mint.
func (m *Minter) Supply(mint solana.PublicKey) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supply[mint]
}

// AMMFactory records created pools under generated ids.
type AMMFactory struct {
	failer
	mu     sync.Mutex
	seq    int
	pools  map[string]CreatedPool
	logger *zap.Logger
}

// CreatedPool is the factory's record of one constant-product pool.
type CreatedPool struct {
	TokenA   solana.PublicKey
	TokenB   solana.PublicKey
	ReserveA uint64
	ReserveB uint64
	FeeBps   uint64
}

func NewAMMFactory(logger *zap.Logger) *AMMFactory {
	return &AMMFactory{
		pools:  make(map[string]CreatedPool),
		logger: logger.Named("local_amm"),
	}
}

func (f *AMMFactory) CreatePool(_ context.Context, params collab.CreatePoolParams) (string, error) {
	if err := f.take(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	poolID := fmt.Sprintf("damm_v2_%08d", f.seq)
	f.pools[poolID] = CreatedPool{
		TokenA:   params.TokenA,
		TokenB:   params.TokenB,
		ReserveA: params.ReserveA,
		ReserveB: params.ReserveB,
		FeeBps:   params.FeeBps,
	}

	f.logger.Info("AMM pool created",
		zap.String("amm_pool_id", poolID),
		zap.Uint64("reserve_a", params.ReserveA),
		zap.Uint64("reserve_b", params.ReserveB))
	return poolID, nil
}

// Pool returns the factory's record of a created pool.
func (f *AMMFactory) Pool(poolID string) (CreatedPool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.pools[poolID]
	return p, ok
}

// Payout records transfers and fabricates signatures.
type Payout struct {
	failer
	mu        sync.Mutex
	transfers []Transfer
	logger    *zap.Logger
}

// Transfer is one recorded payout.
type Transfer struct {
	To       solana.PublicKey
	Lamports uint64
}

func NewPayout(logger *zap.Logger) *Payout {
	return &Payout{logger: logger.Named("local_payout")}
}

func (p *Payout) Transfer(_ context.Context, to solana.PublicKey, lamports uint64) (solana.Signature, error) {
	if err := p.take(); err != nil {
		return solana.Signature{}, err
	}

	p.mu.Lock()
	p.transfers = append(p.transfers, Transfer{To: to, Lamports: lamports})
	p.mu.Unlock()

	var sig solana.Signature
	if _, err := rand.Read(sig[:]); err != nil {
		return solana.Signature{}, fmt.Errorf("generate signature: %w", err)
	}

	p.logger.Debug("Transfer executed",
		zap.String("to", to.String()),
		zap.Uint64("lamports", lamports),
		zap.String("signature", sig.String()))
	return sig, nil
}

// Transfers returns a copy of all recorded payouts.
func (p *Payout) Transfers() []Transfer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Transfer, len(p.transfers))
	copy(out, p.transfers)
	return out
}
