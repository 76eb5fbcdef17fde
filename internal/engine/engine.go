// internal/engine/engine.go
//
// Package engine composes the bonding-curve components into the five
// operations consumed by the transport layer: launch, buy, claim,
// migrate and validate. Every mutation runs under the registry's
// per-pool lock and is all-or-nothing; errors never leave partial
// state behind.
package engine

import (
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/collab"
	"github.com/solaunch/launchpad/internal/fees"
	"github.com/solaunch/launchpad/internal/migration"
	"github.com/solaunch/launchpad/internal/registry"
	"github.com/solaunch/launchpad/internal/storage"
)

// Engine is the bonding-curve pool engine.
type Engine struct {
	registry   *registry.Registry
	minter     collab.Minter
	acl        collab.AccessChecker
	accountant *fees.Accountant
	migrator   *migration.Controller
	store      storage.Store

	platformWallet solana.PublicKey
	logger         *zap.Logger
}

// Params wires an Engine. All fields are required.
type Params struct {
	Registry       *registry.Registry
	Minter         collab.Minter
	AMMFactory     collab.AMMFactory
	ACL            collab.AccessChecker
	Payout         collab.Payout
	Store          storage.Store
	PlatformWallet solana.PublicKey
	Migration      migration.Options
	Logger         *zap.Logger
}

func New(p Params) *Engine {
	logger := p.Logger.Named("engine")
	return &Engine{
		registry:       p.Registry,
		minter:         p.Minter,
		acl:            p.ACL,
		accountant:     fees.NewAccountant(p.Payout, p.Logger),
		migrator:       migration.NewController(p.AMMFactory, p.Logger, p.Migration),
		store:          p.Store,
		platformWallet: p.PlatformWallet,
		logger:         logger,
	}
}

// Registry exposes the pool registry for read-side wiring (the local
// ACL resolves pool creators through it).
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}
