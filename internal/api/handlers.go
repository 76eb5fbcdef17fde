// internal/api/handlers.go
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/engine"
	"github.com/solaunch/launchpad/internal/pool"
	"github.com/solaunch/launchpad/internal/registry"
	"github.com/solaunch/launchpad/internal/storage"
)

// Handlers exposes the engine operations over HTTP.
type Handlers struct {
	engine *engine.Engine
	store  storage.Store
	logger *zap.Logger
}

func NewHandlers(eng *engine.Engine, store storage.Store, logger *zap.Logger) *Handlers {
	return &Handlers{
		engine: eng,
		store:  store,
		logger: logger.Named("api"),
	}
}

// LaunchRequest is the POST /pools body.
type LaunchRequest struct {
	Creator       string `json:"creator" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Symbol        string `json:"symbol" binding:"required"`
	Description   string `json:"description"`
	CreatorFeeBps uint64 `json:"creator_fee_bps"`
}

// BuyRequest is the POST /pools/:id/buy body. Lamports travel as
// decimal strings so large values survive JSON number handling.
type BuyRequest struct {
	Buyer       string `json:"buyer" binding:"required"`
	SolLamports string `json:"sol_lamports" binding:"required"`
}

// ClaimRequest is the POST /pools/:id/claim body.
type ClaimRequest struct {
	Caller string `json:"caller" binding:"required"`
	Bucket string `json:"bucket" binding:"required"`
}

// MigrateRequest is the POST /pools/:id/migrate body.
type MigrateRequest struct {
	Caller string `json:"caller" binding:"required"`
}

func (h *Handlers) Launch(c *gin.Context) {
	var req LaunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	creator, err := solana.PublicKeyFromBase58(req.Creator)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid creator wallet"})
		return
	}

	result, err := h.engine.Launch(c.Request.Context(), engine.LaunchRequest{
		Creator:       creator,
		Name:          req.Name,
		Symbol:        req.Symbol,
		Description:   req.Description,
		CreatorFeeBps: req.CreatorFeeBps,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"pool_id":        result.PoolID,
		"token_mint":     result.TokenMint.String(),
		"total_supply":   strconv.FormatUint(result.TotalSupply, 10),
		"dbc_allocation": strconv.FormatUint(result.DBCAllocation, 10),
		"creator_tokens": strconv.FormatUint(result.CreatorTokens, 10),
		"spot_price":     strconv.FormatUint(result.SpotPrice, 10),
	})
}

func (h *Handlers) Buy(c *gin.Context) {
	var req BuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	buyer, err := solana.PublicKeyFromBase58(req.Buyer)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid buyer wallet"})
		return
	}
	lamports, err := strconv.ParseUint(req.SolLamports, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sol_lamports must be a positive integer"})
		return
	}

	result, err := h.engine.Buy(c.Request.Context(), engine.BuyRequest{
		PoolID: c.Param("id"),
		Buyer:  buyer,
		SolIn:  lamports,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pool_id":          result.PoolID,
		"tokens_out":       strconv.FormatUint(result.TokensOut, 10),
		"platform_fee":     strconv.FormatUint(result.PlatformFee, 10),
		"creator_fee":      strconv.FormatUint(result.CreatorFee, 10),
		"net_sol_in":       strconv.FormatUint(result.NetSolIn, 10),
		"effective_price":  strconv.FormatUint(result.EffectivePrice, 10),
		"sol_reserve":      strconv.FormatUint(result.SolReserve, 10),
		"ready_to_migrate": result.ReadyToMigrate,
	})
}

func (h *Handlers) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, err := solana.PublicKeyFromBase58(req.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid caller wallet"})
		return
	}

	result, err := h.engine.Claim(c.Request.Context(), engine.ClaimRequest{
		PoolID: c.Param("id"),
		Caller: caller,
		Bucket: req.Bucket,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pool_id":   result.PoolID,
		"bucket":    string(result.Bucket),
		"amount":    strconv.FormatUint(result.Amount, 10),
		"signature": result.Signature.String(),
	})
}

func (h *Handlers) Migrate(c *gin.Context) {
	var req MigrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, err := solana.PublicKeyFromBase58(req.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid caller wallet"})
		return
	}

	result, err := h.engine.Migrate(c.Request.Context(), engine.MigrateRequest{
		PoolID: c.Param("id"),
		Caller: caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pool_id":        result.PoolID,
		"amm_pool_id":    result.AMMPoolID,
		"sol_liquidity":  strconv.FormatUint(result.SolLiquidity, 10),
		"token_reserve":  strconv.FormatUint(result.TokenReserve, 10),
		"completed_at":   result.CompletedAt,
		"already_done":   result.AlreadyDone,
	})
}

func (h *Handlers) GetPool(c *gin.Context) {
	report, err := h.engine.Validate(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handlers) ListPools(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.ListReports())
}

func (h *Handlers) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	events, err := h.store.ListEvents(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, events)
}

// fail maps engine errors onto HTTP statuses.
func (h *Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrPoolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrUnauthorizedClaimant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, pool.ErrNotActive),
		errors.Is(err, pool.ErrAlreadyMigrated),
		errors.Is(err, pool.ErrMigrationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case engine.IsDomainError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case engine.IsCollaboratorError(err):
		h.logger.Error("Collaborator failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
