package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solaunch/launchpad/internal/collab/local"
	"github.com/solaunch/launchpad/internal/engine"
	"github.com/solaunch/launchpad/internal/migration"
	"github.com/solaunch/launchpad/internal/registry"
	"github.com/solaunch/launchpad/internal/storage/memory"
)

type testServer struct {
	router   *gin.Engine
	platform solana.PublicKey
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()

	reg := registry.New(logger)
	platform := solana.NewWallet().PublicKey()
	store := memory.New()

	eng := engine.New(engine.Params{
		Registry:       reg,
		Minter:         local.NewMinter(logger),
		AMMFactory:     local.NewAMMFactory(logger),
		ACL:            local.NewACL(platform, reg.Creator, logger),
		Payout:         local.NewPayout(logger),
		Store:          store,
		PlatformWallet: platform,
		Migration:      migration.Options{MaxTries: 2, RetryDelay: time.Millisecond},
		Logger:         logger,
	})

	handlers := NewHandlers(eng, store, logger)
	return &testServer{
		router:   SetupRouter(handlers, logger),
		platform: platform,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (s *testServer) launch(t *testing.T, creator solana.PublicKey, feeBps uint64) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/pools", gin.H{
		"creator":         creator.String(),
		"name":            "Rocket Token",
		"symbol":          "RKT",
		"creator_fee_bps": feeBps,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["pool_id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLaunchAndInspect(t *testing.T) {
	s := newTestServer(t)
	creator := solana.NewWallet().PublicKey()

	poolID := s.launch(t, creator, 100)

	w := s.do(t, http.MethodGet, "/pools/"+poolID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "active", body["Status"])
	assert.Equal(t, "0.00%", body["MigrationProgress"])

	w = s.do(t, http.MethodGet, "/pools", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLaunchValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/pools", gin.H{"name": "No Creator", "symbol": "NC"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/pools", gin.H{
		"creator": "not-base58!", "name": "Bad", "symbol": "BAD",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/pools", gin.H{
		"creator":         solana.NewWallet().PublicKey().String(),
		"name":            "Greedy",
		"symbol":          "GRD",
		"creator_fee_bps": 9_999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuyFlow(t *testing.T) {
	s := newTestServer(t)
	creator := solana.NewWallet().PublicKey()
	buyer := solana.NewWallet().PublicKey()
	poolID := s.launch(t, creator, 100)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/buy", poolID), gin.H{
		"buyer":        buyer.String(),
		"sol_lamports": "10000000000",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "5000000", body["platform_fee"])
	assert.Equal(t, "10000000", body["creator_fee"])
	assert.Equal(t, "9985000000", body["net_sol_in"])
	assert.Equal(t, false, body["ready_to_migrate"])

	// Non-numeric amount is rejected up front.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/buy", poolID), gin.H{
		"buyer":        buyer.String(),
		"sol_lamports": "ten",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown pool.
	w = s.do(t, http.MethodPost, "/pools/dbc_missing1/buy", gin.H{
		"buyer":        buyer.String(),
		"sol_lamports": "1000000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	events := s.do(t, http.MethodGet, fmt.Sprintf("/pools/%s/events", poolID), nil)
	assert.Equal(t, http.StatusOK, events.Code)
}

func TestClaimAuthorization(t *testing.T) {
	s := newTestServer(t)
	creator := solana.NewWallet().PublicKey()
	poolID := s.launch(t, creator, 100)

	w := s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/buy", poolID), gin.H{
		"buyer":        solana.NewWallet().PublicKey().String(),
		"sol_lamports": "10000000000",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/claim", poolID), gin.H{
		"caller": solana.NewWallet().PublicKey().String(),
		"bucket": "creator",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/claim", poolID), gin.H{
		"caller": creator.String(),
		"bucket": "creator",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10000000", decode(t, w)["amount"])

	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/claim", poolID), gin.H{
		"caller": creator.String(),
		"bucket": "treasury",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMigrateFlow(t *testing.T) {
	s := newTestServer(t)
	creator := solana.NewWallet().PublicKey()
	buyer := solana.NewWallet().PublicKey()
	poolID := s.launch(t, creator, 0)

	// Below threshold.
	w := s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/migrate", poolID), gin.H{
		"caller": buyer.String(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/buy", poolID), gin.H{
		"buyer":        buyer.String(),
		"sol_lamports": "90000000000",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ready_to_migrate"])

	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/migrate", poolID), gin.H{
		"caller": buyer.String(),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, false, body["already_done"])
	assert.NotEmpty(t, body["amm_pool_id"])

	// Buys are refused after migration.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/buy", poolID), gin.H{
		"buyer":        buyer.String(),
		"sol_lamports": "1000000000",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Idempotent repeat.
	w = s.do(t, http.MethodPost, fmt.Sprintf("/pools/%s/migrate", poolID), gin.H{
		"caller": buyer.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["already_done"])
}
