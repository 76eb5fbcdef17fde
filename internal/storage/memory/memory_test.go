package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solaunch/launchpad/internal/storage"
	"github.com/solaunch/launchpad/internal/storage/models"
)

func TestPoolRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	record := &models.PoolRecord{
		PoolID:      "dbc_mem00001",
		TokenMint:   "MintAddr",
		Creator:     "CreatorAddr",
		Name:        "Mem Token",
		Symbol:      "MEM",
		Status:      "active",
		TotalSupply: 1_000,
	}
	require.NoError(t, s.SavePool(ctx, record))
	assert.Error(t, s.SavePool(ctx, record), "duplicate save is refused")

	got, err := s.GetPool(ctx, "dbc_mem00001")
	require.NoError(t, err)
	assert.Equal(t, "MEM", got.Symbol)

	// Returned record is a copy, not shared state.
	got.Symbol = "HACKED"
	again, err := s.GetPool(ctx, "dbc_mem00001")
	require.NoError(t, err)
	assert.Equal(t, "MEM", again.Symbol)

	record.Status = "migrated"
	require.NoError(t, s.UpdatePool(ctx, record))
	updated, err := s.GetPool(ctx, "dbc_mem00001")
	require.NoError(t, err)
	assert.Equal(t, "migrated", updated.Status)

	_, err = s.GetPool(ctx, "dbc_unknown")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEventHistory(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendEvent(ctx, &models.TransitionEvent{
			EventID: string(rune('a' + i)),
			PoolID:  "dbc_mem00001",
			Kind:    models.EventBuy,
		}))
	}
	require.NoError(t, s.AppendEvent(ctx, &models.TransitionEvent{
		EventID: "other",
		PoolID:  "dbc_other001",
		Kind:    models.EventClaim,
	}))

	events, err := s.ListEvents(ctx, "dbc_mem00001", 0, 0)
	require.NoError(t, err)
	assert.Len(t, events, 5)

	page, err := s.ListEvents(ctx, "dbc_mem00001", 2, 3)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	empty, err := s.ListEvents(ctx, "dbc_mem00001", 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
