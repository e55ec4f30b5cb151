package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortorder/internal/catalog"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAddAndCount(t *testing.T) {
	inv := New().AddN("bun", 3, t0).Add("cheese", t0)

	assert.Equal(t, 3, inv.Count("bun"))
	assert.Equal(t, 1, inv.Count("cheese"))
	assert.Equal(t, 0, inv.Count("lettuce"))
	assert.Equal(t, 4, inv.Len())
	assert.Equal(t, map[string]int{"bun": 3, "cheese": 1}, inv.Counts())
}

func TestAddZeroQuantityIsNoOp(t *testing.T) {
	inv := New().Add("bun", t0)
	same := inv.AddN("bun", 0, t0.Add(time.Second))
	assert.Equal(t, inv.Entries(), same.Entries())
}

func TestRemoveFIFO(t *testing.T) {
	// n entries with strictly increasing timestamps; removing k must
	// leave the n-k newest.
	const n, k = 5, 3
	inv := New()
	for i := 0; i < n; i++ {
		inv = inv.Add("bun", t0.Add(time.Duration(i)*time.Second))
	}

	inv, err := inv.Remove("bun", k)
	require.NoError(t, err)
	require.Equal(t, n-k, inv.Len())

	oldest := inv.Entries()[0].CreatedAt
	for _, e := range inv.Entries() {
		if e.CreatedAt.Before(oldest) {
			oldest = e.CreatedAt
		}
	}
	assert.Equal(t, t0.Add(k*time.Second), oldest,
		"minimum remaining timestamp is the (k+1)-th oldest")
}

func TestRemoveOldestAcrossInterleavedItems(t *testing.T) {
	inv := New().
		Add("bun", t0).
		Add("cheese", t0.Add(time.Second)).
		Add("bun", t0.Add(2*time.Second))

	inv, err := inv.Remove("bun", 1)
	require.NoError(t, err)
	entries := inv.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "cheese", entries[0].ItemID)
	assert.Equal(t, "bun", entries[1].ItemID)
	assert.Equal(t, t0.Add(2*time.Second), entries[1].CreatedAt)
}

func TestRemoveInsufficient(t *testing.T) {
	inv := New().AddN("bun", 2, t0)

	result, err := inv.Remove("bun", 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 2, result.Count("bun"), "failed remove leaves stock unchanged")
}

func TestRemoveSetAllOrNothing(t *testing.T) {
	inv := New().AddN("bun", 2, t0).Add("cheese", t0)

	_, err := inv.RemoveSet([]catalog.Ingredient{
		{ItemID: "bun", Quantity: 2},
		{ItemID: "cheese", Quantity: 5},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The original value must still show both counts untouched even
	// though the bun debit alone would have succeeded.
	assert.Equal(t, 2, inv.Count("bun"))
	assert.Equal(t, 1, inv.Count("cheese"))
}

func TestRemoveSetSuccess(t *testing.T) {
	inv := New().AddN("bun", 2, t0).AddN("cheese", 2, t0)

	next, err := inv.RemoveSet([]catalog.Ingredient{
		{ItemID: "bun", Quantity: 1},
		{ItemID: "cheese", Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, next.Count("bun"))
	assert.Equal(t, 0, next.Count("cheese"))
	assert.Equal(t, 2, inv.Count("bun"), "input value is untouched")
}

func TestRemoveExpiredBoundaryInclusive(t *testing.T) {
	cat := catalog.Default()
	// tempura-shrimp carries a 30s shelf life.
	inv := New().Add("tempura-shrimp", t0)

	kept, expired := inv.RemoveExpired(cat, t0.Add(30*time.Second-time.Millisecond))
	assert.Empty(t, expired)
	assert.Equal(t, 1, kept.Count("tempura-shrimp"))

	kept, expired = inv.RemoveExpired(cat, t0.Add(30*time.Second))
	require.Len(t, expired, 1, "an item expires at the exact instant its shelf life elapses")
	assert.Equal(t, "tempura-shrimp", expired[0].ItemID)
	assert.Equal(t, 0, kept.Count("tempura-shrimp"))
}

func TestRemoveExpiredSkipsRawItems(t *testing.T) {
	cat := catalog.Default()
	inv := New().Add("bun", t0)

	kept, expired := inv.RemoveExpired(cat, t0.Add(24*time.Hour))
	assert.Empty(t, expired)
	assert.Equal(t, 1, kept.Count("bun"))
}

func TestFreshness(t *testing.T) {
	cat := catalog.Default()
	inv := New().
		Add("tempura-shrimp", t0).                // stale entry
		Add("tempura-shrimp", t0.Add(15*time.Second)). // fresher entry
		Add("bun", t0)

	fresh := inv.Freshness(cat, t0.Add(15*time.Second))
	assert.InDelta(t, 0.5, fresh["tempura-shrimp"], 1e-9,
		"per item the stalest entry wins")
	assert.Equal(t, 1.0, fresh["bun"], "raw items always report full freshness")

	fresh = inv.Freshness(cat, t0.Add(5*time.Minute))
	assert.Equal(t, 0.0, fresh["tempura-shrimp"], "freshness clamps at zero")
}

func TestHasIngredientsFor(t *testing.T) {
	cat := catalog.Default()
	recipe, ok := cat.RecipeFor("tempura-shrimp")
	require.True(t, ok)

	inv := New().Add("shrimp", t0)
	assert.False(t, inv.HasIngredientsFor(recipe), "flour is missing")

	inv = inv.Add("flour", t0)
	assert.True(t, inv.HasIngredientsFor(recipe))
}

func TestExecuteStep(t *testing.T) {
	cat := catalog.Default()
	recipe, ok := cat.RecipeFor("tempura-shrimp")
	require.True(t, ok)

	inv := New().Add("shrimp", t0).Add("flour", t0)
	next, err := inv.ExecuteStep(recipe, t0.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 0, next.Count("shrimp"))
	assert.Equal(t, 0, next.Count("flour"))
	assert.Equal(t, 1, next.Count("tempura-shrimp"))
}

func TestExecuteStepShortfallLeavesInventoryUnchanged(t *testing.T) {
	cat := catalog.Default()
	recipe, ok := cat.RecipeFor("tempura-shrimp")
	require.True(t, ok)

	inv := New().Add("shrimp", t0)
	result, err := inv.ExecuteStep(recipe, t0)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, result.Count("shrimp"))
	assert.Equal(t, 0, result.Count("tempura-shrimp"))
}
