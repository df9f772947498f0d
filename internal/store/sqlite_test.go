package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/vyapar/internal/types"
)

// NewTestStore creates a new in-memory store for testing
func NewTestStore(t *testing.T) *SQLite {
	t.Helper()

	s, err := NewSQLite(":memory:")
	require.NoError(t, err, "failed to create test store")

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestSQLite_PutGetOverwrite(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, CollectionForecasts, "Maggi", types.ForecastRecord{ProductName: "Maggi", PredictedDemand: 12}))
	require.NoError(t, s.Put(ctx, CollectionForecasts, "Maggi", types.ForecastRecord{ProductName: "Maggi", PredictedDemand: 15.5}))

	doc, err := s.Get(ctx, CollectionForecasts, "Maggi")
	require.NoError(t, err)

	var rec types.ForecastRecord
	require.NoError(t, doc.Decode(&rec))
	assert.Equal(t, 15.5, rec.PredictedDemand)

	docs, err := s.List(ctx, CollectionForecasts)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestSQLite_GetNotFound(t *testing.T) {
	s := NewTestStore(t)

	_, err := s.Get(context.Background(), CollectionForecasts, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLite_AppendNeverMerges(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	rec := types.DecisionRecord{ProductID: "chips", Message: "Trending product detected: chips", Confidence: 0.5}
	k1, err := s.Append(ctx, CollectionDecisions, rec)
	require.NoError(t, err)
	k2, err := s.Append(ctx, CollectionDecisions, rec)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)

	docs, err := s.List(ctx, CollectionDecisions)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, k1, docs[0].Key)
	assert.Equal(t, k2, docs[1].Key)
}

func TestSQLite_InvalidInput(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, "", "k", 1), ErrInvalidInput)
	assert.ErrorIs(t, s.Put(ctx, CollectionForecasts, "", 1), ErrInvalidInput)
	_, err := s.Append(ctx, "", 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.List(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLoadSalesAndInventory(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	_, err := s.Append(ctx, CollectionSales, types.SalesRecord{ProductName: "Tata Salt", Timestamp: ts, Quantity: 3})
	require.NoError(t, err)
	_, err = s.Append(ctx, CollectionSales, map[string]any{"productname": "Bad", "timestamp": "not a time"})
	require.NoError(t, err)

	sales, skipped, err := LoadSales(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, sales, 1)
	assert.Equal(t, "Tata Salt", sales[0].ProductName)
	assert.True(t, ts.Equal(sales[0].Timestamp))

	require.NoError(t, s.Put(ctx, CollectionInventory, "inv-1", map[string]any{"productName": "Parle-G", "stock": 4}))
	items, skipped, err := LoadInventory(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, items, 1)
	assert.Equal(t, types.InventoryItem{ID: "inv-1", ProductName: "Parle-G", Stock: 4}, items[0])
}

func TestSeed(t *testing.T) {
	s := NewTestStore(t)
	ctx := context.Background()

	seed := `{
		"inventory": [{"id": "inv-1", "productName": "Parle-G", "stock": 3}],
		"customer_sales": [
			{"productname": "Parle-G", "timestamp": "2026-03-01T10:00:00Z", "quantity": 5},
			{"productname": "Parle-G", "timestamp": "2026-03-02T10:00:00Z", "quantity": 7}
		]
	}`

	n, err := Seed(ctx, s, strings.NewReader(seed))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	items, _, err := LoadInventory(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []types.InventoryItem{{ID: "inv-1", ProductName: "Parle-G", Stock: 3}}, items)

	sales, _, err := LoadSales(ctx, s)
	require.NoError(t, err)
	assert.Len(t, sales, 2)

	_, err = Seed(ctx, s, strings.NewReader(`[1,2]`))
	assert.Error(t, err)
}
