package demand

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/vyapar/internal/store"
	"github.com/shanehull/vyapar/internal/types"
)

func day(d, hour int) time.Time {
	return time.Date(2026, time.March, d, hour, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) *store.SQLite {
	t.Helper()
	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestForecast_WeightedAverage(t *testing.T) {
	sales := []types.SalesRecord{
		{ProductName: "Maggi", Timestamp: day(10, 9), Quantity: 4},
		{ProductName: "Maggi", Timestamp: day(10, 18), Quantity: 6},
		{ProductName: "Maggi", Timestamp: day(11, 12), Quantity: 20},
		{ProductName: "Maggi", Timestamp: day(12, 12), Quantity: 30},
	}

	got := Forecast(sales, 7)
	assert.Equal(t, map[string]float64{"Maggi": 23.33}, got)
}

func TestForecast_AnchoredToLatestData(t *testing.T) {
	sales := []types.SalesRecord{
		// Outside the window ending on the 20th.
		{ProductName: "Old Stock", Timestamp: day(13, 10), Quantity: 100},
		{ProductName: "Parle-G", Timestamp: day(13, 10), Quantity: 100},
		{ProductName: "Parle-G", Timestamp: day(14, 10), Quantity: 8},
		{ProductName: "Parle-G", Timestamp: day(20, 10), Quantity: 2},
	}

	got := Forecast(sales, 7)

	_, ok := got["Old Stock"]
	assert.False(t, ok, "product outside the window must not get a forecast")
	// 8*1 + 2*2 over 3
	assert.Equal(t, 4.0, got["Parle-G"])
}

func TestForecast_UTCDayGrouping(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	sales := []types.SalesRecord{
		// 02:00 IST on the 11th is still the 10th in UTC.
		{ProductName: "Dal", Timestamp: time.Date(2026, 3, 11, 2, 0, 0, 0, ist), Quantity: 5},
		{ProductName: "Dal", Timestamp: day(10, 12), Quantity: 5},
		{ProductName: "Dal", Timestamp: day(11, 12), Quantity: 10},
	}

	// Days: 10 -> 10, 11 -> 10.
	assert.Equal(t, 10.0, Forecast(sales, 7)["Dal"])
}

func TestForecast_Empty(t *testing.T) {
	assert.Empty(t, Forecast(nil, 7))
	assert.Empty(t, Forecast([]types.SalesRecord{{ProductName: "", Timestamp: day(1, 1), Quantity: 3}}, 7))
}

func TestForecaster_Run(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 21, 6, 0, 0, 0, time.UTC)
	log, _ := test.NewNullLogger()

	for i, q := range []float64{10, 20, 30} {
		_, err := s.Append(ctx, store.CollectionSales, types.SalesRecord{ProductName: "Tata Salt", Timestamp: day(18+i, 10), Quantity: q})
		require.NoError(t, err)
	}

	f := NewForecaster(s, 7, func() time.Time { return now }, log)
	records, err := f.Run(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)

	doc, err := s.Get(ctx, store.CollectionForecasts, "Tata Salt")
	require.NoError(t, err)
	var rec types.ForecastRecord
	require.NoError(t, doc.Decode(&rec))
	assert.Equal(t, 23.33, rec.PredictedDemand)
	assert.True(t, now.Equal(rec.UpdatedAt))

	// A second run overwrites rather than duplicates.
	_, err = f.Run(ctx)
	require.NoError(t, err)
	docs, err := s.List(ctx, store.CollectionForecasts)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestForecaster_RunEmptyIsNoop(t *testing.T) {
	s := newTestStore(t)
	log, hook := test.NewNullLogger()

	records, err := NewForecaster(s, 7, time.Now, log).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, "No sales data found, skipping forecast", hook.LastEntry().Message)

	docs, err := s.List(context.Background(), store.CollectionForecasts)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestIsSpike(t *testing.T) {
	assert.True(t, IsSpike(types.InventoryItem{Stock: 4}, 5))
	assert.False(t, IsSpike(types.InventoryItem{Stock: 5}, 5))
	assert.True(t, IsSpike(types.InventoryItem{Stock: 0}, 5))
}

func TestSpikeDetector_Detect(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	log, _ := test.NewNullLogger()

	require.NoError(t, s.Put(ctx, store.CollectionInventory, "a1", map[string]any{"productName": "Amul Butter", "stock": 4}))
	require.NoError(t, s.Put(ctx, store.CollectionInventory, "a2", map[string]any{"productName": "Surf Excel", "stock": 5}))
	require.NoError(t, s.Put(ctx, store.CollectionInventory, "a3", map[string]any{"stock": 1}))

	flagged, err := NewSpikeDetector(s, 5, log).Detect(ctx)
	require.NoError(t, err)
	require.Len(t, flagged, 2)
	assert.Equal(t, "Low stock risk for Amul Butter", SpikeMessage(flagged[0]))
	assert.Equal(t, "Low stock risk for a3", SpikeMessage(flagged[1]))
}

func TestSpikeDetector_EmptyInventory(t *testing.T) {
	log, _ := test.NewNullLogger()
	flagged, err := NewSpikeDetector(newTestStore(t), 5, log).Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, flagged)
}
