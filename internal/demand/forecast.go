/*
Package demand computes next-day demand forecasts from sales history and
flags inventory items at risk of running out.
*/
package demand

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/store"
	"github.com/shanehull/vyapar/internal/types"
)

// Forecast returns one weighted moving average per product over the
// lookbackDays calendar days ending at the latest sale date in the data.
// Later days weigh more: the i-th day of n gets weight i.
func Forecast(sales []types.SalesRecord, lookbackDays int) map[string]float64 {
	daily := make(map[string]map[time.Time]float64)
	var anchor time.Time

	for _, s := range sales {
		if s.ProductName == "" {
			continue
		}
		day := truncateDay(s.Timestamp)
		if daily[s.ProductName] == nil {
			daily[s.ProductName] = make(map[time.Time]float64)
		}
		daily[s.ProductName][day] += s.Quantity
		if day.After(anchor) {
			anchor = day
		}
	}

	start := anchor.AddDate(0, 0, -(lookbackDays - 1))
	out := make(map[string]float64)

	for product, days := range daily {
		var window []time.Time
		for day := range days {
			if !day.Before(start) {
				window = append(window, day)
			}
		}
		if len(window) == 0 {
			continue
		}
		sort.Slice(window, func(i, j int) bool { return window[i].Before(window[j]) })

		var num, den float64
		for i, day := range window {
			w := float64(i + 1)
			num += days[day] * w
			den += w
		}
		out[product] = round2(num / den)
	}
	return out
}

// Forecaster writes forecasts to the demand_forecast collection.
type Forecaster struct {
	store        store.Store
	lookbackDays int
	now          func() time.Time
	log          logrus.FieldLogger
}

func NewForecaster(s store.Store, lookbackDays int, now func() time.Time, log logrus.FieldLogger) *Forecaster {
	return &Forecaster{store: s, lookbackDays: lookbackDays, now: now, log: log}
}

// Run reads all sales, forecasts and upserts one record per product. It
// returns the written records; an empty sales collection writes nothing.
func (f *Forecaster) Run(ctx context.Context) ([]types.ForecastRecord, error) {
	sales, skipped, err := store.LoadSales(ctx, f.store)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	if skipped > 0 {
		f.log.WithField("skipped", skipped).Warn("Ignored malformed sales records")
	}
	if len(sales) == 0 {
		f.log.Info("No sales data found, skipping forecast")
		return nil, nil
	}

	forecasts := Forecast(sales, f.lookbackDays)

	products := make([]string, 0, len(forecasts))
	for p := range forecasts {
		products = append(products, p)
	}
	sort.Strings(products)

	updatedAt := f.now().UTC()
	records := make([]types.ForecastRecord, 0, len(products))
	for _, p := range products {
		rec := types.ForecastRecord{ProductName: p, PredictedDemand: forecasts[p], UpdatedAt: updatedAt}
		if err := f.store.Put(ctx, store.CollectionForecasts, p, rec); err != nil {
			return records, fmt.Errorf("save forecast for %s: %w", p, err)
		}
		records = append(records, rec)
	}

	f.log.WithField("products", len(records)).Info("Next-day demand forecast saved")
	return records, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
