package demand

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/store"
	"github.com/shanehull/vyapar/internal/types"
)

// IsSpike reports a low-stock risk: stock strictly below threshold.
func IsSpike(item types.InventoryItem, threshold int) bool {
	return item.Stock < threshold
}

// SpikeDetector scans the inventory collection for low-stock items.
type SpikeDetector struct {
	store     store.Store
	threshold int
	log       logrus.FieldLogger
}

func NewSpikeDetector(s store.Store, threshold int, log logrus.FieldLogger) *SpikeDetector {
	return &SpikeDetector{store: s, threshold: threshold, log: log}
}

// Detect returns every flagged item in inventory order.
func (d *SpikeDetector) Detect(ctx context.Context) ([]types.InventoryItem, error) {
	items, skipped, err := store.LoadInventory(ctx, d.store)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}
	if skipped > 0 {
		d.log.WithField("skipped", skipped).Warn("Ignored malformed inventory records")
	}
	if len(items) == 0 {
		d.log.Info("No inventory found to check for spikes")
		return nil, nil
	}

	var flagged []types.InventoryItem
	for _, it := range items {
		if IsSpike(it, d.threshold) {
			flagged = append(flagged, it)
		}
	}
	return flagged, nil
}

// SpikeMessage is the decision message logged for a flagged item.
func SpikeMessage(item types.InventoryItem) string {
	return "Low stock risk for " + item.DisplayName()
}
