package store

import (
	"context"

	"github.com/shanehull/vyapar/internal/types"
)

// LoadSales decodes the sales collection. Documents that fail to decode are
// skipped and counted.
func LoadSales(ctx context.Context, s Store) ([]types.SalesRecord, int, error) {
	docs, err := s.List(ctx, CollectionSales)
	if err != nil {
		return nil, 0, err
	}

	sales := make([]types.SalesRecord, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		var rec types.SalesRecord
		if err := doc.Decode(&rec); err != nil {
			skipped++
			continue
		}
		sales = append(sales, rec)
	}
	return sales, skipped, nil
}

// LoadInventory decodes the inventory collection, using the document key as
// the item id.
func LoadInventory(ctx context.Context, s Store) ([]types.InventoryItem, int, error) {
	docs, err := s.List(ctx, CollectionInventory)
	if err != nil {
		return nil, 0, err
	}

	items := make([]types.InventoryItem, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		var item types.InventoryItem
		if err := doc.Decode(&item); err != nil {
			skipped++
			continue
		}
		item.ID = doc.Key
		items = append(items, item)
	}
	return items, skipped, nil
}

// LoadDecisions decodes the decisions collection in insertion order.
func LoadDecisions(ctx context.Context, s Store) ([]types.DecisionRecord, error) {
	docs, err := s.List(ctx, CollectionDecisions)
	if err != nil {
		return nil, err
	}

	decisions := make([]types.DecisionRecord, 0, len(docs))
	for _, doc := range docs {
		var rec types.DecisionRecord
		if err := doc.Decode(&rec); err != nil {
			return nil, err
		}
		rec.ID = doc.Key
		decisions = append(decisions, rec)
	}
	return decisions, nil
}
