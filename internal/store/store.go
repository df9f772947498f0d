/*
Package store provides the document store the pipeline reads sales and
inventory from and writes forecasts and decisions to.
*/
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collections used by the pipeline.
const (
	CollectionSales     = "customer_sales"
	CollectionInventory = "inventory"
	CollectionForecasts = "demand_forecast"
	CollectionDecisions = "decisions"
)

var (
	// ErrNotFound is returned when a requested document doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a collection or key is empty
	ErrInvalidInput = errors.New("invalid input")
)

// Document is a stored record together with its key.
type Document struct {
	Key  string
	Body json.RawMessage
}

// Store is the minimal document store contract.
type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Get(ctx context.Context, collection, key string) (*Document, error)
	Put(ctx context.Context, collection, key string, record any) error
	Append(ctx context.Context, collection string, record any) (string, error)
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Body, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.Key, err)
	}
	return nil
}
