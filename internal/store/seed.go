package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Seed loads a JSON object of collection name to record list into s.
// Records carrying a string "id" are upserted under that key; all others
// are appended. It returns the number of records written.
func Seed(ctx context.Context, s Store, r io.Reader) (int, error) {
	var collections map[string][]map[string]any
	if err := json.NewDecoder(r).Decode(&collections); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	names := make([]string, 0, len(collections))
	for name := range collections {
		names = append(names, name)
	}
	sort.Strings(names)

	written := 0
	for _, name := range names {
		for _, rec := range collections[name] {
			if id, ok := rec["id"].(string); ok && id != "" {
				delete(rec, "id")
				if err := s.Put(ctx, name, id, rec); err != nil {
					return written, err
				}
			} else if _, err := s.Append(ctx, name, rec); err != nil {
				return written, err
			}
			written++
		}
	}
	return written, nil
}
