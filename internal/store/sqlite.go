package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    key TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (collection, key)
);
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at);
`

// SQLite is a Store backed by a single documents table.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the database at dataSourceName and applies the schema.
func NewSQLite(dataSourceName string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLite{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// List returns every document in the collection in insertion order.
func (s *SQLite) List(ctx context.Context, collection string) ([]Document, error) {
	if collection == "" {
		return nil, fmt.Errorf("list: %w: empty collection", ErrInvalidInput)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, body FROM documents WHERE collection = ? ORDER BY created_at, rowid`,
		collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", collection, err)
		}
		docs = append(docs, Document{Key: key, Body: json.RawMessage(body)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
	}

	return docs, nil
}

// Get returns a single document or ErrNotFound.
func (s *SQLite) Get(ctx context.Context, collection, key string) (*Document, error) {
	if collection == "" || key == "" {
		return nil, fmt.Errorf("get: %w: empty collection or key", ErrInvalidInput)
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = ? AND key = ?`,
		collection, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, key, err)
	}

	return &Document{Key: key, Body: json.RawMessage(body)}, nil
}

// Put inserts or overwrites the document stored under key.
func (s *SQLite) Put(ctx context.Context, collection, key string, record any) error {
	if collection == "" || key == "" {
		return fmt.Errorf("put: %w: empty collection or key", ErrInvalidInput)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshaling %s/%s: %w", collection, key, err)
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, key, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, key) DO UPDATE
		SET body = excluded.body, updated_at = excluded.updated_at
	`, collection, key, string(body), now, now)
	if err != nil {
		return fmt.Errorf("failed to put %s/%s: %w", collection, key, err)
	}

	return nil
}

// Append stores the record under a freshly generated key and returns it.
func (s *SQLite) Append(ctx context.Context, collection string, record any) (string, error) {
	key := uuid.New().String()
	if err := s.insert(ctx, collection, key, record); err != nil {
		return "", err
	}
	return key, nil
}

func (s *SQLite) insert(ctx context.Context, collection, key string, record any) error {
	if collection == "" {
		return fmt.Errorf("append: %w: empty collection", ErrInvalidInput)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshaling %s record: %w", collection, err)
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, key, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		collection, key, string(body), now, now)
	if err != nil {
		return fmt.Errorf("failed to append to %s: %w", collection, err)
	}

	return nil
}
