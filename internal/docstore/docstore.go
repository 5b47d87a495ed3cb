// Package docstore persists crawled documents in PostgreSQL. It is the
// corpus staging area: the loader fills it from TSV dumps and the indexer
// streams documents out of it in insertion order, which fixes their doc ids.
package docstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/irsearch/platform/pkg/config"
)

// Document is one stored corpus document.
type Document struct {
	URL   string
	Title string
	Body  string
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id         BIGSERIAL PRIMARY KEY,
    url        TEXT NOT NULL UNIQUE,
    title      TEXT NOT NULL,
    body       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store reads and writes the documents table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to PostgreSQL with the configured pool limits and verifies
// the connection.
func Open(cfg config.PostgresConfig) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{
		db:     db,
		logger: slog.Default().With("component", "docstore"),
	}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the documents table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// SaveBatch upserts a batch of documents in one transaction. Re-loading the
// same corpus overwrites title and body by url.
func (s *Store) SaveBatch(ctx context.Context, docs []Document) (err error) {
	if len(docs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (url, title, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (url) DO UPDATE SET title = EXCLUDED.title, body = EXCLUDED.body`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err = stmt.ExecContext(ctx, d.URL, d.Title, d.Body); err != nil {
			return fmt.Errorf("inserting document %s: %w", d.URL, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Count reports the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Stream calls fn for each document in insertion order. A limit of 0 streams
// the whole table.
func (s *Store) Stream(ctx context.Context, limit int, fn func(doc Document) error) error {
	query := `SELECT url, title, body FROM documents ORDER BY id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.URL, &d.Title, &d.Body); err != nil {
			return fmt.Errorf("scanning document row: %w", err)
		}
		if err := fn(d); err != nil {
			return err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating documents: %w", err)
	}
	s.logger.Info("document stream finished", "count", count)
	return nil
}
