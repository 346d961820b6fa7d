package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"wesum/internal/domain"
	"wesum/internal/ports"
)

// SQLiteRepository records which article IDs earlier runs already pushed.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.SeenStore = (*SQLiteRepository)(nil)

const schema = `CREATE TABLE IF NOT EXISTS seen_articles (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    seen_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Open creates or reuses the database file and ensures the schema.
func Open(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close releases the underlying handle.
func (r *SQLiteRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// AlreadySeen returns a map keyed by the IDs present in storage.
func (r *SQLiteRepository) AlreadySeen(ctx context.Context, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf("SELECT id FROM seen_articles WHERE id IN (%s)", placeholders)

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

// MarkSeen upserts the batch so the next run skips it.
func (r *SQLiteRepository) MarkSeen(ctx context.Context, articles []domain.Article) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt := `INSERT INTO seen_articles (id, title) VALUES (?, ?)
             ON CONFLICT (id) DO UPDATE
             SET title = excluded.title, seen_at = CURRENT_TIMESTAMP`
	for _, a := range articles {
		if _, err := tx.ExecContext(ctx, stmt, a.ID, a.Title); err != nil {
			return fmt.Errorf("upsert %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
