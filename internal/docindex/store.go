// Package docindex records which wiki documents exist so rendered links to
// missing pages can be flagged.
package docindex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
)

const batchSize = 500

// Document identifies a wiki page.
type Document struct {
	Locale string
	Slug   string
	Title  string
}

// Store is a SQLite backed document index. Writes are batched into
// transactions of batchSize documents; reads flush pending writes first.
type Store struct {
	mu         sync.Mutex
	db         *sql.DB
	insertStmt *sql.Stmt
	tx         *sql.Tx
	txStmt     *sql.Stmt
	count      int
}

// Open opens or creates the index at path.
func Open(path string) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	stmt, err := db.Prepare(`INSERT OR REPLACE INTO documents (locale, slug, title) VALUES (?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}

	return &Store{
		db:         db,
		insertStmt: stmt,
	}, nil
}

// Put records doc. It becomes visible to readers once the batch is
// flushed.
func (s *Store) Put(ctx context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tx == nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		s.tx = tx
		s.txStmt = tx.Stmt(s.insertStmt)
	}

	_, err := s.txStmt.ExecContext(ctx, doc.Locale, doc.Slug, doc.Title)
	if err != nil {
		return fmt.Errorf("index document %s/%s: %w", doc.Locale, doc.Slug, err)
	}

	s.count++
	if s.count >= batchSize {
		if err := s.flush(); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the document, matching locale and slug case-insensitively.
func (s *Store) Delete(ctx context.Context, locale, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flush(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE lower(locale) = lower(?) AND lower(slug) = lower(?)`,
		locale, slug)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", locale, slug, err)
	}
	return nil
}

// ExistsByLocale reports which of slugs exist in locale. The result is
// keyed by lowercased slug and only holds the slugs that exist.
func (s *Store) ExistsByLocale(ctx context.Context, locale string, slugs []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flush(); err != nil {
		return nil, err
	}

	found := make(map[string]bool)
	for start := 0; start < len(slugs); start += batchSize {
		end := min(start+batchSize, len(slugs))
		if err := s.lookup(ctx, locale, slugs[start:end], found); err != nil {
			return nil, err
		}
	}
	return found, nil
}

func (s *Store) lookup(ctx context.Context, locale string, slugs []string, found map[string]bool) error {
	args := make([]any, 0, len(slugs)+1)
	args = append(args, locale)
	for _, slug := range slugs {
		args = append(args, strings.ToLower(slug))
	}
	query := `SELECT lower(slug) FROM documents
		 WHERE lower(locale) = lower(?)
		   AND lower(slug) IN (?` + strings.Repeat(", ?", len(slugs)-1) + `)`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("existence query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return fmt.Errorf("scan slug: %w", err)
		}
		found[slug] = true
	}
	return rows.Err()
}

// Flush commits pending writes.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush()
}

func (s *Store) flush() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	s.txStmt = nil
	s.count = 0
	if err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Close flushes pending writes and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flush(); err != nil {
		return err
	}
	_ = s.insertStmt.Close()
	return s.db.Close()
}
