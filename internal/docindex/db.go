package docindex

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// schema is idempotent; the index outlives renders and is updated in place
// as documents are created, moved and deleted.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	locale TEXT NOT NULL,
	slug TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (locale, slug)
);

CREATE INDEX IF NOT EXISTS documents_lookup
	ON documents (lower(locale), lower(slug));
`

func openDB(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open document index: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return db, nil
}
