package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens the sqlite file that holds saved header state.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, fmt.Errorf("open state db %s: %w", path, err)
	}
	// one writer at a time; saves come from the UI goroutine and on quit
	db.SetMaxOpenConns(1)
	return db, nil
}

// Now is the updated_at stamp for scroll_state rows: UTC, whole seconds,
// the same resolution as CURRENT_TIMESTAMP.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
