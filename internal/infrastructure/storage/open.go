package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

// Open connects the selected backend, runs the schema migration, and
// returns a ready store. Supported drivers: "postgres", "sqlite".
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "postgres":
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		store := NewPostgres(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case "sqlite":
		if !strings.Contains(dsn, "?") {
			dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		store := NewSQLite(db)
		if err := store.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
