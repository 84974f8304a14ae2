package zombiezen

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// NewPool creates a SQLite connection pool with reasonable defaults. The
// default open flags enable WAL mode, which is required for readers and the
// backup job to coexist with the single writer.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool(fmt.Sprintf("file:%s", dbPath), sqlitex.PoolOptions{
		PoolSize: runtime.NumCPU(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

// NewConn opens a standalone connection outside the pool. The backup job
// uses these so a long copy never starves pool users.
func NewConn(dbPath string) (*sqlite.Conn, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=off", dbPath)

	conn, err := sqlite.OpenConn(dsn, sqlite.OpenReadWrite|sqlite.OpenCreate|sqlite.OpenURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	return conn, nil
}
