package zombiezen

import (
	"fmt"
	"strings"

	"github.com/anvena/launchpad/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

type Db struct {
	pool *sqlitex.Pool
}

// Verify interface implementations
var _ db.DbAuth = (*Db)(nil)
var _ db.DbCode = (*Db)(nil)
var _ db.DbQueue = (*Db)(nil)

// New creates a new Db instance using an existing pool provided by the user.
// Note: The lifecycle of the provided pool (*sqlitex.Pool) is managed
// externally. This Db type does not close the pool.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}

// mapConstraintError translates sqlite constraint violations to the sentinel
// error handlers branch on.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}
	if code := sqlite.ErrCode(err); code == sqlite.ResultConstraintUnique ||
		code == sqlite.ResultConstraint {
		return db.ErrConstraintUnique
	}
	// Some wrapped errors lose the result code
	if strings.Contains(err.Error(), "UNIQUE constraint") {
		return db.ErrConstraintUnique
	}
	return err
}
