package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/anvena/launchpad/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newCodeFromStmt(stmt *sqlite.Stmt) (*db.VerificationCode, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	expires, err := db.TimeParse(stmt.GetText("expires"))
	if err != nil {
		return nil, fmt.Errorf("error parsing expires time: %w", err)
	}

	return &db.VerificationCode{
		ID:      stmt.GetInt64("id"),
		Email:   stmt.GetText("email"),
		Code:    stmt.GetText("code"),
		Created: created,
		Expires: expires,
		Used:    stmt.GetInt64("used") != 0,
	}, nil
}

// InsertCode appends a new entry to the code ledger. Prior unused entries for
// the same email remain valid until they individually expire or get used.
func (d *Db) InsertCode(code db.VerificationCode) error {
	if code.Email == "" || code.Code == "" || code.Expires.IsZero() {
		return fmt.Errorf("%w: email, code, expires", db.ErrMissingFields)
	}

	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("code insert failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO verification_codes (email, code, expires) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []interface{}{
				code.Email,
				code.Code,
				db.TimeFormat(code.Expires),
			},
		})
	if err != nil {
		return fmt.Errorf("failed to insert verification code: %w", err)
	}
	return nil
}

// ConsumeCode finds the newest unused entry matching email and code and marks
// it used. The mark is a compare-and-swap (WHERE used = 0), so two requests
// racing for the same entry resolve in the database: exactly one wins, the
// other gets db.ErrCodeAlreadyUsed. Expired entries are left untouched;
// they become unusable by elapsed time alone.
func (d *Db) ConsumeCode(email, code string, now time.Time) (*db.VerificationCode, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("code consume failed to get connection: %w", err)
	}
	defer d.pool.Put(conn)

	var entry *db.VerificationCode
	err = sqlitex.Execute(conn,
		`SELECT id, email, code, created, expires, used
		FROM verification_codes
		WHERE email = ? AND code = ? AND used = 0
		ORDER BY created DESC, id DESC LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				entry, err = newCodeFromStmt(stmt)
				return err
			},
			Args: []interface{}{email, code},
		})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, db.ErrCodeNotFound
	}

	if now.After(entry.Expires) {
		return nil, db.ErrCodeExpired
	}

	err = sqlitex.Execute(conn,
		`UPDATE verification_codes SET used = 1 WHERE id = ? AND used = 0`,
		&sqlitex.ExecOptions{
			Args: []interface{}{entry.ID},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to mark code used: %w", err)
	}
	if conn.Changes() == 0 {
		return nil, db.ErrCodeAlreadyUsed
	}

	entry.Used = true
	return entry, nil
}
