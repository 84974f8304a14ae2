package zombiezen

import (
	"context"
	"fmt"

	"github.com/anvena/launchpad/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const userColumns = `id, email, name, password, avatar, github_id, verified, created, updated, last_login`

// newUserFromStmt creates a User struct from a SQLite statement
func newUserFromStmt(stmt *sqlite.Stmt) (*db.User, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	lastLogin, err := db.TimeParse(stmt.GetText("last_login"))
	if err != nil {
		return nil, fmt.Errorf("error parsing last_login time: %w", err)
	}

	return &db.User{
		ID:        stmt.GetText("id"),
		Email:     stmt.GetText("email"),
		Name:      stmt.GetText("name"),
		Password:  stmt.GetText("password"),
		Avatar:    stmt.GetText("avatar"),
		GithubID:  stmt.GetInt64("github_id"),
		Verified:  stmt.GetInt64("verified") != 0,
		Created:   created,
		Updated:   updated,
		LastLogin: lastLogin,
	}, nil
}

// getUserWhere runs a single-row user query. A nil user with nil error means
// no matching record was found; returned time fields are in UTC, RFC3339.
func (d *Db) getUserWhere(where string, arg interface{}) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var user *db.User // Will remain nil if no rows found
	err = sqlitex.Execute(conn,
		`SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				user, err = newUserFromStmt(stmt)
				return err
			},
			Args: []interface{}{arg},
		})

	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address.
func (d *Db) GetUserByEmail(email string) (*db.User, error) {
	return d.getUserWhere("email = ?", email)
}

// GetUserById retrieves a user by its opaque id.
func (d *Db) GetUserById(id string) (*db.User, error) {
	return d.getUserWhere("id = ?", id)
}

// GetUserByGithubID retrieves a user by the provider's numeric id.
func (d *Db) GetUserByGithubID(githubID int64) (*db.User, error) {
	return d.getUserWhere("github_id = ?", githubID)
}

// CreateUser inserts a new user record. The UNIQUE index on email makes
// concurrent registrations for the same address resolve in the database:
// the loser gets db.ErrConstraintUnique instead of silently overwriting.
func (d *Db) CreateUser(user db.User) (*db.User, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var createdUser db.User
	err = sqlitex.Execute(conn,
		`INSERT INTO users (id, email, name, password, avatar, github_id, verified, last_login)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tempUser, err := newUserFromStmt(stmt)
				if err == nil && tempUser != nil {
					createdUser = *tempUser
				}
				return err
			},
			Args: []interface{}{
				user.ID,
				user.Email,
				user.Name,
				user.Password,
				user.Avatar,
				user.GithubID,
				user.Verified,
				db.TimeFormat(user.LastLogin),
			},
		})
	if err != nil {
		return nil, mapConstraintError(err)
	}

	return &createdUser, nil
}

// updateUser runs an UPDATE statement against a single user row, bumping the
// updated timestamp.
func (d *Db) updateUser(set string, args ...interface{}) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE users SET `+set+`,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{Args: args})
	if err != nil {
		return mapConstraintError(err)
	}
	return nil
}

func (d *Db) VerifyEmail(userID string) error {
	if err := d.updateUser("verified = 1", userID); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return nil
}

func (d *Db) UpdatePassword(userID string, newPassword string) error {
	if err := d.updateUser("password = ?", newPassword, userID); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (d *Db) UpdateEmail(userID string, newEmail string) error {
	if err := d.updateUser("email = ?, verified = 1", newEmail, userID); err != nil {
		return fmt.Errorf("failed to update email: %w", err)
	}
	return nil
}

func (d *Db) UpdateLastLogin(userID string) error {
	set := "last_login = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))"
	if err := d.updateUser(set, userID); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (d *Db) UpdateOauth2Profile(userID, name, avatar string) error {
	set := "name = ?, avatar = ?, last_login = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))"
	if err := d.updateUser(set, name, avatar, userID); err != nil {
		return fmt.Errorf("failed to update oauth2 profile: %w", err)
	}
	return nil
}
