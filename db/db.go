package db

import (
	"errors"
	"time"
)

var (
	// ErrConstraintUnique is returned when an insert violates a UNIQUE
	// constraint, e.g. registering an email that already exists.
	ErrConstraintUnique = errors.New("unique constraint violation")

	// ErrMissingFields is returned when a record lacks required fields.
	ErrMissingFields = errors.New("missing required fields")

	// ErrCodeNotFound is returned when no unused verification code matches.
	ErrCodeNotFound = errors.New("verification code not found")

	// ErrCodeExpired is returned when the matching code exists but its
	// expiry has passed. The row is left untouched (soft expiry).
	ErrCodeExpired = errors.New("verification code expired")

	// ErrCodeAlreadyUsed is returned when the compare-and-swap consuming a
	// code found it already marked used.
	ErrCodeAlreadyUsed = errors.New("verification code already used")
)

// DbAuth is the narrow interface the account handlers need.
// Lookup methods return (nil, nil) when no record matches; an error means a
// database failure, never "not found".
type DbAuth interface {
	GetUserByEmail(email string) (*User, error)
	GetUserById(id string) (*User, error)
	GetUserByGithubID(githubID int64) (*User, error)

	// CreateUser inserts a new record. Returns ErrConstraintUnique when the
	// email is already taken.
	CreateUser(user User) (*User, error)

	VerifyEmail(userID string) error
	UpdatePassword(userID string, newPassword string) error
	UpdateEmail(userID string, newEmail string) error
	UpdateLastLogin(userID string) error

	// UpdateOauth2Profile refreshes name/avatar/last_login from a provider
	// profile on a returning OAuth2 login.
	UpdateOauth2Profile(userID, name, avatar string) error
}

// DbCode is the interface over the append-only verification code ledger.
type DbCode interface {
	InsertCode(code VerificationCode) error

	// ConsumeCode finds the newest unused entry matching email and code and
	// marks it used. Fails with ErrCodeNotFound, ErrCodeExpired or
	// ErrCodeAlreadyUsed. Expired entries stay unused and undeleted.
	ConsumeCode(email, code string, now time.Time) (*VerificationCode, error)
}

// DbQueue is the interface for the background job queue.
type DbQueue interface {
	InsertJob(job Job) error
	Claim(limit int) ([]*Job, error)
	MarkCompleted(jobID int64) error
	MarkFailed(jobID int64, errMsg string) error
	MarkRecurrentCompleted(completedJobID int64, newJob Job) error
}

// DbApp combines the required DB roles for the application. The concrete
// implementation (e.g. *zombiezen.Db) must satisfy all of them.
type DbApp interface {
	DbAuth
	DbCode
	DbQueue
}

// TimeFormat renders a time as RFC3339 in UTC, the canonical text form for
// all timestamp columns.
func TimeFormat(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// TimeParse parses the RFC3339 text form used in timestamp columns.
// An empty string parses to the zero time.
func TimeParse(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
