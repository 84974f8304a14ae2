package db

import (
	"encoding/json"
	"time"
)

// User represents a user from the database.
// Timestamps (Created, Updated, LastLogin) use RFC3339 format in UTC timezone.
// Example: "2024-03-07T15:04:05Z"
type User struct {
	ID    string
	Email string
	Name  string
	// Non empty password means password authentication is active.
	// Password stays empty for accounts created via OAuth2 until the user
	// sets one.
	Password string
	Avatar   string
	// GithubID is the provider's numeric id, 0 when the account was never
	// linked to GitHub. Unique per provider.
	GithubID  int64
	Verified  bool
	Created   time.Time
	Updated   time.Time
	LastLogin time.Time
}

// VerificationCode is one entry of the append-only code ledger. Entries are
// never deleted; Used flips false to true exactly once and expired entries
// stay inert in place.
type VerificationCode struct {
	ID      int64
	Email   string
	Code    string
	Created time.Time
	Expires time.Time
	Used    bool
}

// Job represents a job in the processing queue
type Job struct {
	ID      int64  `json:"id"`
	JobType string `json:"job_type"`
	// Payload is the deduplication key for pending jobs; anything volatile
	// (issued codes) goes into PayloadExtra instead.
	Payload      json.RawMessage `json:"payload"`
	PayloadExtra json.RawMessage `json:"payload_extra,omitempty"`
	Status       string          `json:"status"`
	Attempts     int             `json:"attempts"`
	MaxAttempts  int             `json:"max_attempts"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	ScheduledFor time.Time       `json:"scheduled_for"`
	LockedAt     time.Time       `json:"locked_at,omitempty"`
	CompletedAt  time.Time       `json:"completed_at,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	Recurrent    bool            `json:"recurrent"`
	Interval     time.Duration   `json:"interval"` // Go duration
}

// Job status values as stored in the status column.
const (
	JobStatusPending   = "pending"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)
