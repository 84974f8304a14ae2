package queue

import (
	"time"
)

// Job types
const (
	JobTypeVerificationCode = "job_type_verification_code"
	JobTypePasswordReset    = "job_type_password_reset"
	JobTypeEmailBind        = "job_type_email_bind"
	JobTypeBackup           = "job_type_backup"
)

// Mail job payloads are split in two: the Payload part is the deduplication
// key enforced by the pending-job unique constraint, the PayloadCodeExtra
// part carries the issued code. The code changes on every request, so it
// must stay out of the dedupe key or the cooldown would never trigger.

// PayloadVerificationCode identifies a verification mail request.
type PayloadVerificationCode struct {
	Email string `json:"email"`
}

// PayloadPasswordReset identifies a password reset mail request.
// CooldownBucket folds the request time into a fixed window so at most one
// reset mail per address per window gets queued.
type PayloadPasswordReset struct {
	Email          string `json:"email"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// PayloadEmailBind identifies an email bind confirmation mail sent when an
// OAuth2 account attaches an address.
type PayloadEmailBind struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	CooldownBucket int    `json:"cooldown_bucket"`
}

// PayloadCodeExtra is the PayloadExtra part of all mail jobs: the issued
// code, kept out of the dedupe key.
type PayloadCodeExtra struct {
	Code string `json:"code"`
}

// PayloadBackup configures one database backup run.
type PayloadBackup struct {
	// Strategy is "vacuum" or "online". Empty lets the handler decide by
	// database size.
	Strategy string `json:"strategy,omitempty"`
}

// CoolDownBucket returns the number of complete duration periods since the
// Unix epoch for t. All requests inside the same window map to the same
// bucket, which combined with the pending-job unique constraint yields one
// job per window. Panics if duration is not positive.
func CoolDownBucket(duration time.Duration, t time.Time) int {
	if duration <= 0 {
		panic("duration must be positive")
	}
	return int(t.Unix() / int64(duration.Seconds()))
}
