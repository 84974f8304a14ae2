package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/queue"
)

// RequestPasswordResetHandler issues a password reset code and queues the
// reset mail.
// Endpoint: POST /api/auth/reset-password
// Authenticated: No
// Allowed Mimetype: application/json
//
// Sending mail is an expensive operation and a spam vector, so requests are
// rate limited through cooldown buckets: the pending-job unique constraint
// rejects a second mail for the same address within the cooldown window.
// An unknown email gets a 404 and no ledger entry.
func (a *App) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("password reset: user lookup failed", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorUserNotFound)
		return
	}

	code, err := a.issueCode(req.Email)
	if err != nil {
		a.Logger().Error("password reset: issue code failed", "error", err, "email", req.Email)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	cfg := a.Config()
	payload, _ := json.Marshal(queue.PayloadPasswordReset{
		Email:          req.Email,
		CooldownBucket: queue.CoolDownBucket(cfg.RateLimits.PasswordResetCooldown.Duration, time.Now()),
	})
	extra, _ := json.Marshal(queue.PayloadCodeExtra{Code: code})
	job := db.Job{
		JobType:      queue.JobTypePasswordReset,
		Payload:      payload,
		PayloadExtra: extra,
	}

	if err := a.DbQueue().InsertJob(job); err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			writeJsonError(w, errorMailAlreadyRequested)
			return
		}
		a.Logger().Error("password reset: insert job failed", "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	writeJsonOk(w, okPasswordResetRequest)
}
