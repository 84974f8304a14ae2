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

// RequestEmailBindHandler starts attaching an email address to an
// OAuth2-created account that has none yet.
// Endpoint: POST /api/auth/bind-email
// Authenticated: Yes (the session token identifies the account)
// Allowed Mimetype: application/json
//
// A confirmation code is mailed to the requested address; the bind only
// happens when the code comes back through the confirm endpoint, so nobody
// can attach an address they do not control.
func (a *App) RequestEmailBindHandler(w http.ResponseWriter, r *http.Request) {
	user, err, resp := a.Auth().Authenticate(r)
	if err != nil {
		writeJsonError(w, resp)
		return
	}

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

	// The address must not belong to another account already.
	existing, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("email bind: lookup failed", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if existing != nil && existing.ID != user.ID {
		writeJsonError(w, errorEmailConflict)
		return
	}

	code, err := a.issueCode(req.Email)
	if err != nil {
		a.Logger().Error("email bind: issue code failed", "error", err, "user", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	cfg := a.Config()
	payload, _ := json.Marshal(queue.PayloadEmailBind{
		UserID:         user.ID,
		Email:          req.Email,
		CooldownBucket: queue.CoolDownBucket(cfg.RateLimits.VerificationCooldown.Duration, time.Now()),
	})
	extra, _ := json.Marshal(queue.PayloadCodeExtra{Code: code})
	job := db.Job{
		JobType:      queue.JobTypeEmailBind,
		Payload:      payload,
		PayloadExtra: extra,
	}

	if err := a.DbQueue().InsertJob(job); err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			writeJsonError(w, errorMailAlreadyRequested)
			return
		}
		a.Logger().Error("email bind: insert job failed", "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	if cfg.Dev {
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{
				Status:  http.StatusAccepted,
				Code:    CodeOkEmailBindRequest,
				Message: "A confirmation code will be sent to the new email address",
			},
			Data: map[string]string{"verification_code": code},
		})
		return
	}

	writeJsonOk(w, okEmailBindRequest)
}
