package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/queue"
)

// RegisterHandler creates a new unverified account and queues the
// verification mail.
// Endpoint: POST /api/auth/register
// Authenticated: No
// Allowed Mimetype: application/json
//
// The account starts without a password; the user sets one when confirming
// the verification code. In dev mode the issued code is echoed in the
// response data so the flow can be exercised without a mail server.
func (a *App) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	newUser := db.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Name:     req.Name,
		Verified: false,
	}

	if _, err := a.DbAuth().CreateUser(newUser); err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			writeJsonError(w, errorEmailConflict)
			return
		}
		a.Logger().Error("register: create user failed", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	code, err := a.issueCode(req.Email)
	if err != nil {
		a.Logger().Error("register: issue code failed", "error", err, "email", req.Email)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	payload, _ := json.Marshal(queue.PayloadVerificationCode{Email: req.Email})
	extra, _ := json.Marshal(queue.PayloadCodeExtra{Code: code})
	job := db.Job{
		JobType:      queue.JobTypeVerificationCode,
		Payload:      payload,
		PayloadExtra: extra,
	}
	if err := a.DbQueue().InsertJob(job); err != nil {
		a.Logger().Error("register: insert verification job failed", "error", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	if cfg := a.Config(); cfg.Dev {
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{
				Status:  http.StatusCreated,
				Code:    CodeOkRegistration,
				Message: "Account created. Check your mailbox for the verification code",
			},
			Data: map[string]string{"verification_code": code},
		})
		return
	}

	writeJsonOk(w, okRegistration)
}
