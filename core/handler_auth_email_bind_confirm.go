package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anvena/launchpad/crypto"
	"github.com/anvena/launchpad/db"
)

// ConfirmEmailBindHandler completes attaching an email address to an
// OAuth2-created account.
// Endpoint: POST /api/auth/confirm-bind-email
// Authenticated: Yes
// Allowed Mimetype: application/json
//
// Consuming the code proves control of the address; the account then gets
// the email and becomes verified. A fresh token is issued because the email
// claim changed.
func (a *App) ConfirmEmailBindHandler(w http.ResponseWriter, r *http.Request) {
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
		Code  string `json:"code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Code = strings.TrimSpace(req.Code)
	if req.Email == "" || req.Code == "" {
		writeJsonError(w, errorMissingFields)
		return
	}

	if _, err := a.DbCode().ConsumeCode(req.Email, req.Code, time.Now()); err != nil {
		writeJsonError(w, responseForCodeError(err))
		return
	}

	if err := a.DbAuth().UpdateEmail(user.ID, req.Email); err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			writeJsonError(w, errorEmailConflict)
			return
		}
		a.Logger().Error("email bind: update email failed", "error", err, "user", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	user.Email = req.Email
	user.Verified = true

	cfg := a.Config()
	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Name, []byte(cfg.Jwt.AuthSecret), cfg.Jwt.SessionTokenDuration.Duration)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, token, int(cfg.Jwt.SessionTokenDuration.Duration.Seconds()), user)
}
