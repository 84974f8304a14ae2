package core

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/anvena/launchpad/crypto"
)

// VerifyCodeHandler confirms an email address with a one time code.
// Endpoint: POST /api/auth/verify
// Authenticated: No
// Allowed Mimetype: application/json
//
// On success the account becomes verified and a session token is issued.
// An optional new_password sets the initial password in the same call, so a
// fresh registration needs exactly two requests to reach a usable account.
func (a *App) VerifyCodeHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"new_password"`
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

	if req.NewPassword != "" && len(req.NewPassword) < 8 {
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	// Look the user up before touching the ledger. Consuming first would
	// burn a one time code on a request that cannot succeed.
	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("verify: user lookup failed", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorUserNotFound)
		return
	}

	if _, err := a.DbCode().ConsumeCode(req.Email, req.Code, time.Now()); err != nil {
		writeJsonError(w, responseForCodeError(err))
		return
	}

	if !user.Verified {
		if err := a.DbAuth().VerifyEmail(user.ID); err != nil {
			a.Logger().Error("verify: marking verified failed", "error", err, "user", user.ID)
			writeJsonError(w, errorAuthDatabaseError)
			return
		}
		user.Verified = true
	}

	if req.NewPassword != "" {
		hash, err := crypto.GenerateHash(req.NewPassword)
		if err != nil {
			writeJsonError(w, errorTokenGeneration)
			return
		}
		if err := a.DbAuth().UpdatePassword(user.ID, hash); err != nil {
			a.Logger().Error("verify: password update failed", "error", err, "user", user.ID)
			writeJsonError(w, errorAuthDatabaseError)
			return
		}
	}

	if err := a.DbAuth().UpdateLastLogin(user.ID); err != nil {
		a.Logger().Error("verify: last login update failed", "error", err, "user", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	cfg := a.Config()
	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Name, []byte(cfg.Jwt.AuthSecret), cfg.Jwt.SessionTokenDuration.Duration)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, token, int(cfg.Jwt.SessionTokenDuration.Duration.Seconds()), user)
}
