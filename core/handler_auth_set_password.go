package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anvena/launchpad/crypto"
)

// SetPasswordHandler sets the initial password on a verified account.
// Endpoint: POST /api/auth/set-password
// Authenticated: No
// Allowed Mimetype: application/json
//
// Valid exactly once per account: fails if a password already exists or the
// email is still unverified. Later changes go through update-password,
// which proves possession of the old password.
func (a *App) SetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if len(req.Password) < 8 {
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("set password: user lookup failed", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorUserNotFound)
		return
	}

	if !user.Verified {
		writeJsonError(w, errorNotVerified)
		return
	}
	if user.Password != "" {
		writeJsonError(w, errorPasswordAlreadySet)
		return
	}

	hash, err := crypto.GenerateHash(req.Password)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}
	if err := a.DbAuth().UpdatePassword(user.ID, hash); err != nil {
		a.Logger().Error("set password: update failed", "error", err, "user", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJsonOk(w, okPasswordSet)
}
