package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anvena/launchpad/crypto"
)

// UpdatePasswordHandler replaces an existing password.
// Endpoint: POST /api/auth/update-password
// Authenticated: No (possession of the old password is the proof)
// Allowed Mimetype: application/json
func (a *App) UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		writeJsonError(w, resp)
		return
	}

	var req struct {
		Email       string `json:"email"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.OldPassword == "" || req.NewPassword == "" {
		writeJsonError(w, errorMissingFields)
		return
	}
	if len(req.NewPassword) < 8 {
		writeJsonError(w, errorPasswordComplexity)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("update password: user lookup failed", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}
	if user == nil {
		writeJsonError(w, errorUserNotFound)
		return
	}

	if user.Password == "" {
		writeJsonError(w, errorNoPasswordSet)
		return
	}
	if !crypto.CheckPassword(req.OldPassword, user.Password) {
		writeJsonError(w, errorInvalidCredentials)
		return
	}

	hash, err := crypto.GenerateHash(req.NewPassword)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}
	if err := a.DbAuth().UpdatePassword(user.ID, hash); err != nil {
		a.Logger().Error("update password: update failed", "error", err, "user", user.ID)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	writeJsonOk(w, okPasswordUpdated)
}
