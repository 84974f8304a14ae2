package core

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anvena/launchpad/crypto"
)

// AuthWithPasswordHandler handles password-based login.
// Endpoint: POST /api/auth/login
// Authenticated: No
// Allowed Mimetype: application/json
//
// Unknown email, an account without a password and a hash mismatch all
// produce the same invalid credentials response so the endpoint cannot be
// used to enumerate accounts. Failed logins never touch last_login.
func (a *App) AuthWithPasswordHandler(w http.ResponseWriter, r *http.Request) {
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
	if err := ValidateEmail(req.Email); err != nil {
		writeJsonError(w, errorInvalidRequest)
		return
	}

	user, err := a.DbAuth().GetUserByEmail(req.Email)
	if err != nil {
		a.Logger().Error("login: user lookup failed", "error", err)
		writeJsonError(w, errorAuthDatabaseError)
		return
	}

	if user == nil || user.Password == "" || !crypto.CheckPassword(req.Password, user.Password) {
		writeJsonError(w, errorInvalidCredentials)
		return
	}

	if err := a.DbAuth().UpdateLastLogin(user.ID); err != nil {
		a.Logger().Error("login: last login update failed", "error", err, "user", user.ID)
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
