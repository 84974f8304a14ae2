package core

import (
	"net/http"
)

// AuthCheckHandler reports the identity behind the current session, if any.
// Endpoint: GET /api/auth/check
// Authenticated: Optional
//
// Fails open: a missing, invalid or expired token and a vanished user all
// answer 200 with a null user. "No session" is the unexceptional default
// for a start page, not an error.
func (a *App) AuthCheckHandler(w http.ResponseWriter, r *http.Request) {
	var record *AuthRecord
	if user, err, _ := a.Auth().Authenticate(r); err == nil {
		rec := NewAuthRecord(user)
		record = &rec
	}

	writeJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthCheck,
			Message: "Session check complete",
		},
		Data: map[string]*AuthRecord{"user": record},
	})
}
