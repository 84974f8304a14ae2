package core

import (
	"net/http"

	"github.com/anvena/launchpad/db"
)

// Authentication responses share one shape so the client can treat login,
// verify, email bind and the OAuth2 callback uniformly:
//
//	{
//	  "status": 200,
//	  "code": "ok_authentication",
//	  "message": "Authentication successful",
//	  "data": {
//	    "token_type": "Bearer",
//	    "access_token": "eyJhbGciOiJIUzI...",
//	    "expires_in": 604800,
//	    "record": {
//	      "id": "user123",
//	      "email": "user@example.com",
//	      "name": "John Doe",
//	      "avatar": "https://...",
//	      "verified": true
//	    }
//	  }
//	}
const (
	// oks for non precomputed, dynamic responses
	CodeOkAuthentication = "ok_authentication"
	CodeOkAuthCheck      = "ok_auth_check"
)

// AuthRecord represents the user record in authentication responses
type AuthRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar,omitempty"`
	Verified bool   `json:"verified"`
}

// AuthData represents the authentication response structure
type AuthData struct {
	TokenType   string     `json:"token_type"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
	Record      AuthRecord `json:"record"`
}

// NewAuthRecord maps a stored user onto the response record shape
func NewAuthRecord(user *db.User) AuthRecord {
	return AuthRecord{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Avatar:   user.Avatar,
		Verified: user.Verified,
	}
}

// NewAuthData creates a new AuthData instance
func NewAuthData(token string, expiresIn int, user *db.User) *AuthData {
	return &AuthData{
		TokenType:   "Bearer",
		AccessToken: token,
		ExpiresIn:   expiresIn,
		Record:      NewAuthRecord(user),
	}
}

// writeAuthResponse writes a standardized authentication response
func writeAuthResponse(w http.ResponseWriter, token string, expiresIn int, user *db.User) {
	authData := NewAuthData(token, expiresIn, user)
	response := JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: "Authentication successful",
		},
		Data: authData,
	}
	writeJsonWithData(w, response)
}
