package core

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/crypto"
	"github.com/anvena/launchpad/db"
)

// SessionCookieName is the HttpOnly cookie carrying the session token for
// browser flows (OAuth2 callback, session check).
const SessionCookieName = "launchpad_session"

// Authenticator defines the interface for authentication operations
type Authenticator interface {
	Authenticate(r *http.Request) (*db.User, error, jsonResponse)
}

// DefaultAuthenticator implements Authenticator using the standard
// session token flow: Authorization Bearer header first, session cookie
// as fallback.
type DefaultAuthenticator struct {
	dbAuth         db.DbAuth
	logger         *slog.Logger
	configProvider *config.Provider
}

// NewDefaultAuthenticator creates a new DefaultAuthenticator instance
func NewDefaultAuthenticator(dbAuth db.DbAuth, logger *slog.Logger, configProvider *config.Provider) *DefaultAuthenticator {
	return &DefaultAuthenticator{
		dbAuth:         dbAuth,
		logger:         logger,
		configProvider: configProvider,
	}
}

// requestSessionToken extracts the session token string from a request.
// The Authorization header wins over the cookie so API clients can override
// a stale browser session.
func requestSessionToken(r *http.Request) (string, jsonResponse) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return "", errorInvalidTokenFormat
		}
		return tokenString, jsonResponse{}
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value, jsonResponse{}
	}

	return "", errorNoAuthHeader
}

// Authenticate implements the Authenticator interface.
// It returns:
// - authenticated user on success
// - error (always a generic auth error, details go to the response)
// - precomputed jsonResponse for error cases
func (a *DefaultAuthenticator) Authenticate(r *http.Request) (*db.User, error, jsonResponse) {
	errAuth := errors.New("auth error")

	tokenString, resp := requestSessionToken(r)
	if tokenString == "" {
		return nil, errAuth, resp
	}

	cfg := a.configProvider.Get()
	claims, err := crypto.ParseJwt(tokenString, []byte(cfg.Jwt.AuthSecret))
	if err != nil {
		if errors.Is(err, crypto.ErrJwtTokenExpired) {
			return nil, errAuth, errorJwtTokenExpired
		}
		if errors.Is(err, crypto.ErrJwtInvalidSigningMethod) {
			return nil, errAuth, errorJwtInvalidSignMethod
		}
		return nil, errAuth, errorJwtInvalidToken
	}

	if err := crypto.ValidateSessionClaims(claims); err != nil {
		return nil, errAuth, errorJwtInvalidToken
	}

	userID := claims[crypto.ClaimUserID].(string)
	user, err := a.dbAuth.GetUserById(userID)
	if err != nil || user == nil {
		// Treat DB errors and deleted users identically so a probe cannot
		// distinguish them.
		return nil, errAuth, errorJwtInvalidToken
	}

	return user, nil, jsonResponse{}
}
