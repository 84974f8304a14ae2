package core

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/crypto"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/oauth2"
)

// oauth2TokenExchangeTimeout caps the code-for-token round trip to the
// provider. A stalled upstream must not stall the request forever.
const oauth2TokenExchangeTimeout = 10 * time.Second

// oauth2StateCookieName carries the CSRF state between the redirect and the
// callback.
const oauth2StateCookieName = "launchpad_oauth2_state"

// githubProvider resolves the configured GitHub provider. Missing client
// credentials count as an unconfigured provider.
func (a *App) githubProvider() (config.OAuth2Provider, bool) {
	cfg := a.Config()
	p, ok := cfg.OAuth2Providers[config.OAuth2ProviderGitHub]
	if !ok || p.ClientID == "" || p.ClientSecret == "" {
		return config.OAuth2Provider{}, false
	}
	return p, true
}

// OAuth2RedirectHandler sends the browser to the GitHub authorization page.
// Endpoint: GET /api/auth/github
// Authenticated: No
func (a *App) OAuth2RedirectHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := a.githubProvider()
	if !ok {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	state := crypto.Oauth2State()
	http.SetCookie(w, &http.Cookie{
		Name:     oauth2StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	cfg := a.Config()
	oauthCfg := oauth2.NewConfig(p, cfg.Server.BaseURL+p.RedirectURLPath)
	http.Redirect(w, r, oauthCfg.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// OAuth2CallbackHandler completes the GitHub login.
// Endpoint: GET /api/auth/callback/github
// Authenticated: No
//
// Exchanges the authorization code, fetches profile and primary email, then
// creates or refreshes the local account keyed by the provider's numeric id.
// On success the session token is set as an HttpOnly cookie and the browser
// is sent back to the start page.
func (a *App) OAuth2CallbackHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := a.githubProvider()
	if !ok {
		writeJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauth2StateCookieName)
	if err != nil || state == "" || stateCookie.Value != state {
		writeJsonError(w, errorOAuth2StateMismatch)
		return
	}
	// The state is single use.
	http.SetCookie(w, &http.Cookie{
		Name:     oauth2StateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJsonError(w, errorOAuth2MissingCode)
		return
	}

	cfg := a.Config()
	oauthCfg := oauth2.NewConfig(p, cfg.Server.BaseURL+p.RedirectURLPath)

	ctx, cancel := context.WithTimeout(r.Context(), oauth2TokenExchangeTimeout)
	defer cancel()

	token, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		a.Logger().Error("oauth2: token exchange failed", "error", err, "provider", p.Name)
		writeJsonError(w, errorOAuth2TokenExchangeFailed)
		return
	}

	authUser, err := oauth2.FetchGithubUser(ctx, oauthCfg.Client(ctx, token), p)
	if err != nil {
		a.Logger().Error("oauth2: user info fetch failed", "error", err, "provider", p.Name)
		writeJsonError(w, errorOAuth2UserInfoFailed)
		return
	}

	user, err := a.DbAuth().GetUserByGithubID(authUser.ProviderID)
	if err != nil {
		a.Logger().Error("oauth2: user lookup failed", "error", err)
		writeJsonError(w, errorOAuth2DatabaseError)
		return
	}

	if user == nil {
		newUser := db.User{
			ID:       uuid.NewString(),
			Email:    authUser.Email,
			Name:     authUser.Name,
			Avatar:   authUser.AvatarURL,
			GithubID: authUser.ProviderID,
			// An address handed out by the provider counts as verified;
			// without one the account stays unverified until bind-email.
			Verified: authUser.Email != "",
		}
		user, err = a.DbAuth().CreateUser(newUser)
		if err != nil {
			if errors.Is(err, db.ErrConstraintUnique) {
				// The provider email already belongs to a password account.
				writeJsonError(w, errorEmailConflict)
				return
			}
			a.Logger().Error("oauth2: create user failed", "error", err)
			writeJsonError(w, errorOAuth2DatabaseError)
			return
		}
		if err := a.DbAuth().UpdateLastLogin(user.ID); err != nil {
			a.Logger().Error("oauth2: last login update failed", "error", err, "user", user.ID)
		}
	} else {
		if err := a.DbAuth().UpdateOauth2Profile(user.ID, authUser.Name, authUser.AvatarURL); err != nil {
			a.Logger().Error("oauth2: profile refresh failed", "error", err, "user", user.ID)
			writeJsonError(w, errorOAuth2DatabaseError)
			return
		}
		user.Name = authUser.Name
		user.Avatar = authUser.AvatarURL
	}

	sessionToken, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Name, []byte(cfg.Jwt.AuthSecret), cfg.Jwt.SessionTokenDuration.Duration)
	if err != nil {
		writeJsonError(w, errorTokenGeneration)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(cfg.Jwt.SessionTokenDuration.Duration.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}
