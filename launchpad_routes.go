package launchpad

import (
	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/core"
	r "github.com/anvena/launchpad/router"
)

// route binds the configured endpoints to their handlers. Paths come from
// config so deployments can move the API surface without recompiling.
func route(cfg *config.Config, ap *core.App) {

	// --- auth ---
	ap.Router().Register(r.Chains{
		r.NewRoute(cfg.Endpoints.Register).WithHandlerFunc(ap.RegisterHandler),
		r.NewRoute(cfg.Endpoints.VerifyCode).WithHandlerFunc(ap.VerifyCodeHandler),
		r.NewRoute(cfg.Endpoints.AuthWithPassword).WithHandlerFunc(ap.AuthWithPasswordHandler),
		r.NewRoute(cfg.Endpoints.RequestPasswordReset).WithHandlerFunc(ap.RequestPasswordResetHandler),
		r.NewRoute(cfg.Endpoints.ConfirmPasswordReset).WithHandlerFunc(ap.SetPasswordHandler),
		r.NewRoute(cfg.Endpoints.UpdatePassword).WithHandlerFunc(ap.UpdatePasswordHandler),
		r.NewRoute(cfg.Endpoints.RequestEmailBind).WithHandlerFunc(ap.RequestEmailBindHandler),
		r.NewRoute(cfg.Endpoints.ConfirmEmailBind).WithHandlerFunc(ap.ConfirmEmailBindHandler),
		r.NewRoute(cfg.Endpoints.AuthCheck).WithHandlerFunc(ap.AuthCheckHandler),
		r.NewRoute(cfg.Endpoints.AuthWithOAuth2).WithHandlerFunc(ap.OAuth2RedirectHandler),
		r.NewRoute(cfg.Endpoints.OAuth2Callback).WithHandlerFunc(ap.OAuth2CallbackHandler),
	})

	// --- start page content ---
	ap.Router().Register(r.Chains{
		r.NewRoute(cfg.Endpoints.HotSites).WithHandlerFunc(ap.HotSitesHandler),
		r.NewRoute(cfg.Endpoints.HotSiteClick).WithHandlerFunc(ap.HotSiteClickHandler),
		r.NewRoute(cfg.Endpoints.SearchEngines).WithHandlerFunc(ap.SearchEnginesHandler),
		r.NewRoute(cfg.Endpoints.Tabs).WithHandlerFunc(ap.TabsHandler),
		r.NewRoute(cfg.Endpoints.GetPreferences).WithHandlerFunc(ap.GetPreferencesHandler),
		r.NewRoute(cfg.Endpoints.UpdatePreferences).WithHandlerFunc(ap.UpdatePreferencesHandler),
	})
}
