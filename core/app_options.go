package core

import (
	"log/slog"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/content"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/router"
)

type Option func(*App)

// WithDbApp sets the database implementation for all db roles
func WithDbApp(d db.DbApp) Option {
	return func(a *App) {
		a.SetDb(d)
	}
}

// WithRouter sets the router implementation
func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

// WithConfigProvider sets the application's configuration provider.
func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

// WithLogger sets the logger implementation
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithAuthenticator sets the authenticator implementation
func WithAuthenticator(auth Authenticator) Option {
	return func(a *App) {
		a.authenticator = auth
	}
}

// WithValidator sets the validator implementation
func WithValidator(v Validator) Option {
	return func(a *App) {
		a.validator = v
	}
}

// WithContentService sets the start page content service
func WithContentService(s *content.Service) Option {
	return func(a *App) {
		a.contentService = s
	}
}
