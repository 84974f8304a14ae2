package core

import (
	"log/slog"

	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/content"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/router"
)

// App is the application wide context.
// db connections and permanent structs should go here.
//
// All handlers have App as receiver; the heavy objects they need (database
// interfaces, config provider, content service) are wired once at startup.
type App struct {
	dbAuth         db.DbAuth
	dbCode         db.DbCode
	dbQueue        db.DbQueue
	router         router.Router
	configProvider *config.Provider
	logger         *slog.Logger
	authenticator  Authenticator
	validator      Validator
	contentService *content.Service
}

// NewApp assembles an App from options. Wiring is validated lazily: handlers
// that need a missing collaborator fail loudly at first use, not at startup.
func NewApp(opts ...Option) *App {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the application's router instance
func (a *App) Router() router.Router {
	return a.router
}

func (a *App) SetRouter(r router.Router) {
	a.router = r
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) DbCode() db.DbCode {
	return a.dbCode
}

func (a *App) DbQueue() db.DbQueue {
	return a.dbQueue
}

// SetDb sets the database interfaces for auth, codes and queue
func (a *App) SetDb(dbApp db.DbApp) {
	if dbApp == nil {
		panic("DbApp cannot be nil")
	}
	a.dbAuth = dbApp
	a.dbCode = dbApp
	a.dbQueue = dbApp
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) SetConfigProvider(provider *config.Provider) {
	a.configProvider = provider
}

// SetAuthenticator sets the authenticator implementation
func (a *App) SetAuthenticator(auth Authenticator) {
	a.authenticator = auth
}

func (a *App) Auth() Authenticator {
	return a.authenticator
}

// SetValidator sets the validator implementation
func (a *App) SetValidator(v Validator) {
	a.validator = v
}

// Validator returns the validator instance
func (a *App) Validator() Validator {
	return a.validator
}

func (a *App) ContentService() *content.Service {
	return a.contentService
}

func (a *App) SetContentService(s *content.Service) {
	a.contentService = s
}
