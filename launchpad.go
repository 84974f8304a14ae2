package launchpad

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/anvena/launchpad/cache/ristretto"
	"github.com/anvena/launchpad/config"
	"github.com/anvena/launchpad/content"
	"github.com/anvena/launchpad/core"
	"github.com/anvena/launchpad/db"
	"github.com/anvena/launchpad/db/zombiezen"
	"github.com/anvena/launchpad/mail"
	"github.com/anvena/launchpad/migrations"
	"github.com/anvena/launchpad/queue"
	"github.com/anvena/launchpad/queue/executor"
	"github.com/anvena/launchpad/queue/handlers"
	scl "github.com/anvena/launchpad/queue/scheduler"
	"github.com/anvena/launchpad/router/httprouter"
	"github.com/anvena/launchpad/server"
)

// ConfigOverride mutates the loaded configuration before any component is
// built. Command line flags use this to win over the config file.
type ConfigOverride func(*config.Config)

// New assembles the whole application from the config file at configPath:
// database pool with migrations applied, content service, job scheduler and
// HTTP server. Options run last so callers can override any default wiring.
func New(configPath string, logger *slog.Logger, override ConfigOverride, opts ...core.Option) (*core.App, *server.Server, error) {
	cfg, err := config.Load(configPath, logger)
	if err != nil {
		return nil, nil, err
	}
	if override != nil {
		override(cfg)
	}
	configProvider := config.NewProvider(cfg)

	pool, err := zombiezen.NewPool(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database at %s: %w", cfg.DBPath, err)
	}
	if err := migrate(pool, logger); err != nil {
		pool.Close()
		return nil, nil, err
	}
	dbApp, err := zombiezen.New(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	contentService, err := setupContent(cfg)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	allOpts := []core.Option{
		core.WithConfigProvider(configProvider),
		core.WithLogger(logger),
		core.WithDbApp(dbApp),
		core.WithRouter(httprouter.New()),
		core.WithValidator(core.NewValidator()),
		core.WithContentService(contentService),
	}
	allOpts = append(allOpts, opts...)

	app := core.NewApp(allOpts...)
	if app.Auth() == nil {
		app.SetAuthenticator(core.NewDefaultAuthenticator(app.DbAuth(), logger, configProvider))
	}

	route(configProvider.Get(), app)

	scheduler := setupScheduler(configProvider, dbApp, logger)

	if cfg.Backup.Enabled {
		if err := seedBackupJob(dbApp, cfg); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to seed backup job: %w", err)
		}
	}

	// Reload reapplies the override so flag values survive SIGHUP.
	reload := func() error {
		fresh, err := config.Load(configPath, logger)
		if err != nil {
			return err
		}
		if override != nil {
			override(fresh)
		}
		configProvider.Update(fresh)
		return nil
	}

	srv := server.NewServer(configProvider, app.Router(), logger, reload)
	srv.AddDaemon(scheduler)
	srv.AddDaemon(&poolCloser{pool: pool})

	return app, srv, nil
}

// migrate applies every embedded schema file. The schema uses CREATE TABLE
// IF NOT EXISTS throughout, so reapplying on startup is safe.
func migrate(pool *sqlitex.Pool, logger *slog.Logger) error {
	conn, err := pool.Take(context.Background())
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	schemaFS := migrations.Schema()
	return fs.WalkDir(schemaFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".sql" {
			return nil
		}

		sql, err := fs.ReadFile(schemaFS, path)
		if err != nil {
			return fmt.Errorf("failed to read embedded migration %s: %w", path, err)
		}

		logger.Info("applying migration", "file", path)
		if err := sqlitex.ExecuteScript(conn, string(sql), nil); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", path, err)
		}
		return nil
	})
}

// setupContent builds the content service: TOML document store, ristretto
// cache in front of it and the sliding top-k click sketch that orders hot
// sites.
func setupContent(cfg *config.Config) (*content.Service, error) {
	store := content.NewStore(cfg.Content.Path)

	cache, err := ristretto.New[string, *content.Content](
		cfg.Content.Cache.NumCounters, cfg.Content.Cache.MaxCost)
	if err != nil {
		return nil, fmt.Errorf("failed to create content cache: %w", err)
	}

	sketch := content.NewClickSketch(content.SketchParams{
		K:          cfg.Content.TopK.K,
		Width:      cfg.Content.TopK.Width,
		Depth:      cfg.Content.TopK.Depth,
		WindowSize: cfg.Content.TopK.WindowSize,
		TickSize:   cfg.Content.TopK.TickSize.Duration,
	}, time.Now())

	return content.NewService(store, cache, sketch), nil
}

// setupScheduler wires the job handler registry. Mail backed handlers are
// only registered when SMTP is enabled; without them a mail job fails with
// "no handler" and surfaces in the job queue instead of silently vanishing.
func setupScheduler(provider *config.Provider, dbApp db.DbApp, logger *slog.Logger) *scl.Scheduler {
	cfg := provider.Get()

	hdls := make(map[string]executor.JobHandler)
	hdls[queue.JobTypeBackup] = handlers.NewBackupHandler(provider, logger)

	var mailer mail.MailerInterface
	if cfg.Smtp.Enabled {
		mailer = mail.New(cfg.Smtp, logger)
	} else {
		logger.Info("smtp disabled, mail jobs log their codes instead of sending")
		mailer = &logMailer{logger: logger}
	}
	hdls[queue.JobTypeVerificationCode] = handlers.NewVerificationCodeHandler(provider, mailer, logger)
	hdls[queue.JobTypePasswordReset] = handlers.NewPasswordResetHandler(dbApp, provider, mailer, logger)
	hdls[queue.JobTypeEmailBind] = handlers.NewEmailBindHandler(dbApp, provider, mailer, logger)

	return scl.NewScheduler(cfg.Scheduler, dbApp, executor.NewExecutor(hdls), logger)
}

// seedBackupJob inserts the recurrent backup job. The pending unique index
// makes the insert idempotent across restarts.
func seedBackupJob(dbQueue db.DbQueue, cfg *config.Config) error {
	job := db.Job{
		JobType:      queue.JobTypeBackup,
		MaxAttempts:  3,
		ScheduledFor: time.Now().Add(cfg.Backup.Interval.Duration),
		Recurrent:    true,
		Interval:     cfg.Backup.Interval.Duration,
	}
	if err := dbQueue.InsertJob(job); err != nil && !errors.Is(err, db.ErrConstraintUnique) {
		return err
	}
	return nil
}

// logMailer stands in for SMTP when it is not configured. Codes end up in
// the log so the flows stay usable on a development box.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	m.logger.Info("verification code issued (smtp disabled)", "email", email, "code", code)
	return nil
}

func (m *logMailer) SendPasswordResetCode(ctx context.Context, email, code string) error {
	m.logger.Info("password reset code issued (smtp disabled)", "email", email, "code", code)
	return nil
}

func (m *logMailer) SendEmailBindCode(ctx context.Context, email, code string) error {
	m.logger.Info("email bind code issued (smtp disabled)", "email", email, "code", code)
	return nil
}

// poolCloser ties the sqlite pool lifetime to the server so connections are
// released only after the HTTP server and scheduler have drained.
type poolCloser struct {
	pool *sqlitex.Pool
}

func (p *poolCloser) Name() string { return "sqlite-pool" }

func (p *poolCloser) Start() error { return nil }

func (p *poolCloser) Stop(ctx context.Context) error {
	return p.pool.Close()
}
