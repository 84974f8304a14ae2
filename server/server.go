package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anvena/launchpad/config"
)

// Daemon is a long running component whose lifecycle is tied to the server,
// like the job scheduler. Start must not block; Stop must respect the
// context deadline.
type Daemon interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	logger         *slog.Logger
	reloadFunc     func() error
	daemons        []Daemon

	// exitFunc is os.Exit, replaceable in tests.
	exitFunc func(code int)
}

func NewServer(provider *config.Provider, handler http.Handler, logger *slog.Logger, reloadFunc func() error) *Server {
	return &Server{
		configProvider: provider,
		handler:        handler,
		logger:         logger,
		reloadFunc:     reloadFunc,
		exitFunc:       os.Exit,
	}
}

// AddDaemon registers a daemon to be started with the server and stopped
// during graceful shutdown. Must be called before Run.
func (s *Server) AddDaemon(d Daemon) {
	s.daemons = append(s.daemons, d)
}

// Run starts the HTTP server and all registered daemons, then blocks until
// a shutdown signal arrives or a component fails. SIGHUP triggers a config
// reload without interrupting service. Run never returns; it terminates the
// process through exitFunc.
func (s *Server) Run() {
	cfg := s.configProvider.Get().Server

	s.logger.Info("server configuration",
		"addr", cfg.Addr,
		"read_timeout", cfg.ReadTimeout.Duration,
		"read_header_timeout", cfg.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.WriteTimeout.Duration,
		"idle_timeout", cfg.IdleTimeout.Duration,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("ListenAndServe error", "err", err)
			serverError <- err
		}
	}()

	started, err := s.startDaemons()
	if err != nil {
		s.shutdown(srv, started, cfg.ShutdownGracefulTimeout.Duration)
		s.exitFunc(1)
		return
	}

	shutdownCtx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer stop()

	reloadCh := make(chan os.Signal, 1)
	signal.Notify(reloadCh, syscall.SIGHUP)
	defer signal.Stop(reloadCh)

	running := true
	for running {
		select {
		case <-reloadCh:
			s.logger.Info("received SIGHUP, reloading configuration")
			if err := s.reloadFunc(); err != nil {
				s.logger.Error("configuration reload failed, keeping previous config", "err", err)
			} else {
				s.logger.Info("configuration reloaded")
			}
		case <-shutdownCtx.Done():
			s.logger.Info("received shutdown signal, gracefully shutting down")
			running = false
		case err := <-serverError:
			s.logger.Error("server error, initiating shutdown", "err", err)
			running = false
		}
	}

	// Restore default signal behavior so a second Ctrl+C kills immediately.
	stop()

	if err := s.shutdown(srv, started, cfg.ShutdownGracefulTimeout.Duration); err != nil {
		s.logger.Error("error during shutdown", "err", err)
		s.exitFunc(1)
		return
	}

	s.logger.Info("all systems stopped gracefully")
	s.exitFunc(0)
}

// startDaemons starts daemons in registration order and returns the ones
// that started. On failure the caller stops the already started daemons.
func (s *Server) startDaemons() ([]Daemon, error) {
	started := make([]Daemon, 0, len(s.daemons))
	for _, d := range s.daemons {
		s.logger.Info("starting daemon", "name", d.Name())
		if err := d.Start(); err != nil {
			s.logger.Error("daemon failed to start", "name", d.Name(), "err", err)
			return started, err
		}
		started = append(started, d)
	}
	return started, nil
}

func (s *Server) shutdown(srv *http.Server, daemons []Daemon, timeout time.Duration) error {
	gracefulCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	g, _ := errgroup.WithContext(gracefulCtx)

	g.Go(func() error {
		s.logger.Info("shutting down HTTP server")
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "err", err)
			return err
		}
		s.logger.Info("HTTP server stopped gracefully")
		return nil
	})

	for _, d := range daemons {
		d := d
		g.Go(func() error {
			s.logger.Info("stopping daemon", "name", d.Name())
			if err := d.Stop(gracefulCtx); err != nil {
				s.logger.Error("daemon shutdown error", "name", d.Name(), "err", err)
				return err
			}
			s.logger.Info("daemon stopped gracefully", "name", d.Name())
			return nil
		})
	}

	return g.Wait()
}
