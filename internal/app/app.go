// Package app wires configuration into the catalog, predictor, sinks and API.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"habitat-pricer/adapters/display"
	"habitat-pricer/adapters/predictor"
	"habitat-pricer/api"
	"habitat-pricer/core/catalog"
	"habitat-pricer/core/model"
	"habitat-pricer/core/output"
	"habitat-pricer/core/pipeline"
	"habitat-pricer/core/session"
	"habitat-pricer/internal/config"
	"habitat-pricer/internal/logging"
)

// sweepInterval is how often idle sessions are expired
const sweepInterval = time.Minute

// App holds the shared collaborators built from one configuration
type App struct {
	Config    *config.Config
	Catalog   *catalog.Catalog
	Formatter *output.NumberFormatter
	Predictor pipeline.Predictor
	Sinks     session.SinkFactory

	logger  *zap.Logger
	closers []func()
}

// New builds an App from cfg
func New(cfg *config.Config) (*App, error) {
	a := &App{
		Config:    cfg,
		Formatter: output.USD(),
		logger:    logging.Named("app"),
	}
	a.Catalog = catalog.NewHabitat(a.Formatter)

	pred, err := NewPredictor(cfg.Model)
	if err != nil {
		return nil, err
	}
	a.Predictor = pred

	if cfg.Display.NATSURL != "" {
		conn, err := display.ConnectNATS(cfg.Display.NATSURL, "habitat-pricer")
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, conn.Close)
		sink := display.NewNATSSink(conn, cfg.Display.NATSSubject)
		a.Sinks = func(id string) pipeline.Display {
			return sink.ForSession(id)
		}
		a.logger.Info("publishing prices", zap.String("url", cfg.Display.NATSURL), zap.String("subject", cfg.Display.NATSSubject))
	}

	return a, nil
}

// NewPredictor picks the remote model, a model file, or the built-in model, in that order
func NewPredictor(cfg config.ModelConfig) (pipeline.Predictor, error) {
	log := logging.Named("app")
	switch {
	case cfg.RemoteURL != "":
		log.Info("using remote model", zap.String("url", cfg.RemoteURL))
		return predictor.NewHTTP(predictor.Config{URL: cfg.RemoteURL, Timeout: cfg.Timeout()}), nil
	case cfg.Path != "":
		m, err := model.LoadWithVariables(cfg.Path, cfg.Variables)
		if err != nil {
			return nil, err
		}
		log.Info("using model file", zap.String("path", cfg.Path), zap.Stringer("model", m))
		return m, nil
	default:
		m := model.Builtin()
		log.Debug("using built-in model", zap.Stringer("model", m))
		return m, nil
	}
}

// Display returns the sink for one screen, adding the configured publishers
func (a *App) Display(id string, local pipeline.Display) pipeline.Display {
	if a.Sinks == nil {
		return local
	}
	return display.Multi{local, a.Sinks(id)}
}

// Sessions creates a session manager bound to this App
func (a *App) Sessions() *session.Manager {
	opts := []session.Option{}
	if a.Sinks != nil {
		opts = append(opts, session.WithSinks(a.Sinks))
	}
	return session.NewManager(a.Catalog, a.Predictor, a.Formatter, a.Config.Server.SessionTTL(), opts...)
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully
func (a *App) Serve(ctx context.Context, version string) error {
	sessions := a.Sessions()
	handler := api.NewServer(version, api.Dependencies{
		Catalog:   a.Catalog,
		Predictor: a.Predictor,
		Formatter: a.Formatter,
		Sessions:  sessions,
	})

	server := &http.Server{
		Addr:         a.Config.Server.Addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(a.Config.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(a.Config.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go sessions.Run(sweepCtx, sweepInterval)

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("API listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Close releases connections opened by New
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
