// README: Service wiring shared by the API binary and the operator CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"trailmate/internal/ai"
	"trailmate/internal/config"
	httptransport "trailmate/internal/http"
	"trailmate/internal/infra"
	"trailmate/internal/maps"
	"trailmate/internal/metrics"
	"trailmate/internal/modules/aiusage"
	"trailmate/internal/modules/archive"
	"trailmate/internal/modules/dialogue"
	"trailmate/internal/modules/planner"
	"trailmate/internal/modules/session"
	"trailmate/internal/weather"
)

// NewLogger installs a JSON slog logger at level as the process default.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *dialogue.Engine
	Store    session.Store
	Sweeper  *session.Sweeper
	Archive  *archive.Service
	Quota    *aiusage.Service
	Verifier infra.TokenVerifier

	closers []func()
}

// Options override pieces of the wiring; zero values use cfg.
type Options struct {
	// Generator replaces the configured provider.
	Generator ai.Generator
	// MemoryOnly forces the in-memory session store and skips the database.
	MemoryOnly bool
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	sessOpts := session.Options{
		IdleTimeout: cfg.Session.IdleTimeout,
		MaxTurns:    cfg.Session.MaxTurns,
		MaxPlans:    cfg.Session.MaxPlans,
	}
	if cfg.Redis.Addr != "" && !opts.MemoryOnly {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		a.Store = session.NewRedisStore(rdb, cfg.Redis.Prefix, sessOpts)
		logger.Info("session store", "backend", "redis", "addr", cfg.Redis.Addr)
	} else {
		a.Store = session.NewMemoryStore(sessOpts)
		logger.Info("session store", "backend", "memory")
	}

	if cfg.DB.DSN != "" && !opts.MemoryOnly {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		a.Archive = archive.NewService(archive.NewStore(pool), logger)
		a.Quota = aiusage.NewService(aiusage.NewStore(pool), cfg.Quota.PlansPerMonth)
	}

	gen := opts.Generator
	if gen == nil {
		var err error
		gen, err = ai.NewGenerator(ctx, cfg.AI)
		if err != nil {
			return nil, fmt.Errorf("ai generator: %w", err)
		}
		if c, isCloser := gen.(io.Closer); isCloser {
			a.closers = append(a.closers, func() { _ = c.Close() })
		}
	}

	enrichers, err := newEnrichers(cfg)
	if err != nil {
		return nil, err
	}

	plannerOpts := planner.Options{
		Model:     cfg.AI.PlannerModel,
		Timeout:   cfg.AI.GenerationTimeout,
		Enrichers: enrichers,
		Logger:    logger,
	}
	if a.Quota != nil {
		plannerOpts.Quota = a.Quota
	}
	engineOpts := dialogue.Options{
		Store:       a.Store,
		Planner:     planner.NewService(gen, plannerOpts),
		Logger:      logger,
		MaxTurns:    cfg.Session.MaxTurns,
		MaxPlans:    cfg.Session.MaxPlans,
		IdleTimeout: cfg.Session.IdleTimeout,
	}
	if a.Archive != nil {
		engineOpts.Archive = a.Archive
	}
	a.Engine = dialogue.NewEngine(engineOpts)
	a.Sweeper = session.NewSweeper(a.Store, cfg.Session.Sweep, logger, metrics.ObserveSweep)

	if cfg.Firebase.ProjectID != "" {
		verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase init: %w", err)
		}
		a.Verifier = verifier
	}

	ok = true
	return a, nil
}

func newEnrichers(cfg config.Config) ([]planner.Enricher, error) {
	var out []planner.Enricher
	if cfg.Weather.APIKey != "" {
		out = append(out, planner.WeatherEnricher{
			Source: weather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.Weather.CacheTTL),
		})
	}
	if cfg.Maps.APIKey != "" {
		places, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			return nil, fmt.Errorf("maps client: %w", err)
		}
		out = append(out, planner.PlacesEnricher{Source: places})
	}
	return out, nil
}

// Serve runs the HTTP API and the session sweeper until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv := httptransport.NewServer(httptransport.ServerDeps{
		Dialogue:    a.Engine,
		Verifier:    a.Verifier,
		Logger:      a.Logger,
		CORSOrigins: a.Config.HTTP.CORSOrigins,
	})

	go func() {
		if err := a.Sweeper.RunSweeper(ctx); err != nil {
			a.Logger.Error("session sweeper", "error", err)
		}
	}()
	return srv.ListenAndServe(ctx, a.Config.HTTP.Addr)
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
