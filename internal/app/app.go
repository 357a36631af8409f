package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/logging"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/ui"
)

// startupTimeout bounds the first fetch of films and users.
const startupTimeout = ui.ActionTimeout

// Options configure the marquee application.
type Options struct {
	ConfigPath string // empty uses ~/.config/marquee/config.toml
	PrefsPath  string // empty uses ~/.config/marquee/prefs.toml
}

// environment is everything Run builds before the UI starts.
type environment struct {
	cfg      config.Config
	prefs    prefs.Prefs
	session  *state.Session
	closeLog func() error
}

// Run boots the marquee TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := env.closeLog(); err != nil {
			slog.Warn("close log file", "error", err)
		}
	}()

	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   env.session,
		ThemeName: env.prefs.Theme,
		PrefsPath: opts.PrefsPath,
		LogPath:   env.cfg.LogFile,
		APIURL:    env.cfg.APIURL,
		Load: func(ctx context.Context) error {
			return initialLoad(ctx, env.session, startupTimeout)
		},
	})
}

// setup loads configuration, installs logging and builds the session.
func setup(opts Options) (*environment, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	closeLog, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		slog.Warn("prefs unavailable, using defaults", "error", err)
		userPrefs = prefs.Default()
	}

	fallback, err := catalog.LoadFallback(cfg.FallbackCatalog)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("load fallback catalog: %w", err)
	}

	client, err := catalog.NewClient(cfg.APIURL,
		catalog.WithFilmTimeout(cfg.FilmTimeout),
		catalog.WithRateLimit(cfg.RequestsPerSecond),
	)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	slog.Info("marquee starting",
		"api_url", client.BaseURL(),
		"film_timeout", cfg.FilmTimeout,
		"fallback_films", len(fallback),
	)

	return &environment{
		cfg:      cfg,
		prefs:    userPrefs,
		session:  state.NewSession(client, client, fallback),
		closeLog: closeLog,
	}, nil
}

// initialLoad fetches films and users once, giving up after timeout. Fetch
// failures and the deadline are recorded by the stores; only cancellation is
// returned.
func initialLoad(ctx context.Context, session *state.Session, timeout time.Duration) error {
	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := session.Refresh(loadCtx)
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		slog.Warn("initial load timed out", "timeout", timeout)
	}
	films := session.Films.Snapshot()
	users := session.Users.Snapshot()
	slog.Info("initial load finished",
		"films", len(films.Films),
		"users", len(users.Users),
		"offline", films.Offline,
	)
	return nil
}
