package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/five82/ebs/internal/catalog"
	"github.com/five82/ebs/internal/config"
	"github.com/five82/ebs/internal/history"
	"github.com/five82/ebs/internal/logging"
	"github.com/five82/ebs/internal/prefs"
	"github.com/five82/ebs/internal/state"
	"github.com/five82/ebs/internal/telemetry"
	"github.com/five82/ebs/internal/ui"
)

// Options configure the ebs application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/ebs/prefs.toml
	Version    string
	Verbose    bool

	// LogWriter receives log output. Nil logs to the file under log_dir,
	// which is what the TUI needs.
	LogWriter io.Writer
}

// Runtime holds everything a command needs once setup succeeds.
type Runtime struct {
	Config  config.Config
	Logger  *slog.Logger
	Health  *state.Store
	Client  *catalog.Client
	History *history.Store // nil unless history is recorded or read
	Service catalog.Service

	closers []func(context.Context) error
}

// Setup loads configuration and builds the logger, tracer provider, catalog
// client and history store. Callers must Close the runtime.
func Setup(ctx context.Context, opts Options) (_ *Runtime, err error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	rt := &Runtime{Config: cfg, Health: &state.Store{}}
	defer func() {
		if err != nil {
			_ = rt.Close(ctx)
		}
	}()

	logWriter := opts.LogWriter
	if logWriter == nil {
		f, err := logging.OpenFile(cfg.LogPath())
		if err != nil {
			return nil, err
		}
		rt.addCloser(func(context.Context) error { return f.Close() })
		logWriter = f
	}
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	rt.Logger = logging.New(logWriter, logging.Config{Level: level, Format: cfg.LogFormat})

	if err := rt.initTracing(ctx, opts.Version); err != nil {
		return nil, err
	}

	userAgent := "ebs/" + versionOrDev(opts.Version)
	client, err := catalog.NewClient(cfg.APIURL,
		catalog.WithTimeout(cfg.RequestTimeout),
		catalog.WithPreviousSearchLimit(cfg.PreviousSearchLimit),
		catalog.WithUserAgent(userAgent),
		catalog.WithLogger(rt.Logger),
		catalog.WithHealth(rt.Health),
	)
	if err != nil {
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	rt.Client = client
	rt.Service = client

	if cfg.RecordHistory || cfg.PreviousSearches == config.SourceLocal {
		if err := rt.OpenHistory(ctx); err != nil {
			return nil, err
		}
	}
	if cfg.RecordHistory {
		rt.Service = history.NewRecorder(rt.Service, rt.History, rt.Logger)
	}
	if cfg.PreviousSearches == config.SourceLocal {
		rt.Service = history.NewSource(rt.Service, rt.History, cfg.PreviousSearchLimit)
	}

	rt.Logger.Debug("runtime ready",
		"api_url", cfg.APIURL,
		"previous_searches", cfg.PreviousSearches,
		"record_history", cfg.RecordHistory,
		"tracing", cfg.Tracing,
	)
	return rt, nil
}

// OpenHistory opens and migrates the history database if it is not open yet.
func (rt *Runtime) OpenHistory(ctx context.Context) error {
	if rt.History != nil {
		return nil
	}
	store, err := history.Open(ctx, rt.Config.HistoryPath)
	if err != nil {
		return err
	}
	rt.addCloser(func(context.Context) error { return store.Close() })
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	rt.History = store
	return nil
}

func (rt *Runtime) initTracing(ctx context.Context, version string) error {
	tcfg := telemetry.Config{ServiceName: "ebs", ServiceVersion: versionOrDev(version)}
	if rt.Config.Tracing {
		f, err := logging.OpenFile(rt.Config.TracePath())
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		rt.addCloser(func(context.Context) error { return f.Close() })
		tcfg.Writer = f
	}
	shutdown, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	rt.addCloser(shutdown)
	return nil
}

// addCloser registers fn to run on Close. Closers run last-in first-out.
func (rt *Runtime) addCloser(fn func(context.Context) error) {
	rt.closers = append(rt.closers, fn)
}

// Close releases everything Setup opened.
func (rt *Runtime) Close(ctx context.Context) error {
	if rt == nil {
		return nil
	}
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	rt.closers = nil
	return errors.Join(errs...)
}

// Run boots the ebs TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := Setup(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.WithoutCancel(ctx)) }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	rt.Logger.Info("starting ebs", "version", versionOrDev(opts.Version), "theme", userPrefs.Theme)
	return ui.Run(ctx, ui.RunOptions{
		Service:   rt.Service,
		Health:    rt.Health,
		Logger:    rt.Logger,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}

func versionOrDev(version string) string {
	if version == "" {
		return "dev"
	}
	return version
}
