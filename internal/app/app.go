package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/five82/lunchbox/internal/config"
	"github.com/five82/lunchbox/internal/favorites"
	"github.com/five82/lunchbox/internal/i18n"
	"github.com/five82/lunchbox/internal/mealdb"
	"github.com/five82/lunchbox/internal/prefs"
	"github.com/five82/lunchbox/internal/session"
	"github.com/five82/lunchbox/internal/ui"
	"github.com/five82/lunchbox/internal/viewstate"
)

// Options configure the lunchbox application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/lunchbox/prefs.toml
	SessionID  string // overrides session_id from the config
	Mouse      bool   // enable click handling
}

// Run boots the lunchbox TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if id := strings.TrimSpace(opts.SessionID); id != "" {
		cfg.SessionID = id
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := mealdb.NewClient(cfg.APIBase, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init mealdb client: %w", err)
	}

	storage := openStorage(cfg, logger)
	store := favorites.Open(storage, favorites.WithLogger(logger.Named("favorites")))

	logger.Info("starting",
		"api", cfg.APIBase,
		"session", cfg.SessionID,
		"stale_results", string(cfg.StaleResults),
		"favorites", store.Len(),
	)

	uiOpts := ui.Options{
		Context:    ctx,
		Fetcher:    client,
		Favorites:  store,
		Controller: viewstate.New(stalePolicy(cfg.StaleResults)),
		Language:   i18n.NewPrefsSwitcher(opts.PrefsPath, userPrefs.Language),
		Catalog:    i18n.NewCatalog(),
		Logger:     logger,
		ThemeName:  userPrefs.Theme,
		PrefsPath:  opts.PrefsPath,
		Mouse:      opts.Mouse,
	}
	err = ui.Run(uiOpts)
	logger.Info("stopped", "error", err)
	return err
}

// stalePolicy maps the config setting onto the controller policy.
func stalePolicy(p config.StalePolicy) viewstate.Policy {
	if p == config.StaleApply {
		return viewstate.LastResolved
	}
	return viewstate.LatestIssued
}

// openStorage returns the session file store, or an in-memory store when the
// session directory is unusable. Favorites then last only for this run.
func openStorage(cfg config.Config, logger hclog.Logger) session.Storage {
	files, err := session.NewFiles(cfg.SessionDir, cfg.SessionID)
	if err != nil {
		logger.Warn("session storage unavailable, favorites will not persist", "dir", cfg.SessionDir, "error", err)
		return session.NewMemory()
	}
	logger.Debug("session storage", "dir", files.Dir())
	return files
}

// newLogger builds the file logger. The TUI owns the terminal, so logs never
// go to stdout or stderr.
func newLogger(cfg config.Config) (hclog.Logger, func(), error) {
	level := hclog.LevelFromString(cfg.LogLevel)
	if cfg.LogFile == "" || level == hclog.Off {
		return hclog.NewNullLogger(), func() {}, nil
	}
	if level == hclog.NoLevel {
		level = hclog.Info
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "lunchbox",
		Output: file,
		Level:  level,
	})
	return logger, func() { _ = file.Close() }, nil
}
