package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/brainrush/internal/achievements"
	"github.com/abhisek/brainrush/internal/app"
	"github.com/abhisek/brainrush/internal/config"
	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/logging"
	"github.com/abhisek/brainrush/internal/screens/play"
	"github.com/abhisek/brainrush/internal/store"
	"github.com/abhisek/brainrush/internal/submit"
)

// env holds everything a command needs once configuration is resolved.
type env struct {
	cfg     config.Config
	logger  zerolog.Logger
	store   *store.Store
	catalog *games.Catalog

	// achievements is set when the store is open.
	achievements *achievements.Service

	closers []func() error
}

type envOptions struct {
	// logFile sends logs to the configured file instead of stderr. The
	// TUI needs this since it owns the terminal.
	logFile   bool
	openStore bool
}

// newEnv resolves configuration, then builds the logger, the game catalog
// and optionally the history store.
func newEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	e := &env{cfg: cfg}

	logOpts := logging.Options{Level: cfg.LogLevel, Console: os.Stderr}
	if opts.logFile {
		if err := config.EnsureDir(cfg.LogFile); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		logOpts = logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, closeLog)

	e.catalog = games.NewCatalog(games.WithLogger(logger))
	if n, err := e.catalog.LoadFromDir(cfg.GamesDir); err != nil {
		e.Close()
		return nil, fmt.Errorf("load custom games: %w", err)
	} else if n > 0 {
		logger.Info().Int("games", n).Str("dir", cfg.GamesDir).Msg("loaded custom games")
	}

	if opts.openStore {
		st, err := store.OpenPath(cfg.DBPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.store = st
		e.closers = append(e.closers, st.Close)
		e.achievements = achievements.NewService(st, e.catalog.List())
	}
	return e, nil
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
	e.closers = nil
}

// submitter builds the score submission chain: HTTP client, recording of
// every attempt into the store, and retries. Without a server every
// score stays local.
func (e *env) submitter() submit.Submitter {
	if e.cfg.Offline() {
		return submit.Offline{}
	}

	opts := []submit.Option{
		submit.WithTimeout(e.cfg.Timeout),
		submit.WithLogger(e.logger),
	}
	for k, v := range e.cfg.Headers {
		opts = append(opts, submit.WithHeader(k, v))
	}
	var s submit.Submitter = submit.NewClient(e.cfg.ServerURL, opts...)
	if e.store != nil {
		s = submit.WithRecorder(s, e.store, e.logger)
	}

	retry := submit.DefaultRetryConfig()
	retry.MaxAttempts = e.cfg.RetryAttempts
	return submit.WithRetry(s, retry)
}

// runApp opens the store, builds dependencies, and launches the TUI. A
// non-empty game starts that game right away.
func runApp(cmd *cobra.Command, game string) error {
	e, err := newEnv(cmd, envOptions{logFile: true, openStore: true})
	if err != nil {
		return err
	}
	defer e.Close()

	if game != "" {
		if _, err := e.catalog.Get(game); err != nil {
			return err
		}
	}

	e.logger.Info().
		Bool("online", !e.cfg.Offline()).
		Str("db", e.cfg.DBPath).
		Msg("starting brainrush")

	return app.Run(app.Options{
		Deps: play.Deps{
			Catalog:   e.catalog,
			Submitter: e.submitter(),
			Store:     e.store,
			Logger:    e.logger,
			Seed:      e.cfg.Seed,

			Achievements: e.achievements,
		},
		DefaultGame: e.cfg.DefaultGame,
		StartGame:   game,
		Online:      !e.cfg.Offline(),
	})
}
