package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/swimtrack/swimtrack/internal/config"
	"github.com/swimtrack/swimtrack/internal/mcp"
	"github.com/swimtrack/swimtrack/internal/session"
	"github.com/swimtrack/swimtrack/internal/storage"
)

// app is the state shared by subcommands for one invocation.
type app struct {
	cfg    *config.Config
	sess   *session.Session
	cache  *storage.DB
	source *mcp.CachedSource
	log    *slog.Logger
	// changed marks a login or logout that close must persist.
	changed bool
}

var (
	configPath string
	apiURL     string
	cachePath  string
	verbose    bool

	state *app
)

var rootCmd = &cobra.Command{
	Use:   "swimtrack",
	Short: "Swim training planner client",
	Long: `swimtrack talks to the SwimTrack Remote Data Service from the terminal.

QUICK START:

  $ swimtrack login ana@example.com        # Password from SWIMTRACK_PASSWORD or prompt flag
  $ swimtrack trains list                  # Your trainings with meter totals
  $ swimtrack trains show 12               # One training, block by block
  $ swimtrack community --title técnica    # Shared trainings
  $ swimtrack series summarize plan.json   # Total a description offline

The session cookie and every training fetched are kept in a local SQLite
cache, so listings keep working when the API is unreachable (--offline
reads the cache only).

MCP INTEGRATION:

  Run 'swimtrack mcp' to serve the SwimTrack tools over stdio.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsSession(cmd) {
			return nil
		}
		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		state = a
		return nil
	},
}

// execute runs the command line and releases the session state even when
// the command failed.
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if state != nil {
		err = errors.Join(err, state.close(context.WithoutCancel(ctx)))
		state = nil
	}
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "swimtrack", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (defaults to SWIMTRACK_* env)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Remote Data Service base URL")
	rootCmd.PersistentFlags().StringVar(&cachePath, "cache", "", "local cache database path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
}

// needsSession reports whether cmd talks to the API or the cache.
func needsSession(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "version", "summarize", "completion":
		return false
	}
	return true
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path := cachePath
	if path == "" {
		path = cfg.Cache.Path
	}
	if path == "" {
		path, err = defaultCachePath()
		if err != nil {
			return nil, err
		}
	}
	cache, err := storage.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	sess, err := session.New(cfg.API.BaseURL, cfg.API.Timeout, log)
	if err != nil {
		cache.Close()
		return nil, err
	}
	cookies, err := cache.LoadCookies(ctx, cfg.API.BaseURL)
	if err != nil {
		cache.Close()
		return nil, err
	}
	sess.SetCookies(cookies)
	if len(cookies) > 0 {
		switch err := sess.Init(ctx); {
		case err != nil:
			log.Warn("could not restore session", "error", err)
		case !sess.IsAuthenticated():
			log.Debug("stored session expired")
			if err := cache.ClearCookies(ctx, cfg.API.BaseURL); err != nil {
				log.Warn("clearing expired session", "error", err)
			}
		}
	}

	owner := 0
	if u := sess.User(); u != nil {
		owner = u.ID
	}
	return &app{
		cfg:    cfg,
		sess:   sess,
		cache:  cache,
		source: mcp.NewCachedSource(sess.Client(), cache, owner, log),
		log:    log,
	}, nil
}

// close persists a changed session and closes the cache.
func (a *app) close(ctx context.Context) error {
	defer a.cache.Close()
	if !a.changed {
		return nil
	}
	if a.sess.IsAuthenticated() {
		return a.cache.SaveCookies(ctx, a.cfg.API.BaseURL, a.sess.Cookies())
	}
	return a.cache.ClearCookies(ctx, a.cfg.API.BaseURL)
}

func defaultCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache dir: %w", err)
	}
	return filepath.Join(dir, "swimtrack", "cli.db"), nil
}
