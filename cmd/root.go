package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gridify/internal/config"
	"gridify/internal/db"
	"gridify/internal/logger"
	"gridify/internal/model"
	"gridify/internal/source"
	"gridify/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const cacheMaxAge = 10 * time.Minute

// ErrNotTerminal is returned when the grid is started without a terminal.
var ErrNotTerminal = errors.New("gridify needs an interactive terminal, use `gridify dump` to print records")

type rootFlags struct {
	configPath string
	apiURL     string
	theme      string
	logFile    string
	logLevel   string
	cacheDB    string
	refresh    bool
	noPin      bool
	noSearch   bool
	noSort     bool
}

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "gridify",
		Short:         "Browse a paginated JSON API as a table",
		Long:          "gridify fetches pages of JSON records from a REST endpoint and shows them in a scrollable table with column pinning, prefix search and sorting.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return ErrNotTerminal
			}
			return runGrid(cmd.Context(), cfg, flags.refresh)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to config file (default: ~/.gridify/config.yaml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "Endpoint returning a JSON array per ?page=N (or set GRIDIFY_API_URL)")
	pf.StringVar(&flags.logFile, "log-file", "", "Log file (default: ~/.gridify/gridify.log)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	pf.StringVar(&flags.cacheDB, "cache-db", "", "SQLite file caching fetched pages (disabled when empty)")
	pf.BoolVar(&flags.refresh, "refresh", false, "Drop cached pages of the endpoint before fetching")

	cmd.Flags().StringVar(&flags.theme, "theme", "", "Initial theme: light or dark")
	cmd.Flags().BoolVar(&flags.noPin, "no-pin", false, "Disable column pinning")
	cmd.Flags().BoolVar(&flags.noSearch, "no-search", false, "Disable column search")
	cmd.Flags().BoolVar(&flags.noSort, "no-sort", false, "Disable sorting")

	cmd.AddCommand(newDumpCmd(flags))
	cmd.AddCommand(newVersionCmd(version))

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and flags.
func resolveConfig(cmd *cobra.Command, flags *rootFlags) (config.Config, error) {
	// Load .env files first so env-based overrides see them.
	loadDotEnv(".env")
	loadDotEnv(".env.local")

	path := flags.configPath
	required := path != ""
	if path == "" {
		dir, err := config.Dir()
		if err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("api-url") {
		cfg.APIURL = flags.apiURL
	}
	if changed("theme") {
		cfg.Theme = strings.ToLower(strings.TrimSpace(flags.theme))
	}
	if changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if changed("log-level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(flags.logLevel))
	}
	if changed("cache-db") {
		cfg.CacheDB = flags.cacheDB
	}
	if flags.noPin {
		cfg.Pinnable = false
	}
	if flags.noSearch {
		cfg.Searchable = false
	}
	if flags.noSort {
		cfg.Sortable = false
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openLogger writes to the configured log file. The terminal belongs to the
// grid, so an unusable file means logs are dropped.
func openLogger(cfg config.Config) (*logger.Logger, func()) {
	path := cfg.LogFile
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			return logger.Discard(), func() {}
		}
		path = filepath.Join(dir, "gridify.log")
	}

	f, err := logger.OpenFile(path)
	if err != nil {
		return logger.Discard(), func() {}
	}
	log, err := logger.New(logger.Options{Level: cfg.LogLevel, HumanReadable: true, Writer: f})
	if err != nil {
		f.Close()
		return logger.Discard(), func() {}
	}
	return log, func() { f.Close() }
}

// newClient builds the page source, backed by the SQLite cache when one is
// configured. refresh drops the endpoint's cached pages first.
func newClient(ctx context.Context, cfg config.Config, log *logger.Logger, refresh bool) (*source.Client, func(), error) {
	opts := source.Options{
		Timeout:  cfg.RequestTimeout,
		RetryMax: cfg.RetryMax,
		Logger:   log,
	}
	closeFn := func() {}

	if cfg.CacheDB != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.CacheDB), 0o700); err != nil {
			return nil, closeFn, fmt.Errorf("failed to create cache directory: %w", err)
		}
		database, err := db.Open(cfg.CacheDB)
		if err != nil {
			return nil, closeFn, err
		}
		cache := db.NewPageCache(database, cacheMaxAge)
		if refresh {
			if err := cache.Clear(ctx, cfg.APIURL); err != nil {
				database.Close()
				return nil, closeFn, err
			}
			log.WithFields(map[string]any{"api_url": cfg.APIURL}).Info("page cache cleared")
		}
		opts.Cache = cache
		closeFn = func() { database.Close() }
	}

	client, err := source.NewClient(cfg.APIURL, opts)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	return client, closeFn, nil
}

func runGrid(ctx context.Context, cfg config.Config, refresh bool) error {
	log, closeLog := openLogger(cfg)
	defer closeLog()

	client, closeClient, err := newClient(ctx, cfg, log, refresh)
	if err != nil {
		return err
	}
	defer closeClient()

	theme := model.ParseTheme(cfg.Theme)
	factory := func() tea.Model {
		return ui.New(client, ui.Options{
			Title:      client.BaseURL(),
			Theme:      theme,
			Pinnable:   cfg.Pinnable,
			Searchable: cfg.Searchable,
			Sortable:   cfg.Sortable,
			Timeout:    cfg.RequestTimeout,
			Logger:     log,
		})
	}

	log.WithFields(map[string]any{"api_url": cfg.APIURL, "theme": cfg.Theme}).Info("starting grid")

	p := tea.NewProgram(ui.NewBoundary(factory, theme, log), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
