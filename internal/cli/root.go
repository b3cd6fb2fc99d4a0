// Package cli wires the storefront core into a cobra command tree. It is
// presentation glue: every command assembles the core components, runs one
// operation, and renders the result. No cart, filter, or trace logic lives
// here.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/vitrine/internal/config"
	"github.com/roach88/vitrine/internal/session"
	"github.com/roach88/vitrine/internal/store"
	"github.com/roach88/vitrine/internal/trace"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Trace    bool   // record and print the query trace
	DataDir  string // overrides VITRINE_DATA_DIR
	Database string // overrides VITRINE_DB
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the vitrine CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "vitrine",
		Short:         "Vitrine - a storefront with a legible query trace",
		Long:          "A storefront client that shows, for every action, the query it issues against the store of record.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.Trace, "trace", false, "print the query trace after the command")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "profile directory (default from VITRINE_DATA_DIR)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "database path (default from VITRINE_DB)")

	// Add subcommands
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// App bundles the opened core components for one command invocation.
type App struct {
	Config   config.Config
	Store    *store.Store
	Sessions *session.Store
	Trace    *trace.Log
	Logger   *slog.Logger
}

// openApp loads configuration, applies flag overrides, and opens the
// store, session store, and trace log. The trace log is enabled when
// --trace was given. Callers must Close the returned App.
func openApp(opts *RootOptions) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load configuration", err)
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "vitrine.db")
	}
	if opts.Database != "" {
		cfg.DatabasePath = opts.Database
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	sessions, err := session.Open(cfg.DataDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open profile", err)
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "open store", err)
	}

	log := trace.New()
	if opts.Trace {
		log.Enable()
	}

	return &App{
		Config:   cfg,
		Store:    st,
		Sessions: sessions,
		Trace:    log,
		Logger:   cfg.Logger(),
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}

// printTrace renders the recorded query log, placeholders resolved, after
// a command's own output. No-op unless --trace enabled capture.
func printTrace(w io.Writer, log *trace.Log) {
	hist := log.History()
	if len(hist) == 0 {
		return
	}

	fmt.Fprintln(w, "\n-- query trace --")
	for _, e := range hist {
		fmt.Fprintf(w, "[%s] %s\n%s\n\n", e.Timestamp.Format("15:04:05.000"), e.Action, e.FormattedQuery())
	}
}
