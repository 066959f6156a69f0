// Package cli implements the jfreports command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/internal/config"
	"github.com/zwdscn-cloud/JFreports/pkg/buildinfo"
	"github.com/zwdscn-cloud/JFreports/pkg/observability"
	"github.com/zwdscn-cloud/JFreports/pkg/prefs"
	"github.com/zwdscn-cloud/JFreports/pkg/storage"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
	"github.com/zwdscn-cloud/JFreports/pkg/widgets"
	"github.com/zwdscn-cloud/JFreports/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jfreports"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	out        io.Writer
	logOut     io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout, logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (rendered files written to stdout,
// listings, paths). It defaults to os.Stdout.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "JFreports lays out, snaps and renders dashboard canvases",
		Long:         `JFreports is a CLI for editing dashboard documents: free-form canvases of charts, text and media blocks with alignment guides, undo history and SVG/PNG/PDF export.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				installLogHooks(c.Logger)
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/jfreports/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.distributeCommand())
	root.AddCommand(c.alignCommand())
	root.AddCommand(c.reorderCommand())
	root.AddCommand(c.prefsCommand())
	root.AddCommand(c.docsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Backends
// =============================================================================

// loadConfig reads the --config file, or the default path when unset.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("config loaded", "path", c.configPath, "storage", cfg.Storage.Backend, "prefs", cfg.Prefs.Backend)
	return cfg, nil
}

// openStorage connects the configured document store behind a spinner.
func (c *CLI) openStorage(ctx context.Context, cfg config.Config) (storage.Store, error) {
	var store storage.Store
	err := withSpinner(ctx, fmt.Sprintf("Connecting to %s store...", backendName(cfg.Storage.Backend)), func() error {
		var err error
		store, err = cfg.OpenStorage(ctx)
		return err
	})
	return store, err
}

// openPrefs connects the configured preference store. A failure degrades to
// a store that remembers nothing, so commands still run on defaults.
func (c *CLI) openPrefs(ctx context.Context, cfg config.Config) prefs.Store {
	store, err := cfg.OpenPrefs(ctx)
	if err != nil {
		c.Logger.Warn("preferences unavailable, using defaults", "backend", cfg.Prefs.Backend, "error", err)
		return prefs.NullStore{}
	}
	return store
}

func backendName(b string) string {
	if b == "" {
		return config.BackendFile
	}
	return b
}

// newSession builds a workspace over the configured canvas, snap and
// history settings.
func (c *CLI) newSession(cfg config.Config, mode surface.Mode, opts ...workspace.Option) *workspace.Session {
	base := []workspace.Option{
		workspace.WithLogger(c.Logger),
		workspace.WithSnapOptions(cfg.Snap),
		workspace.WithHistory(cfg.HistoryOptions()...),
		workspace.WithRegistry(widgets.NewRegistry(surface.WithLogger(c.Logger))),
	}
	return workspace.New(cfg.Canvas, mode, append(base, opts...)...)
}

// openDocument loads path into a fresh session.
func (c *CLI) openDocument(cfg config.Config, path string, mode surface.Mode, opts ...workspace.Option) (*workspace.Session, error) {
	s := c.newSession(cfg, mode, opts...)
	if err := s.LoadFile(path); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// installLogHooks routes engine and storage events to the logger.
func installLogHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetInteractionHooks(h)
	observability.SetHistoryHooks(h)
	observability.SetStoreHooks(h)
}
