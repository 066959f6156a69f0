package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/internal/config"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/prefs"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

// prefsCommand manages the canvas preferences new dashboards start from.
func (c *CLI) prefsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Manage stored canvas preferences",
	}

	cmd.AddCommand(c.prefsGetCommand())
	cmd.AddCommand(c.prefsSetResolutionCommand())
	cmd.AddCommand(c.prefsSetBackgroundCommand())
	cmd.AddCommand(c.prefsPathCommand())

	return cmd
}

// withPrefs runs fn against the configured preference store. Unlike
// openPrefs, a store that cannot be opened is an error here.
func (c *CLI) withPrefs(ctx context.Context, fn func(prefs.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := cfg.OpenPrefs(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) prefsGetCommand() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the canvas preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPrefs(cmd.Context(), func(store prefs.Store) error {
				canvas, err := prefs.LoadCanvas(cmd.Context(), store, isDark(theme))
				if err != nil {
					return err
				}
				printKeyValue(c.out, "resolution", canvas.Resolution.Label)
				printKeyValue(c.out, "background", canvas.Background)
				printKeyValue(c.out, "customized", strconv.FormatBool(canvas.Customized))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "theme whose default background applies when none is customized")
	return cmd
}

func (c *CLI) prefsSetResolutionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-resolution [preset|WxH]",
		Short: "Store the default canvas resolution",
		Long:  "Store the default canvas resolution. Presets: " + presetNames() + ". Any WxH within the supported canvas bounds is accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseResolution(args[0])
			if err != nil {
				return err
			}
			return c.withPrefs(cmd.Context(), func(store prefs.Store) error {
				if err := prefs.SaveResolution(cmd.Context(), store, r); err != nil {
					return err
				}
				printSuccess("Resolution set to %s", StyleHighlight.Render(fmt.Sprintf("%.0f×%.0f", r.Width, r.Height)))
				return nil
			})
		},
	}
	cmd.ValidArgsFunction = completeResolutions
	return cmd
}

func (c *CLI) prefsSetBackgroundCommand() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "set-background [color]",
		Short: "Store an explicit canvas background",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !reset && len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "color required (or --reset)")
			}
			return c.withPrefs(cmd.Context(), func(store prefs.Store) error {
				if reset {
					if err := prefs.ResetBackground(cmd.Context(), store); err != nil {
						return err
					}
					printSuccess("Background follows the theme again")
					return nil
				}
				if err := prefs.SaveBackground(cmd.Context(), store, args[0]); err != nil {
					return err
				}
				printSuccess("Background set to %s", StyleHighlight.Render(args[0]))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "forget the explicit background")
	return cmd
}

func (c *CLI) prefsPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where preferences are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			switch cfg.Prefs.Backend {
			case config.BackendFile, "":
				store, err := prefs.NewFileStore(cfg.Prefs.Dir)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.out, store.Dir())
			case config.BackendRedis:
				fmt.Fprintf(c.out, "redis://%s (hash %s)\n", cfg.Prefs.RedisAddr, prefs.DefaultRedisKey)
			default:
				fmt.Fprintln(c.out, cfg.Prefs.Backend)
			}
			return nil
		},
	}
}

// parseResolution accepts a preset label or "WxH".
func parseResolution(s string) (surface.Resolution, error) {
	if r, ok := prefs.Resolve(s); ok {
		return r, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		wf, werr := strconv.ParseFloat(strings.TrimSpace(w), 64)
		hf, herr := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if werr == nil && herr == nil {
			if err := errors.ValidateResolution(wf, hf); err != nil {
				return surface.Resolution{}, err
			}
			return surface.Resolution{Width: wf, Height: hf}, nil
		}
	}
	return surface.Resolution{}, errors.New(errors.ErrCodeInvalidResolution, "invalid resolution %q (want a preset or WxH)", s)
}

func presetNames() string {
	names := make([]string, len(surface.Presets))
	for i, p := range surface.Presets {
		names[i] = fmt.Sprintf("%.0fx%.0f", p.Width, p.Height)
	}
	return strings.Join(names, ", ")
}
