package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/prefs"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
	"github.com/zwdscn-cloud/JFreports/pkg/workspace"
)

// isDark reports whether a theme id names a dark theme.
func isDark(theme string) bool {
	return strings.Contains(strings.ToLower(theme), "dark")
}

// =============================================================================
// new
// =============================================================================

type newOpts struct {
	resolution string
	width      float64
	height     float64
	background string
	theme      string
	force      bool
}

// newCommand creates an empty dashboard. Unset canvas flags fall back to
// the stored canvas preferences.
func (c *CLI) newCommand() *cobra.Command {
	var opts newOpts
	cmd := &cobra.Command{
		Use:   "new [file]",
		Short: "Create an empty dashboard document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.resolution, "resolution", "r", "", "resolution preset, e.g. 1920x1080")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas background color (#rrggbb)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "theme id")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) runNew(ctx context.Context, path string, opts newOpts) error {
	if !opts.force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store := c.openPrefs(ctx, cfg)
	defer store.Close()

	dark := isDark(opts.theme)
	canvas, err := prefs.LoadCanvas(ctx, store, dark)
	if err != nil {
		c.Logger.Warn("failed to load canvas preferences, using defaults", "error", err)
	}

	st := cfg.Canvas
	st.Width, st.Height = canvas.Resolution.Width, canvas.Resolution.Height
	st.BackgroundColor = canvas.Background
	if opts.resolution != "" {
		r, ok := prefs.Resolve(opts.resolution)
		if !ok {
			return errors.New(errors.ErrCodeInvalidResolution, "unknown resolution %q", opts.resolution)
		}
		st.Width, st.Height = r.Width, r.Height
	}
	if opts.width > 0 {
		st.Width = opts.width
	}
	if opts.height > 0 {
		st.Height = opts.height
	}
	if opts.background != "" {
		st.BackgroundColor = opts.background
	}
	if err := st.Validate(); err != nil {
		return err
	}

	s := c.newSession(cfg, surface.ModeEdit, workspace.WithTheme(opts.theme))
	defer s.Close()
	if err := s.ApplySettings(st); err != nil {
		return err
	}
	if err := s.SaveFile(path); err != nil {
		return err
	}

	printSuccess("Created %s", path)
	printStats(0, 0, st.Width, st.Height, opts.theme)
	printNextStep("Edit it", "jfreports edit "+path)
	return nil
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check dashboard documents for format and element errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if !validateFile(path) {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents invalid", failed, len(args))
			}
			return nil
		},
	}
}

// validateFile prints the result for one document and reports whether it
// passed.
func validateFile(path string) bool {
	doc, err := workspace.ReadDocument(path)
	if err != nil {
		printError("%s: %s", path, errors.UserMessage(err))
		return false
	}

	var problems []string
	if err := dashboard.Validate(doc.Elements); err != nil {
		problems = append(problems, errors.Details(err)...)
	}
	var width, height float64 = surface.DefaultWidth, surface.DefaultHeight
	if cs := doc.CanvasSettings; cs != nil {
		st := surface.Settings{Width: cs.Width, Height: cs.Height, BackgroundColor: cs.BackgroundColor}
		if st.BackgroundColor == "" {
			st.BackgroundColor = surface.DefaultBackground
		}
		if err := st.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
		width, height = cs.Width, cs.Height
	}

	if len(problems) > 0 {
		printError("%s: %d problems", path, len(problems))
		for _, p := range problems {
			printDetail("%s", p)
		}
		return false
	}

	locked := 0
	for _, el := range doc.Elements {
		if el.PositionLocked {
			locked++
		}
	}
	printSuccess("%s", path)
	printStats(len(doc.Elements), locked, width, height, doc.ActiveTheme)
	if !dashboard.RanksConsistent(doc.Elements) {
		printWarning("zIndex values disagree with element order; list order wins")
	}
	return true
}

// =============================================================================
// render
// =============================================================================

// Output formats.
const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

var validFormats = map[string]bool{formatSVG: true, formatPNG: true, formatPDF: true}

type renderOpts struct {
	output  string
	formats []string
	zoom    float64
	scale   float64
	grid    bool
	margins bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var formats string
	opts := renderOpts{scale: 2}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a dashboard to SVG, PNG or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formats)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, pdf (comma-separated)")
	cmd.Flags().Float64Var(&opts.zoom, "zoom", 0, "size the SVG at this zoom percentage")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel scale")
	cmd.Flags().BoolVar(&opts.grid, "grid", false, "draw the canvas grid")
	cmd.Flags().BoolVar(&opts.margins, "margins", false, "draw the canvas margins")
	return cmd
}

// parseFormats parses the --format flag. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeUnsupported, "invalid format: %s (must be 'svg', 'png', or 'pdf')", f)
		}
	}
	return nil
}

// outputPath picks the file for one format. A single format writes to
// output as given; multiple formats treat output as a base path.
func outputPath(output, input, format string, multiple bool) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}
	if !multiple {
		return output
	}
	if validFormats[strings.TrimPrefix(filepath.Ext(output), ".")] {
		output = strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.openDocument(cfg, input, surface.ModeView)
	if err != nil {
		return err
	}
	defer s.Close()
	s.SetGrid(opts.grid, s.Surface().Settings().GridSize)
	s.SetMargins(opts.margins, s.Surface().Settings().MarginSize)

	scene := s.ExportScene()
	var svgOpts []surface.SVGOption
	if opts.zoom > 0 {
		scene.Zoom = surface.ClampZoom(opts.zoom, surface.ModeView)
		svgOpts = append(svgOpts, surface.WithZoomedSize())
	}
	if !opts.grid && !opts.margins {
		svgOpts = append(svgOpts, surface.WithExportOnly())
	}

	multiple := len(opts.formats) > 1
	for _, format := range opts.formats {
		var data []byte
		render := func() (err error) {
			data, err = renderFormat(scene, format, opts.scale, svgOpts)
			return err
		}
		if format == formatSVG {
			err = render()
		} else {
			err = withSpinner(ctx, fmt.Sprintf("Rasterizing %s...", strings.ToUpper(format)), render)
		}
		if err != nil {
			return err
		}
		if opts.output == "-" && !multiple {
			_, err := c.out.Write(data)
			return err
		}
		path := outputPath(opts.output, input, format, multiple)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %s (%d elements)", input, s.Collection().Len()))
	return nil
}

func renderFormat(scene surface.Scene, format string, scale float64, opts []surface.SVGOption) ([]byte, error) {
	switch format {
	case formatPNG:
		return surface.RenderPNG(scene, scale, opts...)
	case formatPDF:
		return surface.RenderPDF(scene, opts...)
	}
	return surface.RenderSVG(scene, opts...), nil
}
