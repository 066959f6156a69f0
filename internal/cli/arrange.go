package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/errors"
	"github.com/zwdscn-cloud/JFreports/pkg/snap"
	"github.com/zwdscn-cloud/JFreports/pkg/surface"
	"github.com/zwdscn-cloud/JFreports/pkg/workspace"
)

// arrangeOpts are the flags shared by the layout commands.
type arrangeOpts struct {
	ids    []string
	output string
	dryRun bool
}

func (o *arrangeOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&o.ids, "ids", nil, "element ids (comma-separated, default all elements)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "write the result here instead of updating the file")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "print new positions without writing")
}

// arrange opens path, runs fn on the session and writes the result.
func (c *CLI) arrange(ctx context.Context, path string, opts arrangeOpts, fn func(s *workspace.Session, ids []string) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s, err := c.openDocument(cfg, path, surface.ModeEdit)
	if err != nil {
		return err
	}
	defer s.Close()

	before := s.Collection().Elements()
	ids := opts.ids
	if len(ids) == 0 {
		for _, el := range before {
			ids = append(ids, el.ID)
		}
	}
	if err := fn(s, ids); err != nil {
		return err
	}

	moved := changedElements(before, s.Collection().Elements())
	if opts.dryRun || len(moved) == 0 {
		c.printMoves(moved)
		if len(moved) == 0 {
			printInfo("Nothing to change")
		}
		return nil
	}

	out := opts.output
	if out == "" {
		out = path
	}
	if err := s.SaveFile(out); err != nil {
		return err
	}
	printSuccess("Updated %d elements", len(moved))
	printFile(out)
	return nil
}

// changedElements returns the elements of after whose geometry or order
// differs from before.
func changedElements(before, after []dashboard.Element) []dashboard.Element {
	old := make(map[string]dashboard.Element, len(before))
	index := make(map[string]int, len(before))
	for i, el := range before {
		old[el.ID] = el
		index[el.ID] = i
	}
	var out []dashboard.Element
	for i, el := range after {
		prev, ok := old[el.ID]
		if !ok || prev.X != el.X || prev.Y != el.Y || index[el.ID] != i {
			out = append(out, el)
		}
	}
	return out
}

func (c *CLI) printMoves(elements []dashboard.Element) {
	if len(elements) == 0 {
		return
	}
	rows := make([][]string, len(elements))
	for i, el := range elements {
		rows[i] = []string{el.ID, el.Type, fmt.Sprintf("%.0f", el.X), fmt.Sprintf("%.0f", el.Y)}
	}
	fmt.Fprintln(c.out, renderTable([]string{"ID", "Type", "X", "Y"}, rows))
}

// =============================================================================
// Commands
// =============================================================================

func (c *CLI) distributeCommand() *cobra.Command {
	var opts arrangeOpts
	var direction string
	cmd := &cobra.Command{
		Use:   "distribute [file]",
		Short: "Space elements evenly between the outermost two",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := snap.Orientation(strings.ToLower(direction))
			if dir != snap.Horizontal && dir != snap.Vertical {
				return errors.New(errors.ErrCodeInvalidInput, "direction must be horizontal or vertical, got %q", direction)
			}
			return c.arrange(cmd.Context(), args[0], opts, func(s *workspace.Session, ids []string) error {
				if len(ids) < snap.MinDistribute {
					printWarning("distribute needs at least %d elements", snap.MinDistribute)
					return nil
				}
				_, err := s.Distribute(dir, ids...)
				return err
			})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&direction, "direction", "d", string(snap.Horizontal), "horizontal or vertical")
	return cmd
}

func (c *CLI) alignCommand() *cobra.Command {
	var opts arrangeOpts
	var edgeName string
	cmd := &cobra.Command{
		Use:   "align [file]",
		Short: "Align elements to one side or center of their bounding box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edge, ok := snap.ParseAlignEdge(strings.ToLower(edgeName))
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown edge %q (left, right, top, bottom, center-x, center-y)", edgeName)
			}
			return c.arrange(cmd.Context(), args[0], opts, func(s *workspace.Session, ids []string) error {
				_, err := s.Align(edge, ids...)
				return err
			})
		},
	}
	opts.register(cmd)
	cmd.Flags().StringVarP(&edgeName, "edge", "e", string(snap.AlignLeft), "left, right, top, bottom, center-x or center-y")
	return cmd
}

func (c *CLI) reorderCommand() *cobra.Command {
	var opts arrangeOpts
	cmd := &cobra.Command{
		Use:   "reorder [file] [id] [index|front|back]",
		Short: "Move an element in the paint order (index 0 is the front)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.arrange(cmd.Context(), args[0], opts, func(s *workspace.Session, _ []string) error {
				index, err := parseIndex(args[2], s.Collection().Len())
				if err != nil {
					return err
				}
				return s.Reorder(args[1], index)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result here instead of updating the file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print new positions without writing")
	return cmd
}

// parseIndex accepts a list index or the words front and back.
func parseIndex(s string, n int) (int, error) {
	switch strings.ToLower(s) {
	case "front":
		return 0, nil
	case "back":
		return max(0, n-1), nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "index must be a number, front or back, got %q", s)
	}
	return i, nil
}
