package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/pkg/dashboard"
	"github.com/zwdscn-cloud/JFreports/pkg/storage"
	"github.com/zwdscn-cloud/JFreports/pkg/workspace"
)

// docsCommand moves dashboards between local files and the configured
// document store.
func (c *CLI) docsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage dashboards in the document store",
	}

	cmd.AddCommand(c.docsListCommand())
	cmd.AddCommand(c.docsPushCommand())
	cmd.AddCommand(c.docsPullCommand())
	cmd.AddCommand(c.docsRemoveCommand())

	return cmd
}

// withStore runs fn against the configured document store.
func (c *CLI) withStore(cmd *cobra.Command, fn func(storage.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := c.openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *CLI) docsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored dashboards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store storage.Store) error {
				list, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No dashboards stored")
					return nil
				}
				rows := make([][]string, len(list))
				for i, info := range list {
					rows[i] = []string{info.Name, strconv.Itoa(info.Elements), formatSize(info.Size), formatRelativeTime(info.UpdatedAt)}
				}
				fmt.Fprintln(c.out, renderTable([]string{"Name", "Elements", "Size", "Updated"}, rows))
				return nil
			})
		},
	}
}

func (c *CLI) docsPushCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "push [file]",
		Short: "Upload a dashboard file to the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := workspace.ReadDocument(args[0])
			if err != nil {
				return err
			}
			doc.Elements = dashboard.Normalize(doc.Elements)
			if err := dashboard.Validate(doc.Elements); err != nil {
				return err
			}
			if name == "" {
				name = documentName(args[0])
			}
			return c.withStore(cmd, func(store storage.Store) error {
				if err := store.Put(cmd.Context(), name, doc); err != nil {
					return err
				}
				printSuccess("Pushed %s as %s", args[0], StyleHighlight.Render(name))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "stored name (default: file name without extension)")
	return cmd
}

func (c *CLI) docsPullCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pull [name]",
		Short: "Download a stored dashboard to a file",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.completeDocumentNames(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = args[0] + ".json"
			}
			return c.withStore(cmd, func(store storage.Store) error {
				doc, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := writeDocument(output, doc); err != nil {
					return err
				}
				printSuccess("Pulled %s", StyleHighlight.Render(args[0]))
				printFile(output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json, .yaml for YAML)")
	return cmd
}

func (c *CLI) docsRemoveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm [name...]",
		Aliases: []string{"delete"},
		Short:   "Delete stored dashboards",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(store storage.Store) error {
				for _, name := range args {
					if err := store.Delete(cmd.Context(), name); err != nil {
						return err
					}
					printSuccess("Deleted %s", name)
				}
				return nil
			})
		},
	}
	cmd.ValidArgsFunction = c.completeDocumentNames
	return cmd
}

// documentName derives a store name from a file path.
func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeDocument saves doc as JSON, or YAML for .yaml and .yml paths.
func writeDocument(path string, doc dashboard.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = dashboard.EncodeYAML(f, doc)
	default:
		err = dashboard.Encode(f, doc)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
