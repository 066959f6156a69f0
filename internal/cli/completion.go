package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zwdscn-cloud/JFreports/pkg/surface"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [" + strings.Join(completionShells, "|") + "]",
		Short: "Print a shell completion script",
		Long: `Print a completion script for jfreports. Besides commands and flags it
completes stored dashboard names for "docs pull" and "docs rm", and the
resolution presets for "prefs set-resolution".

  bash:        source <(jfreports completion bash)
  zsh:         jfreports completion zsh > "${fpath[1]}/_jfreports"
  fish:        jfreports completion fish > ~/.config/fish/completions/jfreports.fish
  powershell:  jfreports completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(w)
			default:
				return root.GenBashCompletionV2(w, true)
			}
		},
	}
}

// completeDocumentNames offers the names held by the configured document
// store. Connection failures complete nothing rather than printing errors
// into the shell.
func (c *CLI) completeDocumentNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	store, err := cfg.OpenStorage(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer store.Close()

	list, err := store.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	taken := make(map[string]bool, len(args))
	for _, a := range args {
		taken[a] = true
	}
	var names []string
	for _, info := range list {
		if !taken[info.Name] && strings.HasPrefix(info.Name, toComplete) {
			names = append(names, fmt.Sprintf("%s\t%d elements", info.Name, info.Elements))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeResolutions offers the presets in WxH form, described by label.
func completeResolutions(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, len(surface.Presets))
	for i, p := range surface.Presets {
		out[i] = fmt.Sprintf("%.0fx%.0f\t%s", p.Width, p.Height, p.Label)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
