package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gangsheet/pkg/pipeline"
)

// artworkExtensions are offered when completing the artwork argument.
var artworkExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp", "pdf"}

// completionCommand prints a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for your shell. Preset names and output
formats complete from the active configuration.

  $ source <(gangsheet completion bash)
  $ gangsheet completion zsh > "${fpath[1]}/_gangsheet"
  $ gangsheet completion fish > ~/.config/fish/completions/gangsheet.fish
  PS> gangsheet completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// registerJobCompletions completes the artwork argument and --preset for
// commands that take job flags.
func (c *CLI) registerJobCompletions(cmd *cobra.Command) {
	cmd.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return artworkExtensions, cobra.ShellCompDirectiveFilterFileExt
	}
	_ = cmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return c.presetCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// registerFormatCompletion completes the comma-separated --format list.
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return formatCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	})
}

// presetCompletions returns "name\tdescription" pairs. Completion runs without
// the root pre-run, so the config is loaded here and defaults stand in when
// it cannot be read.
func (c *CLI) presetCompletions(prefix string) []string {
	cfg := c.Config
	if cfg == nil {
		var err error
		if cfg, err = LoadConfig(c.configFile, nil); err != nil {
			cfg = DefaultConfig()
		}
	}
	presets, err := cfg.Presets()
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range presets.Sorted() {
		if strings.HasPrefix(p.Name, prefix) {
			out = append(out, fmt.Sprintf("%s\t%g x %g in", p.Name, p.Width, p.Height))
		}
	}
	return out
}

// formatCompletions extends the last element of a comma-separated list with
// the formats not already listed.
func formatCompletions(toComplete string) []string {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	used := strings.Split(strings.TrimSuffix(done, ","), ",")

	var out []string
	for _, f := range []string{pipeline.FormatPDF, pipeline.FormatPNG, pipeline.FormatSVG, pipeline.FormatJSON} {
		if strings.HasPrefix(f, last) && !slices.Contains(used, f) {
			out = append(out, done+f)
		}
	}
	return out
}
