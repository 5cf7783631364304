package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gangsheet/pkg/cache"
)

// cacheCommand groups the local cache maintenance subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local plan and artifact cache",
		Long: `Plans and rendered documents are cached per artwork hash and job options.
These subcommands only manage the file backend; a Redis cache expires on its
own.`,
	}
	cmd.AddCommand(c.cacheInfoCommand(), c.cacheClearCommand(), c.cachePathCommand())
	return cmd
}

// localCache opens the file cache, or returns nil with a warning when another
// backend is configured.
func (c *CLI) localCache(cmd *cobra.Command) (*cache.FileCache, error) {
	cfg := c.config().Cache
	if cfg.Backend != CacheFile {
		printWarning(cmd.OutOrStdout(), "Cache backend %q is not managed locally", cfg.Backend)
		return nil, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return fc, nil
}

func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show how many entries the cache holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.localCache(cmd)
			if fc == nil || err != nil {
				return err
			}
			st, err := fc.Stats()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, keyValue("Directory", fc.Dir()))
			fmt.Fprintln(w, keyValue("Entries", fmt.Sprint(st.Entries)))
			fmt.Fprintln(w, keyValue("Expired", fmt.Sprint(st.Expired)))
			fmt.Fprintln(w, keyValue("Size", formatBytes(st.Bytes)))
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached plans and outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.localCache(cmd)
			if fc == nil || err != nil {
				return err
			}
			remove, what := fc.Clear, "cached"
			if expired {
				remove, what = fc.Prune, "expired"
			}
			n, err := remove()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo(cmd.OutOrStdout(), "Nothing to remove")
				return nil
			}
			printSuccess(cmd.OutOrStdout(), "Removed %s", plural(n, what+" entry", what+" entries"))
			printDetail(cmd.OutOrStdout(), "Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(c.config().Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// formatBytes renders n with a binary unit, e.g. "1.5 MiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
