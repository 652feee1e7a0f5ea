package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the media cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show media cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			stats, err := newTranscoder(config).CacheStats()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if isTerminal(out) {
				rows := [][]string{
					{"Cache", config.CacheDir},
					{"Entries", fmt.Sprintf("%d", stats.Entries)},
					{"Size", humanize.Bytes(uint64(stats.SizeBytes))},
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			}
			fmt.Fprintf(out, "Cache:   %s\n", config.CacheDir)
			fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
			fmt.Fprintf(out, "Size:    %s\n", humanize.Bytes(uint64(stats.SizeBytes)))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			freed, err := newTranscoder(config).ClearCache()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Freed %s\n", humanize.Bytes(uint64(freed)))
			return nil
		},
	}
}
