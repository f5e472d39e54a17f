package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"white/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the clean-file cache",
	Long:  "Forget which files are already formatted, so the next fmt run checks every file again.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cache, err := driver.OpenDiskCache("white")
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	return cleanCache(cmd.OutOrStdout(), cache, quiet)
}

func cleanCache(w io.Writer, cache *driver.DiskCache, quiet bool) error {
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove %q: %w", cache.Dir(), err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(w, "removed %s\n", cache.Dir())
	}
	return nil
}
