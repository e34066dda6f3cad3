package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/galleria/config"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove temp files left by interrupted uploads",
	Long: `Delete temp files that an interrupted upload left in the store directory.

Uploads are written to a hidden temp file and renamed into place. A crash
between the two steps leaves the temp file behind; it never shows up in the
gallery but still takes space. Only temp files older than --older-than are
removed, so uploads in progress are not disturbed.`,
	RunE: runCleanup,
}

var cleanupOlderThan time.Duration

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupOlderThan, "older-than", time.Hour, "minimum age of temp files to remove")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer closeStore()

	slog.Info("starting cleanup", "path", cfg.Store.Path, "older_than", cleanupOlderThan)

	removed, err := store.RemoveStaleTemp(cmd.Context(), cleanupOlderThan)
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	slog.Info("cleanup complete", "files_removed", removed)
	return nil
}
