package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/galleria/config"
)

var removeCmd = &cobra.Command{
	Use:   "remove [flags] <id1> [id2] ...",
	Short: "Remove images from the gallery",
	Long: `Delete stored images by content id.

Ids are sanitized exactly like ids submitted from the gallery page, so
nothing outside the store directory can be named. Unknown ids are skipped.

Examples:
  # Remove one image
  galleria remove 3f2504e0-4f89-11d3-9a0c-0305e82c3301

  # Remove quietly
  galleria remove -q <id> <id>`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

var removeQuiet bool

func init() {
	removeCmd.Flags().BoolVarP(&removeQuiet, "quiet", "q", false, "suppress summary output")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	service, closeStore, err := openGallery(cfg, false)
	if err != nil {
		return err
	}
	defer closeStore()

	deleted, err := service.Delete(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}

	if !removeQuiet {
		slog.Info("remove complete", "deleted", deleted, "not_found", len(args)-deleted)
	}
	return nil
}
