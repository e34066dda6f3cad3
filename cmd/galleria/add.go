package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sagarc03/galleria"
	"github.com/sagarc03/galleria/config"
)

var addCmd = &cobra.Command{
	Use:   "add [flags] <file1> [file2] ...",
	Short: "Import image files into the gallery",
	Long: `Import local image files through the same pipeline as web uploads.

Each file is validated, re-encoded to PNG and stored under its content id.
Files the validator rejects are logged and skipped.

Examples:
  # Add a single file
  galleria add /path/to/photo.jpg

  # Add a directory recursively
  galleria add -r /path/to/holiday`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addRecursive bool
	addQuiet     bool
)

func init() {
	addCmd.Flags().BoolVarP(&addRecursive, "recursive", "r", false, "recursively add directories")
	addCmd.Flags().BoolVarP(&addQuiet, "quiet", "q", false, "suppress per-file output")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	service, closeStore, err := openGallery(cfg, true)
	if err != nil {
		return err
	}
	defer closeStore()

	// Collect files from all arguments
	var files []string
	for _, arg := range args {
		found, collectErr := collectFiles(arg, addRecursive)
		if collectErr != nil {
			return fmt.Errorf("collect files from %s: %w", arg, collectErr)
		}
		files = append(files, found...)
	}

	if len(files) == 0 {
		slog.Info("no files to add")
		return nil
	}

	added, replaced, rejected := 0, 0, 0

	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", path, readErr)
		}

		result, ingestErr := service.Ingest(ctx, filepath.Base(path), data)
		if ingestErr != nil {
			if reason, ok := galleria.RejectionReason(ingestErr); ok {
				rejected++
				slog.Warn("rejected", "file", path, "reason", reason)
				continue
			}
			return fmt.Errorf("add %s: %w", path, ingestErr)
		}

		if result.Replaced {
			replaced++
		} else {
			added++
		}
		if !addQuiet {
			slog.Info("added", "file", path, "id", result.ID, "format", result.Format, "replaced", result.Replaced)
		}
	}

	slog.Info("add complete", "added", added, "already_present", replaced, "rejected", rejected)
	return nil
}

// collectFiles gathers regular files from a path, optionally recursively.
func collectFiles(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	if !recursive {
		return nil, fmt.Errorf("%s is a directory (use -r to add recursively)", path)
	}

	var files []string
	walkErr := filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Type().IsRegular() {
			files = append(files, walkPath)
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return files, nil
}
