package main

import (
	"fmt"
	"strings"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"github.com/sagarc03/galleria"
	"github.com/sagarc03/galleria/config"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print gallery pages as a tree",
	Long: `Print the stored image ids grouped the way the gallery shows them:
pages of three rows of three.

Examples:
  # First page
  galleria list

  # A specific page
  galleria list --page 3

  # Every page
  galleria list --all`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listPage int
	listAll  bool
)

func init() {
	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page to print")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "print every page")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	service, closeStore, err := openGallery(cfg, false)
	if err != nil {
		return err
	}
	defer closeStore()

	ids, err := service.ListIDs(cmd.Context())
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}

	first, last := listPage, listPage
	if listAll {
		first, last = 1, galleria.TotalPages(len(ids))
	}

	tree := gotree.New(fmt.Sprintf("%s (%d images)", cfg.Store.Path, len(ids)))
	for n := first; n <= last; n++ {
		addPage(tree, galleria.Paginate(ids, n))
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), tree.Print())
	return err
}

// addPage adds one page node with a child per grid row.
func addPage(tree gotree.Tree, page galleria.Page) {
	node := tree.Add(fmt.Sprintf("page %d/%d", page.Number, page.TotalPages))

	for i, row := range page.Grid {
		var cells []string
		for _, id := range row {
			if id != "" {
				cells = append(cells, id)
			}
		}
		if len(cells) == 0 {
			continue
		}
		node.Add(fmt.Sprintf("row %d: %s", i+1, strings.Join(cells, "  ")))
	}
}
