package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/publication"
	"github.com/scholarly-tools/pubmerge/internal/storage"
)

var (
	listLimit int
	listSort  string
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", DefaultListLimit, "Maximum publications to return")
	listCmd.Flags().StringVar(&listSort, "sort", storage.SortCitations, fmt.Sprintf("Sort order %v", storage.ValidSortOrders))
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List merged publications",
	Long: `List merged publications from the query cache.

Examples:
  pubmerge list --human
  pubmerge list --sort year --limit 10`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	if !slices.Contains(storage.ValidSortOrders, listSort) {
		exitWithError(ExitError, "invalid --sort %q (valid: %v)", listSort, storage.ValidSortOrders)
	}

	root := mustFindProject()
	db := mustOpenDatabase(root)
	defer db.Close()

	pubs, err := db.ListTop(listLimit, listSort)
	if err != nil {
		exitWithError(ExitError, "listing publications: %v", err)
	}
	if pubs == nil {
		pubs = []publication.Publication{}
	}

	if humanOutput {
		if len(pubs) == 0 {
			fmt.Println("No publications (run 'pubmerge aggregate' or 'pubmerge rebuild')")
			return nil
		}
		for i, p := range pubs {
			printPublicationSummary(i+1, p, ListTitleMaxLen)
		}
	} else {
		outputJSON(pubs)
	}
	return nil
}
