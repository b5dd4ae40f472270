package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultListLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over merged publications",
	Long: `Search titles, authors, venues and abstracts in the query cache.
Results are ordered by citation count.

Examples:
  pubmerge search "graph neural"
  pubmerge search rossi --limit 5 --human`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	db := mustOpenDatabase(root)
	defer db.Close()

	pubs, err := db.Search(args[0], searchLimit)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	// Empty result is not an error
	if pubs == nil {
		pubs = []publication.Publication{}
	}

	if humanOutput {
		if len(pubs) == 0 {
			fmt.Println("No publications found")
			return nil
		}
		fmt.Printf("Found %d publications:\n\n", len(pubs))
		for i, p := range pubs {
			printPublicationSummary(i+1, p, SearchTitleMaxLen)
		}
	} else {
		outputJSON(pubs)
	}
	return nil
}
