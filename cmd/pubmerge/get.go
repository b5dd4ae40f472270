package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <doi>",
	Short: "Show the merged publication with a DOI",
	Long: `Look up a merged publication by DOI. The DOI is normalized first, so
"https://doi.org/10.1000/ABC" and "10.1000/abc" find the same publication.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	db := mustOpenDatabase(root)
	defer db.Close()

	pub, err := db.GetByDOI(args[0])
	if err != nil {
		exitWithError(ExitError, "looking up %s: %v", args[0], err)
	}
	if pub == nil {
		exitWithError(ExitError, "no publication with DOI %s", args[0])
	}

	if !humanOutput {
		outputJSON(pub)
		return nil
	}

	printPublicationSummary(1, *pub, 1<<10)
	for _, s := range sortedSources(pub.SourceIDs) {
		line := fmt.Sprintf("  %-16s id %s", s, pub.SourceIDs[s])
		if c := pub.Citations[s]; c != nil {
			line += fmt.Sprintf(", %d citations", *c)
		}
		if u := pub.SourceURLs[s]; u != "" {
			line += ", " + u
		}
		fmt.Println(line)
	}
	return nil
}
