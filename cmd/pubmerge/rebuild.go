package main

import (
	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query cache from publications.jsonl",
	Long: `Rebuild the SQLite query database from .pubmerge/publications.jsonl.

Use this after pulling changes from git or if the database becomes corrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status       string `json:"status"`
	Publications int    `json:"publications"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	root := mustFindProject()

	db := mustOpenDatabase(root)
	defer db.Close()

	count, err := db.RebuildFromJSONL(config.PublicationsPath(root))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		outputHuman("Rebuilt database with %d publications\n", count)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Publications: count})
	}
	return nil
}
