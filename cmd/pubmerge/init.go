package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a pubmerge project in the current directory",
	Long: `Create a .pubmerge/ directory with a default config.yml and a data/
directory for source exports.

The default config lists every supported source in precedence order, each
reading data/<source>.json. Edit .pubmerge/config.yml to change paths, the
source order, matching thresholds or merge policies.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsProject(root) {
		exitWithError(ExitError, "already a pubmerge project: %s", config.ProjectPath(root))
	}

	for _, dir := range []string{config.CachePath(root), filepath.Join(root, "data")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", dir, err)
		}
	}

	// The SQLite cache is rebuilt from publications.jsonl and never versioned
	gitignore := filepath.Join(config.ProjectPath(root), ".gitignore")
	if err := os.WriteFile(gitignore, []byte(config.CacheDir+"/\n"), 0644); err != nil {
		exitWithError(ExitError, "writing .gitignore: %v", err)
	}

	if err := config.Default().Save(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Initialized pubmerge project in %s\n", config.ProjectPath(root))
		outputHuman("Put source exports in %s and run 'pubmerge aggregate'\n", filepath.Join(root, "data"))
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: config.ProjectPath(root)})
	}
	return nil
}
