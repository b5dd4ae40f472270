// Package main provides the pubmerge CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/config"
	"github.com/scholarly-tools/pubmerge/internal/logging"
	"github.com/scholarly-tools/pubmerge/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// LogLevelEnv overrides the configured log level.
const LogLevelEnv = "PUBMERGE_LOG_LEVEL"

func main() {
	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors hides cobra's own errors (bad flags, missing args)
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubmerge",
	Short: "Merge publication records from bibliographic sources",
	Long: `pubmerge links the publication lists exported by several bibliographic
sources (ORCID, Google Scholar, IRIS, Scopus, Web of Science, Crossref,
Semantic Scholar) into one canonical list and computes citation metrics.

Merged publications are stored as JSONL in .pubmerge/ with an ephemeral
SQLite cache for listing and search.
All commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}

// mustFindProject finds the project from the working directory, falling back
// to the global project_path. Exits on error.
func mustFindProject() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	root, err := config.FindProject(cwd)
	if err == nil {
		return root
	}

	root, gerr := config.DefaultProject()
	if gerr != nil {
		if errors.Is(gerr, config.ErrProjectPathNotConfigured) {
			exitWithError(ExitConfigError, "%v\n\nRun 'pubmerge init' or set project_path in %s", err, config.GlobalConfigPath())
		}
		exitWithError(ExitConfigError, "%v", gerr)
	}
	return root
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the SQLite cache, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(root string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// newLogger builds the command logger. The level comes from, in increasing
// precedence: project config, global config, PUBMERGE_LOG_LEVEL.
func newLogger(cfg *config.Config) zerolog.Logger {
	_ = godotenv.Load()

	lc := logging.DefaultConfig()
	if cfg != nil {
		lc = cfg.Logging
	}
	if level := config.GetLogLevel(); level != "" {
		lc.Level = level
	}
	if level := os.Getenv(LogLevelEnv); level != "" {
		lc.Level = level
	}
	return logging.New(lc)
}
