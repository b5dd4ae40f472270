package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/config"
	"github.com/scholarly-tools/pubmerge/internal/normalize"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show the configured source order and authority",
	Long: `List the configured sources in processing order with their export paths.

Earlier sources take precedence for most fields. The authority source
(crossref by default) overwrites authors whenever it supplies them.`,
	Args: cobra.NoArgs,
	RunE: runSources,
}

// SourceInfo describes one configured source.
type SourceInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
	Authority bool   `json:"authority,omitempty"`
}

// SourcesResult is the response for the sources command.
type SourcesResult struct {
	Authority string       `json:"authority"`
	Sources   []SourceInfo `json:"sources"`
	Supported []string     `json:"supported"`
}

func runSources(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)

	result := SourcesResult{Authority: cfg.Authority, Sources: []SourceInfo{}}
	for _, s := range cfg.Sources {
		path := config.SourcePath(root, s)
		_, err := os.Stat(path)
		result.Sources = append(result.Sources, SourceInfo{
			Name:      s.Name,
			Path:      path,
			Exists:    err == nil,
			Authority: s.Name == cfg.Authority,
		})
	}
	for _, s := range normalize.Sources() {
		result.Supported = append(result.Supported, string(s))
	}

	if humanOutput {
		fmt.Printf("Authority: %s\n\nProcessing order:\n", result.Authority)
		for i, s := range result.Sources {
			status := "ok"
			if !s.Exists {
				status = "missing"
			}
			fmt.Printf("  %d. %-16s %s (%s)\n", i+1, s.Name, s.Path, status)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
