package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/aggregate"
	"github.com/scholarly-tools/pubmerge/internal/collect"
	"github.com/scholarly-tools/pubmerge/internal/config"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

func init() {
	rootCmd.AddCommand(dedupeCmd)
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <source>",
	Short: "Report duplicate records within one source export",
	Long: `Show the records of one source export that describe the same work.

Records are duplicates when they share a DOI, or when their titles are
similar and their DOIs do not conflict. aggregate collapses these groups
before matching; this command only reports them.

Example:
  pubmerge dedupe scholar --human`,
	Args: cobra.ExactArgs(1),
	RunE: runDedupe,
}

// DedupeResult is the response for the dedupe command.
type DedupeResult struct {
	Source     publication.Source         `json:"source"`
	Records    int                        `json:"records"`
	Unique     int                        `json:"unique"`
	Groups     []aggregate.DuplicateGroup `json:"groups"`
	Duplicates int                        `json:"duplicates"`
}

func runDedupe(cmd *cobra.Command, args []string) error {
	source, err := publication.ParseSource(args[0])
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	root := mustFindProject()
	cfg := mustLoadConfig(root)
	logger := newLogger(cfg)

	var file *collect.SourceFile
	for _, s := range cfg.Sources {
		if s.Name == string(source) {
			file = &collect.SourceFile{Source: source, Path: config.SourcePath(root, s)}
			break
		}
	}
	if file == nil {
		exitWithError(ExitConfigError, "source %s is not configured", source)
	}

	loaded, errs := collect.Load(cmd.Context(), []collect.SourceFile{*file}, logger)
	if len(errs) > 0 {
		exitWithError(ExitDataError, "%v", errs[0])
	}
	records := loaded[source]

	unique, groups := aggregate.Dedupe(records, cfg.Matcher())
	result := DedupeResult{
		Source:  source,
		Records: len(records),
		Unique:  len(unique),
		Groups:  groups,
	}
	if result.Groups == nil {
		result.Groups = []aggregate.DuplicateGroup{}
	}
	for _, g := range groups {
		result.Duplicates += len(g.Dropped)
	}

	if humanOutput {
		if len(groups) == 0 {
			fmt.Printf("No duplicates among %d %s records\n", result.Records, source)
			return nil
		}
		fmt.Printf("%d duplicate groups among %d %s records:\n\n", len(groups), result.Records, source)
		for i, g := range groups {
			fmt.Printf("[%d] by %s: %s\n", i+1, g.Reason, truncateString(g.Kept.Title, SearchTitleMaxLen))
			fmt.Printf("    kept    %s\n", describeRecord(g.Kept))
			for _, d := range g.Dropped {
				fmt.Printf("    dropped %s\n", describeRecord(d))
			}
			fmt.Println()
		}
	} else {
		outputJSON(result)
	}
	return nil
}

func describeRecord(r publication.SourceRecord) string {
	s := r.SourceID
	if s == "" {
		s = "(no id)"
	}
	if r.DOI != "" {
		s += " doi:" + r.DOI
	}
	return s + " (" + formatYear(r.Published.Year) + ")"
}
