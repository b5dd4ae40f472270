package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/aggregate"
	"github.com/scholarly-tools/pubmerge/internal/collect"
	"github.com/scholarly-tools/pubmerge/internal/config"
	"github.com/scholarly-tools/pubmerge/internal/publication"
	"github.com/scholarly-tools/pubmerge/internal/storage"
)

var (
	aggregateDryRun  bool
	aggregateRebuild bool
)

func init() {
	aggregateCmd.Flags().BoolVar(&aggregateDryRun, "dry-run", false, "Report the result without writing files")
	aggregateCmd.Flags().BoolVar(&aggregateRebuild, "rebuild", true, "Rebuild the query cache after writing")
	rootCmd.AddCommand(aggregateCmd)
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Merge all source exports into the canonical publication list",
	Long: `Load every source export listed in .pubmerge/config.yml, link records that
describe the same work, and write the merged list and its metrics.

Sources are processed in config order. A record matches an existing
publication by DOI, or by title similarity when DOIs do not decide. Sources
whose export file is missing are skipped. A source that fails to load or
merge is reported and contributes nothing; the rest are still merged.

Writes .pubmerge/publications.jsonl and .pubmerge/metrics.json.`,
	Args: cobra.NoArgs,
	RunE: runAggregate,
}

// AggregateResult is the response for the aggregate command.
type AggregateResult struct {
	Status       string                       `json:"status"`
	Publications int                          `json:"publications"`
	Metrics      publication.AggregateMetrics `json:"metrics"`
	Passes       []aggregate.PassStats        `json:"passes"`
	Skipped      []string                     `json:"skipped,omitempty"`     // Sources with no export file
	LoadErrors   []string                     `json:"load_errors,omitempty"` // Sources whose export could not be read
}

func runAggregate(cmd *cobra.Command, args []string) error {
	root := mustFindProject()
	cfg := mustLoadConfig(root)
	logger := newLogger(cfg)

	resolver, err := cfg.Resolver()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	var (
		files   []collect.SourceFile
		skipped []string
	)
	for _, s := range cfg.Sources {
		path := config.SourcePath(root, s)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			logger.Warn().Str("source", s.Name).Str("path", path).Msg("export not found, skipping source")
			skipped = append(skipped, s.Name)
			continue
		}
		files = append(files, collect.SourceFile{Source: publication.Source(s.Name), Path: path})
	}

	records, loadErrs := collect.Load(cmd.Context(), files, logger)

	engine := &aggregate.Engine{
		Resolver: resolver,
		Matcher:  cfg.Matcher(),
		Logger:   logger,
	}
	res, err := engine.Aggregate(records, cfg.Order())
	if err != nil {
		exitWithError(ExitError, "aggregating: %v", err)
	}

	result := AggregateResult{
		Status:       "aggregated",
		Publications: len(res.Publications),
		Metrics:      res.Metrics,
		Passes:       res.Passes,
		Skipped:      skipped,
	}
	for _, e := range loadErrs {
		result.LoadErrors = append(result.LoadErrors, e.Error())
	}

	if aggregateDryRun {
		result.Status = "dry-run"
	} else {
		if err := storage.WriteAll(config.PublicationsPath(root), res.Publications); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if err := storage.WriteMetrics(config.MetricsPath(root), res.Metrics); err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		if aggregateRebuild {
			db := mustOpenDatabase(root)
			defer db.Close()
			if _, err := db.RebuildFromJSONL(config.PublicationsPath(root)); err != nil {
				exitWithError(ExitDataError, "rebuilding database: %v", err)
			}
		}
	}

	if humanOutput {
		printAggregateHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

func printAggregateHuman(r AggregateResult) {
	if r.Status == "dry-run" {
		fmt.Println("Dry run, nothing written.")
	}
	fmt.Printf("Merged %d publications\n\n", r.Publications)

	for _, p := range r.Passes {
		if p.Failed {
			fmt.Printf("  %-16s FAILED: %s\n", p.Source, p.Error)
			continue
		}
		fmt.Printf("  %-16s %d received, %d merged, %d new", p.Source, p.Received, p.Merged, p.Inserted)
		if p.Duplicates > 0 {
			fmt.Printf(", %d duplicates", p.Duplicates)
		}
		if p.Malformed > 0 {
			fmt.Printf(", %d malformed", p.Malformed)
		}
		fmt.Println()
	}
	for _, s := range r.Skipped {
		fmt.Printf("  %-16s skipped (no export)\n", s)
	}
	for _, e := range r.LoadErrors {
		fmt.Printf("  load error: %s\n", e)
	}

	fmt.Println()
	printMetricsHuman(r.Metrics)
}
