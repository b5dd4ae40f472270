package main

import (
	"github.com/spf13/cobra"

	"github.com/scholarly-tools/pubmerge/internal/config"
	"github.com/scholarly-tools/pubmerge/internal/metrics"
	"github.com/scholarly-tools/pubmerge/internal/publication"
	"github.com/scholarly-tools/pubmerge/internal/storage"
)

var metricsStored bool

func init() {
	metricsCmd.Flags().BoolVar(&metricsStored, "stored", false, "Print metrics.json as written by the last aggregate")
	rootCmd.AddCommand(metricsCmd)
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show citation metrics for the merged publications",
	Long: `Recompute h-index, i10-index, citation totals and source coverage from
.pubmerge/publications.jsonl.

A publication's citation count is the highest count any source reports for it.`,
	Args: cobra.NoArgs,
	RunE: runMetrics,
}

func runMetrics(cmd *cobra.Command, args []string) error {
	root := mustFindProject()

	var m publication.AggregateMetrics
	if metricsStored {
		stored, err := storage.ReadMetrics(config.MetricsPath(root))
		if err != nil {
			exitWithError(ExitDataError, "%v\n\nRun 'pubmerge aggregate' first.", err)
		}
		m = *stored
	} else {
		pubs, err := storage.ReadAll(config.PublicationsPath(root))
		if err != nil {
			exitWithError(ExitDataError, "reading publications: %v", err)
		}
		ptrs := make([]*publication.Publication, len(pubs))
		for i := range pubs {
			ptrs[i] = &pubs[i]
		}
		m = metrics.Compute(ptrs)
	}

	if humanOutput {
		printMetricsHuman(m)
	} else {
		outputJSON(m)
	}
	return nil
}
