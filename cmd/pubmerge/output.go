package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// Constants for output formatting.
const (
	DefaultListLimit = 50 // Default limit for list/search commands

	ListTitleMaxLen   = 60
	SearchTitleMaxLen = 70
	AuthorsMaxLen     = 70
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString shortens s to maxLen runes, ending with "..." when cut.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// formatYear renders an unknown year as "n.d.".
func formatYear(year int) string {
	if year == 0 {
		return "n.d."
	}
	return fmt.Sprintf("%d", year)
}

// formatSources lists the sources that reported a publication, in default order.
func formatSources(p publication.Publication) string {
	var names []string
	for _, s := range sortedSources(p.SourceIDs) {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// printPublicationSummary prints one numbered publication line block.
func printPublicationSummary(num int, p publication.Publication, titleLen int) {
	fmt.Printf("[%d] %s\n", num, truncateString(p.Title, titleLen))
	if p.Authors != "" {
		fmt.Printf("    %s\n", truncateString(p.Authors, AuthorsMaxLen))
	}
	if p.Venue != "" {
		fmt.Printf("    %s (%s)\n", p.Venue, formatYear(p.Published.Year))
	} else {
		fmt.Printf("    (%s)\n", formatYear(p.Published.Year))
	}
	if p.DOI != "" {
		fmt.Printf("    doi:%s\n", p.DOI)
	}
	fmt.Printf("    citations: %d  sources: %s\n", p.Metrics.TotalCitations, formatSources(p))
	fmt.Println()
}

// printMetricsHuman prints aggregate metrics followed by per-source indices.
func printMetricsHuman(m publication.AggregateMetrics) {
	fmt.Printf("Publications:    %d\n", m.TotalPublications)
	fmt.Printf("Total citations: %d\n", m.TotalCitations)
	fmt.Printf("h-index:         %d\n", m.HIndex)
	fmt.Printf("i10-index:       %d\n", m.I10Index)

	if len(m.Coverage) > 0 {
		fmt.Println("\nCoverage:")
		for _, s := range publication.DefaultOrder() {
			if n, ok := m.Coverage[s]; ok {
				fmt.Printf("  %-16s %d\n", s, n)
			}
		}
	}

	if len(m.Sources) > 0 {
		fmt.Println("\nPer source:")
		for _, s := range publication.DefaultOrder() {
			sm, ok := m.Sources[s]
			if !ok {
				continue
			}
			fmt.Printf("  %-16s %d works, citations %d, h-index %d, i10-index %d\n", s, sm.Publications, sm.Citations, sm.HIndex, sm.I10Index)
		}
	}
}

// sortedSources returns the sources present in m, in default order.
func sortedSources[V any](m map[publication.Source]V) []publication.Source {
	var out []publication.Source
	for _, s := range publication.DefaultOrder() {
		if _, ok := m[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
