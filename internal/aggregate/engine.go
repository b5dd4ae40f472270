// Package aggregate links records from several sources into one canonical
// publication list and computes its metrics.
package aggregate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/scholarly-tools/pubmerge/internal/index"
	"github.com/scholarly-tools/pubmerge/internal/match"
	"github.com/scholarly-tools/pubmerge/internal/merge"
	"github.com/scholarly-tools/pubmerge/internal/metrics"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

var (
	// ErrNilSourceOrder is returned when Aggregate is called without a source order.
	ErrNilSourceOrder = errors.New("source order is nil")
	// ErrPassPanicked marks a pass that was aborted by a panic.
	ErrPassPanicked = errors.New("pass panicked")
)

// Result is the output of an aggregation run.
type Result struct {
	Publications []publication.Publication    `json:"publications"` // Insertion order
	Metrics      publication.AggregateMetrics `json:"metrics"`
	Passes       []PassStats                  `json:"passes"`
}

// Engine runs source passes in a fixed order over a fresh index.
type Engine struct {
	Resolver *merge.Resolver
	Matcher  index.TitleMatcher
	Logger   zerolog.Logger
}

// NewEngine returns an Engine with the default resolver and matcher.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		Resolver: merge.NewResolver(),
		Matcher:  match.NewMatcher(),
		Logger:   logger,
	}
}

// Aggregate merges recordsBySource into canonical publications, processing
// sources strictly in order.
//
// Each pass works on a copy of the index and is committed only if it
// completes. A failing or panicking pass is logged and contributes nothing.
// Sources repeated in order are processed once; sources missing from order
// are ignored. The only error is ErrNilSourceOrder.
func (e *Engine) Aggregate(recordsBySource map[publication.Source][]publication.SourceRecord, order []publication.Source) (*Result, error) {
	if order == nil {
		return nil, ErrNilSourceOrder
	}

	e.warnUnordered(recordsBySource, order)

	idx := index.New(e.Matcher)
	seen := make(map[publication.Source]bool, len(order))
	passes := make([]PassStats, 0, len(order))

	for _, source := range order {
		if seen[source] {
			e.Logger.Warn().Str("source", string(source)).Msg("source repeated in order, skipping")
			continue
		}
		seen[source] = true

		next, stats, err := e.runPass(idx, source, recordsBySource[source])
		if err != nil {
			stats.Failed = true
			stats.Error = err.Error()
			e.Logger.Error().Err(err).Str("source", string(source)).Msg("pass failed, discarding its contribution")
			passes = append(passes, stats)
			continue
		}
		idx = next
		passes = append(passes, stats)
	}

	live := idx.All()
	pubs := make([]*publication.Publication, len(live))
	for i, p := range live {
		pubs[i] = p.Clone()
	}
	agg := metrics.Compute(pubs)

	result := &Result{
		Publications: make([]publication.Publication, len(pubs)),
		Metrics:      agg,
		Passes:       passes,
	}
	for i, p := range pubs {
		result.Publications[i] = *p
	}

	e.Logger.Info().
		Int("publications", agg.TotalPublications).
		Int("citations", agg.TotalCitations).
		Int("h_index", agg.HIndex).
		Msg("aggregation complete")
	return result, nil
}

// runPass processes one source on a clone of idx and returns the clone.
func (e *Engine) runPass(idx *index.Index, source publication.Source, records []publication.SourceRecord) (next *index.Index, stats PassStats, err error) {
	stats = PassStats{Source: source, Received: len(records)}
	defer func() {
		if r := recover(); r != nil {
			next = nil
			err = fmt.Errorf("%w: %v", ErrPassPanicked, r)
		}
	}()

	next = idx.Clone()
	p := &Processor{
		Index:    next,
		Resolver: e.Resolver,
		Matcher:  e.Matcher,
		Logger:   e.Logger,
	}
	stats, err = p.Process(source, records)
	if err != nil {
		return nil, stats, err
	}
	return next, stats, nil
}

func (e *Engine) warnUnordered(recordsBySource map[publication.Source][]publication.SourceRecord, order []publication.Source) {
	inOrder := make(map[publication.Source]bool, len(order))
	for _, s := range order {
		inOrder[s] = true
	}
	var missing []string
	for s := range recordsBySource {
		if !inOrder[s] {
			missing = append(missing, string(s))
		}
	}
	sort.Strings(missing)
	for _, s := range missing {
		e.Logger.Warn().Str("source", s).Msg("source not in processing order, ignoring")
	}
}
