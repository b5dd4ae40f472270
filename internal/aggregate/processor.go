package aggregate

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scholarly-tools/pubmerge/internal/index"
	"github.com/scholarly-tools/pubmerge/internal/match"
	"github.com/scholarly-tools/pubmerge/internal/merge"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// PassStats summarizes one source's processing pass.
type PassStats struct {
	Source     publication.Source `json:"source"`
	Received   int                `json:"received"`
	Duplicates int                `json:"duplicates"` // Records collapsed by the dedupe pre-pass
	Malformed  int                `json:"malformed"`
	Merged     int                `json:"merged"`
	Inserted   int                `json:"inserted"`
	Rekeyed    int                `json:"rekeyed"`
	Failed     bool               `json:"failed,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Processor merges the records of one source into an index.
type Processor struct {
	Index    *index.Index
	Resolver *merge.Resolver
	Matcher  index.TitleMatcher
	Logger   zerolog.Logger
}

// Process deduplicates records, then merges each into its matching canonical
// publication or inserts it as a new one.
//
// Records without a title are dropped with a warning. An error means the
// index is in an unknown state and the pass must be discarded.
func (p *Processor) Process(source publication.Source, records []publication.SourceRecord) (PassStats, error) {
	stats := PassStats{Source: source, Received: len(records)}
	log := p.Logger.With().Str("source", string(source)).Logger()

	records, groups := Dedupe(records, p.Matcher)
	for _, g := range groups {
		stats.Duplicates += len(g.Dropped)
		log.Debug().
			Str("title", g.Kept.Title).
			Str("reason", g.Reason).
			Int("dropped", len(g.Dropped)).
			Msg("collapsed duplicate records")
	}

	for i, r := range records {
		if match.NormalizeTitle(r.Title) == "" {
			stats.Malformed++
			err := &publication.MalformedRecordError{Source: source, Index: i, Reason: "missing title"}
			log.Warn().Err(err).Str("source_id", r.SourceID).Msg("dropping record")
			continue
		}

		key, pub := p.Index.Match(r)
		if pub == nil {
			key = index.KeyFor(r)
			if err := p.Index.Insert(key, merge.NewPublication(r, source)); err != nil {
				return stats, fmt.Errorf("record %d: %w", i, err)
			}
			stats.Inserted++
			continue
		}

		p.Resolver.MergeInto(pub, r, source)
		stats.Merged++

		if index.IsDOIKey(key) || pub.DOI == "" {
			continue
		}
		newKey := index.DOIKey(pub.DOI)
		if err := p.Index.Rekey(key, newKey); err != nil {
			if errors.Is(err, index.ErrKeyExists) {
				log.Warn().
					Str("key", key).
					Str("doi_key", newKey).
					Msg("another publication already holds this DOI, keeping title key")
				continue
			}
			return stats, fmt.Errorf("record %d: %w", i, err)
		}
		stats.Rekeyed++
	}

	log.Debug().
		Int("received", stats.Received).
		Int("merged", stats.Merged).
		Int("inserted", stats.Inserted).
		Msg("pass complete")
	return stats, nil
}
