// Package normalize converts raw per-source exports into SourceRecords.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// Normalizer decodes one source's raw record shape.
//
// Missing optional fields yield zero values. A record whose title cannot be
// derived yields a *publication.MalformedRecordError.
type Normalizer interface {
	Source() publication.Source
	Normalize(raw json.RawMessage) (publication.SourceRecord, error)
}

var registry = map[publication.Source]Normalizer{}

func register(n Normalizer) {
	registry[n.Source()] = n
}

func init() {
	register(ORCID{})
	register(Scholar{})
	register(IRIS{})
	register(Scopus{})
	register(WoS{})
	register(Crossref{})
	register(SemanticScholar{})
}

// For returns the normalizer for source.
func For(source publication.Source) (Normalizer, error) {
	n, ok := registry[source]
	if !ok {
		return nil, fmt.Errorf("no normalizer for source %q", source)
	}
	return n, nil
}

// Sources lists the sources with a registered normalizer, sorted by name.
func Sources() []publication.Source {
	sources := make([]publication.Source, 0, len(registry))
	for s := range registry {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// Records normalizes a batch. Records that fail are logged and dropped; the
// number dropped is returned alongside the survivors.
func Records(n Normalizer, raws []json.RawMessage, logger zerolog.Logger) ([]publication.SourceRecord, int) {
	records := make([]publication.SourceRecord, 0, len(raws))
	dropped := 0

	for i, raw := range raws {
		rec, err := n.Normalize(raw)
		if err != nil {
			var mal *publication.MalformedRecordError
			if errors.As(err, &mal) {
				mal.Index = i
			}
			logger.Warn().Err(err).Str("source", string(n.Source())).Int("index", i).Msg("dropping malformed record")
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped
}

// malformed builds the error returned for undecodable or untitled records.
func malformed(source publication.Source, format string, args ...any) error {
	return &publication.MalformedRecordError{
		Source: source,
		Index:  -1,
		Reason: fmt.Sprintf(format, args...),
	}
}

// decode unmarshals raw into v, reporting syntax errors as malformed records.
// A field whose JSON type does not match is left zero and the rest of the
// record is kept; callers still reject records without a title.
func decode(source publication.Source, raw json.RawMessage, v any) error {
	err := json.Unmarshal(raw, v)
	var typeErr *json.UnmarshalTypeError
	if err == nil || errors.As(err, &typeErr) {
		return nil
	}
	return malformed(source, "invalid JSON: %v", err)
}

// cleanText trims s and collapses internal whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// requireTitle returns the cleaned title or a malformed-record error.
func requireTitle(source publication.Source, title string) (string, error) {
	title = cleanText(title)
	if title == "" {
		return "", malformed(source, "missing title")
	}
	return title, nil
}

var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi.org/",
	"dx.doi.org/",
	"doi:",
}

// cleanDOI strips resolver URL and doi: prefixes. Case is preserved; the
// index compares DOIs case-insensitively.
func cleanDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range doiPrefixes {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			doi = strings.TrimSpace(doi[len(prefix):])
			break
		}
	}
	return doi
}

// parseDate parses "YYYY", "YYYY-MM" or "YYYY-MM-DD". Out-of-range parts are
// left unknown.
func parseDate(s string) publication.PublicationDate {
	var pub publication.PublicationDate

	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) >= 1 {
		if y, err := strconv.Atoi(parts[0]); err == nil && y > 0 {
			pub.Year = y
		}
	}
	if pub.Year == 0 {
		return pub
	}
	if len(parts) >= 2 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
			pub.Month = m
		}
	}
	if pub.Month != 0 && len(parts) >= 3 {
		if d, err := strconv.Atoi(parts[2]); err == nil && d >= 1 && d <= 31 {
			pub.Day = d
		}
	}
	return pub
}

// dateFromParts builds a date from numeric parts, dropping invalid ones.
func dateFromParts(year, month, day int) publication.PublicationDate {
	pub := publication.PublicationDate{}
	if year <= 0 {
		return pub
	}
	pub.Year = year
	if month >= 1 && month <= 12 {
		pub.Month = month
		if day >= 1 && day <= 31 {
			pub.Day = day
		}
	}
	return pub
}

// joinNonEmpty joins the non-blank values with sep.
func joinNonEmpty(values []string, sep string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = cleanText(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}

// atoi parses a base-10 integer, returning 0 on failure.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
