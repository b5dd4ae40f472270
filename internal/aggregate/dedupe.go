package aggregate

import (
	"github.com/scholarly-tools/pubmerge/internal/index"
	"github.com/scholarly-tools/pubmerge/internal/match"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// Duplicate reasons.
const (
	ReasonDOI   = "doi"
	ReasonTitle = "title"
)

// DuplicateGroup is a set of records from one source that describe the same
// work and collapse into a single record before matching.
type DuplicateGroup struct {
	Reason  string                     `json:"reason"` // ReasonDOI or ReasonTitle
	Kept    publication.SourceRecord   `json:"kept"`
	Dropped []publication.SourceRecord `json:"dropped"`
}

type dedupeGroup struct {
	kept    publication.SourceRecord
	doi     string // normalized DOI of kept
	title   string // normalized title of kept
	reason  string
	dropped []publication.SourceRecord
}

// Dedupe collapses records of a single source that describe the same work.
//
// Two records are duplicates when they share a normalized DOI, or when their
// titles are similar and their DOIs do not conflict. The DOI-bearing version
// is kept over one without a DOI, otherwise the first occurrence is kept.
// Fields missing on the kept version are filled from the dropped ones.
//
// Records are returned in order of their group's first occurrence. Records
// without a usable title pass through untouched.
func Dedupe(records []publication.SourceRecord, m index.TitleMatcher) ([]publication.SourceRecord, []DuplicateGroup) {
	var groups []*dedupeGroup
	out := make([]*dedupeGroup, 0, len(records))

	for _, r := range records {
		title := match.NormalizeTitle(r.Title)
		doi := match.NormalizeDOI(r.DOI)
		if title == "" {
			out = append(out, &dedupeGroup{kept: r})
			continue
		}

		g, reason := findGroup(groups, title, doi, m)
		if g == nil {
			g = &dedupeGroup{kept: r, doi: doi, title: title}
			groups = append(groups, g)
			out = append(out, g)
			continue
		}

		if g.reason == "" || reason == ReasonDOI {
			g.reason = reason
		}
		if g.doi == "" && doi != "" {
			// Prefer the version carrying a DOI.
			prev := g.kept
			g.kept = r
			fillGaps(&g.kept, prev)
			g.dropped = append(g.dropped, prev)
			g.doi = doi
			g.title = title
			continue
		}
		fillGaps(&g.kept, r)
		g.dropped = append(g.dropped, r)
	}

	kept := make([]publication.SourceRecord, 0, len(out))
	var dups []DuplicateGroup
	for _, g := range out {
		kept = append(kept, g.kept)
		if len(g.dropped) > 0 {
			dups = append(dups, DuplicateGroup{Reason: g.reason, Kept: g.kept, Dropped: g.dropped})
		}
	}
	return kept, dups
}

func findGroup(groups []*dedupeGroup, title, doi string, m index.TitleMatcher) (*dedupeGroup, string) {
	if doi != "" {
		for _, g := range groups {
			if g.doi == doi {
				return g, ReasonDOI
			}
		}
	}
	for _, g := range groups {
		if doi != "" && g.doi != "" && g.doi != doi {
			continue
		}
		if m.IsSimilarNormalized(g.title, title) {
			return g, ReasonTitle
		}
	}
	return nil, ""
}

// fillGaps copies every field of src that dst lacks.
func fillGaps(dst *publication.SourceRecord, src publication.SourceRecord) {
	fillString(&dst.Authors, src.Authors)
	fillString(&dst.Venue, src.Venue)
	fillString(&dst.DOI, src.DOI)
	fillString(&dst.SourceID, src.SourceID)
	fillString(&dst.SourceURL, src.SourceURL)
	fillInt(&dst.Published.Year, src.Published.Year)
	fillInt(&dst.Published.Month, src.Published.Month)
	fillInt(&dst.Published.Day, src.Published.Day)
	if dst.CitationCount == nil && src.CitationCount != nil {
		dst.CitationCount = publication.Int(*src.CitationCount)
	}

	e, s := &dst.Extra, src.Extra
	fillString(&e.Abstract, s.Abstract)
	fillString(&e.OpenAccessURL, s.OpenAccessURL)
	fillString(&e.Handle, s.Handle)
	fillString(&e.Type, s.Type)
	fillString(&e.Publisher, s.Publisher)
	if e.OpenAccess == nil && s.OpenAccess != nil {
		e.OpenAccess = publication.Bool(*s.OpenAccess)
	}
	if e.InfluentialCitations == nil && s.InfluentialCitations != nil {
		e.InfluentialCitations = publication.Int(*s.InfluentialCitations)
	}
	if len(e.FieldsOfStudy) == 0 && len(s.FieldsOfStudy) > 0 {
		e.FieldsOfStudy = append([]string(nil), s.FieldsOfStudy...)
	}
}

func fillString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

func fillInt(dst *int, src int) {
	if *dst == 0 {
		*dst = src
	}
}
