package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// crossrefWork is the message of a Crossref works response.
type crossrefWork struct {
	DOI            string          `json:"DOI"`
	Title          FlexibleStrings `json:"title"`
	ContainerTitle FlexibleStrings `json:"container-title"`
	Author         []struct {
		Given  string `json:"given"`
		Family string `json:"family"`
		Name   string `json:"name"` // organizational authors
	} `json:"author"`
	Issued          crossrefDate `json:"issued"`
	PublishedPrint  crossrefDate `json:"published-print"`
	PublishedOnline crossrefDate `json:"published-online"`
	ReferencedBy    FlexibleInt  `json:"is-referenced-by-count"`
	URL             string       `json:"URL"`
	Type            string       `json:"type"`
	Publisher       string       `json:"publisher"`
	Abstract        string       `json:"abstract"` // JATS XML
}

type crossrefDate struct {
	DateParts [][]FlexibleInt `json:"date-parts"`
}

func (d crossrefDate) date() publication.PublicationDate {
	if len(d.DateParts) == 0 {
		return publication.PublicationDate{}
	}
	parts := d.DateParts[0]
	var y, m, day int
	if len(parts) > 0 {
		y = parts[0].Int()
	}
	if len(parts) > 1 {
		m = parts[1].Int()
	}
	if len(parts) > 2 {
		day = parts[2].Int()
	}
	return dateFromParts(y, m, day)
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Crossref normalizes Crossref work messages. Crossref is the DOI registration
// authority, so its author strings are formatted "Family, Given; ...".
type Crossref struct{}

func (Crossref) Source() publication.Source { return publication.SourceCrossref }

func (n Crossref) Normalize(raw json.RawMessage) (publication.SourceRecord, error) {
	var w crossrefWork
	if err := decode(n.Source(), raw, &w); err != nil {
		return publication.SourceRecord{}, err
	}

	title, err := requireTitle(n.Source(), stripTags(w.Title.First()))
	if err != nil {
		return publication.SourceRecord{}, err
	}

	rec := publication.SourceRecord{
		Title:         title,
		Authors:       crossrefAuthors(w),
		DOI:           cleanDOI(w.DOI),
		CitationCount: w.ReferencedBy.Ptr(),
		SourceID:      cleanDOI(w.DOI),
		SourceURL:     w.URL,
		Extra: publication.Extra{
			Abstract:  cleanText(stripTags(w.Abstract)),
			Type:      w.Type,
			Publisher: cleanText(w.Publisher),
		},
		Venue: cleanText(w.ContainerTitle.First()),
	}

	for _, d := range []crossrefDate{w.Issued, w.PublishedPrint, w.PublishedOnline} {
		if rec.Published = d.date(); rec.Published.Year != 0 {
			break
		}
	}
	return rec, nil
}

func crossrefAuthors(w crossrefWork) string {
	names := make([]string, 0, len(w.Author))
	for _, a := range w.Author {
		family, given := cleanText(a.Family), cleanText(a.Given)
		switch {
		case family != "" && given != "":
			names = append(names, family+", "+given)
		case family != "":
			names = append(names, family)
		default:
			names = append(names, a.Name)
		}
	}
	return joinNonEmpty(names, "; ")
}

func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, " "))
}
