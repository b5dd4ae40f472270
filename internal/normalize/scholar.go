package normalize

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// scholarPub is a publication scraped from a search-engine author profile.
type scholarPub struct {
	Bib struct {
		Title    string         `json:"title"`
		Author   string         `json:"author"` // "F Giglietto and D Selva"
		Venue    string         `json:"venue"`
		Citation string         `json:"citation"` // "Social Media+ Society 5 (4), 2019"
		PubYear  FlexibleString `json:"pub_year"`
		Abstract string         `json:"abstract"`
	} `json:"bib"`
	NumCitations FlexibleInt `json:"num_citations"`
	AuthorPubID  string      `json:"author_pub_id"`
	PubURL       string      `json:"pub_url"`
	EprintURL    string      `json:"eprint_url"`
}

var (
	yearPattern         = regexp.MustCompile(`\b(1[89]|20)\d{2}\b`)
	citationTailPattern = regexp.MustCompile(`\s+\d`)
)

// Scholar normalizes scraped profile entries. The scrape never exposes DOIs.
type Scholar struct{}

func (Scholar) Source() publication.Source { return publication.SourceScholar }

func (s Scholar) Normalize(raw json.RawMessage) (publication.SourceRecord, error) {
	var p scholarPub
	if err := decode(s.Source(), raw, &p); err != nil {
		return publication.SourceRecord{}, err
	}
	title, err := requireTitle(s.Source(), p.Bib.Title)
	if err != nil {
		return publication.SourceRecord{}, err
	}

	rec := publication.SourceRecord{
		Title:         title,
		Authors:       joinNonEmpty(strings.Split(p.Bib.Author, " and "), ", "),
		Venue:         cleanText(p.Bib.Venue),
		CitationCount: p.NumCitations.Ptr(),
		SourceID:      p.AuthorPubID,
		SourceURL:     p.PubURL,
		Extra: publication.Extra{
			Abstract:      cleanText(p.Bib.Abstract),
			OpenAccessURL: p.EprintURL,
		},
	}

	year := p.Bib.PubYear.String()
	if year == "" {
		year = yearPattern.FindString(p.Bib.Citation)
	}
	rec.Published = parseDate(year)

	if rec.Venue == "" {
		rec.Venue = scholarVenue(p.Bib.Citation)
	}
	return rec, nil
}

// scholarVenue extracts the venue from a citation line, dropping the
// volume/issue/year tail.
func scholarVenue(citation string) string {
	citation = cleanText(citation)
	if loc := citationTailPattern.FindStringIndex(citation); loc != nil {
		citation = citation[:loc[0]]
	}
	return strings.TrimRight(citation, " ,")
}
