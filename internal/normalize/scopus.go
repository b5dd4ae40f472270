package normalize

import (
	"encoding/json"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// scopusEntry is one document from a Scopus search response.
type scopusEntry struct {
	EID             string      `json:"eid"` // "2-s2.0-85012345678"
	DOI             string      `json:"prism:doi"`
	Title           string      `json:"dc:title"`
	Creator         string      `json:"dc:creator"` // first author only in STANDARD view
	Description     string      `json:"dc:description"`
	PublicationName string      `json:"prism:publicationName"`
	CoverDate       string      `json:"prism:coverDate"` // "2024-01-15"
	CitedByCount    FlexibleInt `json:"citedby-count"`
	SubType         string      `json:"subtypeDescription"`
	OpenAccessFlag  *bool       `json:"openaccessFlag"`
	Links           []struct {
		Ref  string `json:"@ref"`
		Href string `json:"@href"`
	} `json:"link"`
	Authors []struct {
		Name string `json:"authname"` // "Surname G."
	} `json:"author"` // COMPLETE view only
}

// Scopus normalizes Scopus search entries.
type Scopus struct{}

func (Scopus) Source() publication.Source { return publication.SourceScopus }

func (n Scopus) Normalize(raw json.RawMessage) (publication.SourceRecord, error) {
	var e scopusEntry
	if err := decode(n.Source(), raw, &e); err != nil {
		return publication.SourceRecord{}, err
	}
	title, err := requireTitle(n.Source(), e.Title)
	if err != nil {
		return publication.SourceRecord{}, err
	}

	rec := publication.SourceRecord{
		Title:         title,
		Venue:         cleanText(e.PublicationName),
		Published:     parseDate(e.CoverDate),
		DOI:           cleanDOI(e.DOI),
		CitationCount: e.CitedByCount.Ptr(),
		SourceID:      e.EID,
		Extra: publication.Extra{
			Abstract: cleanText(e.Description),
			Type:     e.SubType,
		},
	}
	if e.OpenAccessFlag != nil {
		rec.Extra.OpenAccess = publication.Bool(*e.OpenAccessFlag)
	}

	if len(e.Authors) > 0 {
		names := make([]string, len(e.Authors))
		for i, a := range e.Authors {
			names[i] = a.Name
		}
		rec.Authors = joinNonEmpty(names, ", ")
	} else {
		rec.Authors = cleanText(e.Creator)
	}

	for _, l := range e.Links {
		if l.Ref == "scopus" {
			rec.SourceURL = l.Href
			break
		}
	}
	return rec, nil
}
