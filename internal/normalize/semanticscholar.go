package normalize

import (
	"encoding/json"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// s2Paper is a paper from the Semantic Scholar Graph API.
type s2Paper struct {
	PaperID                  string          `json:"paperId"`
	Title                    string          `json:"title"`
	Abstract                 string          `json:"abstract"`
	Year                     FlexibleInt     `json:"year"`
	PublicationDate          string          `json:"publicationDate"`
	Venue                    string          `json:"venue"`
	URL                      string          `json:"url"`
	CitationCount            FlexibleInt     `json:"citationCount"`
	InfluentialCitationCount FlexibleInt     `json:"influentialCitationCount"`
	IsOpenAccess             *bool           `json:"isOpenAccess"`
	FieldsOfStudy            FlexibleStrings `json:"fieldsOfStudy"`
	Journal                  *struct {
		Name string `json:"name"`
	} `json:"journal"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	OpenAccessPDF *struct {
		URL string `json:"url"`
	} `json:"openAccessPdf"`
	ExternalIDs *struct {
		DOI string `json:"DOI"`
	} `json:"externalIds"`
}

// SemanticScholar normalizes Semantic Scholar papers.
type SemanticScholar struct{}

func (SemanticScholar) Source() publication.Source { return publication.SourceSemanticScholar }

func (n SemanticScholar) Normalize(raw json.RawMessage) (publication.SourceRecord, error) {
	var p s2Paper
	if err := decode(n.Source(), raw, &p); err != nil {
		return publication.SourceRecord{}, err
	}
	title, err := requireTitle(n.Source(), p.Title)
	if err != nil {
		return publication.SourceRecord{}, err
	}

	rec := publication.SourceRecord{
		Title:         title,
		Venue:         cleanText(p.Venue),
		CitationCount: p.CitationCount.Ptr(),
		SourceID:      p.PaperID,
		SourceURL:     p.URL,
		Extra: publication.Extra{
			Abstract:             cleanText(p.Abstract),
			OpenAccess:           p.IsOpenAccess,
			InfluentialCitations: p.InfluentialCitationCount.Ptr(),
			FieldsOfStudy:        []string(p.FieldsOfStudy),
		},
	}
	if rec.Venue == "" && p.Journal != nil {
		rec.Venue = cleanText(p.Journal.Name)
	}
	if p.ExternalIDs != nil {
		rec.DOI = cleanDOI(p.ExternalIDs.DOI)
	}
	if p.OpenAccessPDF != nil {
		rec.Extra.OpenAccessURL = p.OpenAccessPDF.URL
	}

	rec.Published = parseDate(p.PublicationDate)
	if rec.Published.Year == 0 {
		rec.Published = dateFromParts(p.Year.Int(), 0, 0)
	}

	names := make([]string, len(p.Authors))
	for i, a := range p.Authors {
		names[i] = a.Name
	}
	rec.Authors = joinNonEmpty(names, ", ")
	return rec, nil
}
