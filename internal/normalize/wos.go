package normalize

import (
	"encoding/json"
	"strings"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// wosDocument is one document from a Web of Science starter API response.
type wosDocument struct {
	UID    string          `json:"uid"` // "WOS:000494011700001"
	Title  string          `json:"title"`
	Types  FlexibleStrings `json:"types"`
	Source struct {
		SourceTitle  string         `json:"sourceTitle"`
		PublishYear  FlexibleInt    `json:"publishYear"`
		PublishMonth FlexibleString `json:"publishMonth"` // "OCT", "OCT-DEC" or "10"
	} `json:"source"`
	Names struct {
		Authors []struct {
			DisplayName string `json:"displayName"`
			WOSStandard string `json:"wosStandard"`
		} `json:"authors"`
	} `json:"names"`
	Citations []struct {
		DB    string      `json:"db"`
		Count FlexibleInt `json:"count"`
	} `json:"citations"`
	Identifiers struct {
		DOI string `json:"doi"`
	} `json:"identifiers"`
	Links struct {
		Record string `json:"record"`
	} `json:"links"`
}

var monthAbbrev = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// WoS normalizes Web of Science documents. Only the core collection count
// is used as the citation count.
type WoS struct{}

func (WoS) Source() publication.Source { return publication.SourceWoS }

func (n WoS) Normalize(raw json.RawMessage) (publication.SourceRecord, error) {
	var d wosDocument
	if err := decode(n.Source(), raw, &d); err != nil {
		return publication.SourceRecord{}, err
	}
	title, err := requireTitle(n.Source(), d.Title)
	if err != nil {
		return publication.SourceRecord{}, err
	}

	rec := publication.SourceRecord{
		Title:     title,
		Venue:     cleanText(d.Source.SourceTitle),
		Published: dateFromParts(d.Source.PublishYear.Int(), wosMonth(d.Source.PublishMonth.String()), 0),
		DOI:       cleanDOI(d.Identifiers.DOI),
		SourceID:  d.UID,
		SourceURL: d.Links.Record,
	}
	rec.Extra.Type = d.Types.First()

	names := make([]string, 0, len(d.Names.Authors))
	for _, a := range d.Names.Authors {
		name := a.WOSStandard
		if name == "" {
			name = a.DisplayName
		}
		names = append(names, name)
	}
	rec.Authors = joinNonEmpty(names, "; ")

	for _, c := range d.Citations {
		if strings.EqualFold(c.DB, "WOS") {
			rec.CitationCount = c.Count.Ptr()
			break
		}
	}
	return rec, nil
}

// wosMonth parses the first month of a publish-month field.
func wosMonth(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0
	}
	if m := atoi(s); m != 0 {
		return m
	}
	if len(s) >= 3 {
		return monthAbbrev[s[:3]]
	}
	return 0
}
