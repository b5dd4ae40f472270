package normalize

import (
	"encoding/json"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// irisItem is one item exported from an institutional repository.
type irisItem struct {
	Handle   string         `json:"handle"` // "11576/2678421"
	Title    string         `json:"title"`
	Authors  []string       `json:"authors"` // "Giglietto, Fabio"
	Year     FlexibleString `json:"year"`
	Date     string         `json:"date"` // "2019-10-01", may be partial
	DOI      string         `json:"doi"`
	Journal  string         `json:"journal"`
	Type     string         `json:"type"`
	URL      string         `json:"url"`
	Abstract string         `json:"abstract"`
}

// IRIS normalizes institutional repository exports.
type IRIS struct{}

func (IRIS) Source() publication.Source { return publication.SourceIRIS }

func (n IRIS) Normalize(raw json.RawMessage) (publication.SourceRecord, error) {
	var it irisItem
	if err := decode(n.Source(), raw, &it); err != nil {
		return publication.SourceRecord{}, err
	}
	title, err := requireTitle(n.Source(), it.Title)
	if err != nil {
		return publication.SourceRecord{}, err
	}

	rec := publication.SourceRecord{
		Title:     title,
		Authors:   joinNonEmpty(it.Authors, "; "),
		Venue:     cleanText(it.Journal),
		DOI:       cleanDOI(it.DOI),
		SourceID:  it.Handle,
		SourceURL: it.URL,
		Extra: publication.Extra{
			Abstract: cleanText(it.Abstract),
			Handle:   it.Handle,
			Type:     it.Type,
		},
	}

	rec.Published = parseDate(it.Date)
	if rec.Published.Year == 0 {
		rec.Published = parseDate(it.Year.String())
	}
	return rec, nil
}
