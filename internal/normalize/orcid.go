package normalize

import (
	"encoding/json"
	"strings"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// orcidValue is ORCID's {"value": ...} wrapper.
type orcidValue struct {
	Value FlexibleString `json:"value"`
}

// orcidWork is one work summary from an ORCID record's works section.
type orcidWork struct {
	PutCode FlexibleString `json:"put-code"`
	Title   *struct {
		Title *orcidValue `json:"title"`
	} `json:"title"`
	JournalTitle    *orcidValue `json:"journal-title"`
	Type            string      `json:"type"`
	URL             *orcidValue `json:"url"`
	PublicationDate *struct {
		Year  *orcidValue `json:"year"`
		Month *orcidValue `json:"month"`
		Day   *orcidValue `json:"day"`
	} `json:"publication-date"`
	ExternalIDs *struct {
		ExternalID []struct {
			Type  string `json:"external-id-type"`
			Value string `json:"external-id-value"`
		} `json:"external-id"`
	} `json:"external-ids"`
}

// ORCID normalizes ORCID work summaries. Work summaries carry no author list
// and no citation count.
type ORCID struct{}

func (ORCID) Source() publication.Source { return publication.SourceORCID }

func (o ORCID) Normalize(raw json.RawMessage) (publication.SourceRecord, error) {
	var w orcidWork
	if err := decode(o.Source(), raw, &w); err != nil {
		return publication.SourceRecord{}, err
	}

	var title string
	if w.Title != nil && w.Title.Title != nil {
		title = w.Title.Title.Value.String()
	}
	title, err := requireTitle(o.Source(), title)
	if err != nil {
		return publication.SourceRecord{}, err
	}

	rec := publication.SourceRecord{
		Title:    title,
		Venue:    cleanText(orcidString(w.JournalTitle)),
		SourceID: w.PutCode.String(),
		Extra:    publication.Extra{Type: w.Type},
	}
	rec.SourceURL = orcidString(w.URL)

	if d := w.PublicationDate; d != nil {
		rec.Published = dateFromParts(atoi(orcidString(d.Year)), atoi(orcidString(d.Month)), atoi(orcidString(d.Day)))
	}

	if w.ExternalIDs != nil {
		for _, id := range w.ExternalIDs.ExternalID {
			if strings.EqualFold(id.Type, "doi") && id.Value != "" {
				rec.DOI = cleanDOI(id.Value)
				break
			}
		}
	}
	return rec, nil
}

func orcidString(v *orcidValue) string {
	if v == nil {
		return ""
	}
	return v.Value.String()
}
