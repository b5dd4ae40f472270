package publication

// SourceRecord is one source's view of a single work, as produced by a
// normalizer. It is passed by value and never modified after normalization.
type SourceRecord struct {
	Title     string          `json:"title"`
	Authors   string          `json:"authors,omitempty"`
	Venue     string          `json:"venue,omitempty"`
	Published PublicationDate `json:"published"`
	DOI       string          `json:"doi,omitempty"`

	// CitationCount is nil when the source does not report citations for the work.
	CitationCount *int `json:"citation_count,omitempty"`

	SourceID  string `json:"source_id,omitempty"`  // Identifier within the source system
	SourceURL string `json:"source_url,omitempty"` // Landing page within the source system

	Extra Extra `json:"extra"`
}

// HasDOI reports whether the record carries a DOI.
func (r SourceRecord) HasDOI() bool {
	return r.DOI != ""
}
