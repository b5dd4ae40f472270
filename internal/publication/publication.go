// Package publication defines the core domain types for merged bibliographic records.
package publication

// Publication is the canonical, merged representation of one scholarly work
// across all sources.
type Publication struct {
	// Identity
	DOI   string `json:"doi"` // Normalized lazily; empty until some source supplies one
	Title string `json:"title"`

	// Metadata
	Authors   string          `json:"authors"` // Source-formatted author string, empty if unknown
	Venue     string          `json:"venue"`
	Published PublicationDate `json:"published"`

	// Per-source slots. Each source owns exactly one key in each map.
	Citations  map[Source]*int   `json:"citations"`
	SourceURLs map[Source]string `json:"source_urls"`
	SourceIDs  map[Source]string `json:"source_ids"`

	Extra   Extra   `json:"extra"`
	Metrics Metrics `json:"metrics"`
}

// PublicationDate represents a publication date with optional month and day.
type PublicationDate struct {
	Year  int `json:"year"`            // 0 if unknown
	Month int `json:"month,omitempty"` // 1-12, 0 if unknown
	Day   int `json:"day,omitempty"`   // 1-31, 0 if unknown
}

// Extra holds source-specific attributes that only some sources provide.
type Extra struct {
	Abstract             string   `json:"abstract,omitempty"`
	OpenAccess           *bool    `json:"open_access,omitempty"`
	OpenAccessURL        string   `json:"open_access_url,omitempty"`
	FieldsOfStudy        []string `json:"fields_of_study,omitempty"`
	InfluentialCitations *int     `json:"influential_citations,omitempty"`
	Handle               string   `json:"handle,omitempty"` // Institutional repository handle
	Type                 string   `json:"type,omitempty"`
	Publisher            string   `json:"publisher,omitempty"`
}

// Metrics are derived per publication once all sources are merged.
type Metrics struct {
	TotalCitations      int `json:"total_citations"`
	CitationSourceCount int `json:"citation_source_count"`
}

// HasSource reports whether the given source contributed to this publication.
func (p *Publication) HasSource(source Source) bool {
	_, ok := p.SourceIDs[source]
	return ok
}

// Clone returns a deep copy of the publication.
func (p *Publication) Clone() *Publication {
	c := *p
	c.Citations = make(map[Source]*int, len(p.Citations))
	for s, v := range p.Citations {
		c.Citations[s] = cloneInt(v)
	}
	c.SourceURLs = make(map[Source]string, len(p.SourceURLs))
	for s, v := range p.SourceURLs {
		c.SourceURLs[s] = v
	}
	c.SourceIDs = make(map[Source]string, len(p.SourceIDs))
	for s, v := range p.SourceIDs {
		c.SourceIDs[s] = v
	}
	c.Extra = p.Extra.Clone()
	return &c
}

// Clone returns a deep copy of the extra fields.
func (e Extra) Clone() Extra {
	c := e
	c.OpenAccess = cloneBool(e.OpenAccess)
	c.InfluentialCitations = cloneInt(e.InfluentialCitations)
	if e.FieldsOfStudy != nil {
		c.FieldsOfStudy = append([]string(nil), e.FieldsOfStudy...)
	}
	return c
}

// Int returns a pointer to v. Convenient for citation counts.
func Int(v int) *int {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}
