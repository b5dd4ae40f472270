package publication

// AggregateMetrics are computed once per run over the final canonical set.
type AggregateMetrics struct {
	TotalPublications int                      `json:"total_publications"`
	TotalCitations    int                      `json:"total_citations"`
	HIndex            int                      `json:"h_index"`
	I10Index          int                      `json:"i10_index"`
	Coverage          map[Source]int           `json:"coverage"`
	Sources           map[Source]SourceMetrics `json:"sources"`
}

// SourceMetrics are indices computed from a single source's citation slot.
type SourceMetrics struct {
	// Publications counts works for which the source reported a citation count.
	Publications int `json:"publications"`
	Citations    int `json:"citations"`
	HIndex       int `json:"h_index"`
	I10Index     int `json:"i10_index"`
}
