package metrics

import (
	"testing"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

func TestHIndex(t *testing.T) {
	tests := []struct {
		name   string
		counts []int
		want   int
	}{
		{"empty", nil, 0},
		{"all zero", []int{0, 0, 0}, 0},
		{"mixed", []int{402, 163, 280, 12, 3}, 4},
		{"exact", []int{3, 3, 3}, 3},
		{"single", []int{100}, 1},
		{"classic", []int{10, 8, 5, 4, 3}, 4},
		{"ties below", []int{1, 1, 1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HIndex(tt.counts); got != tt.want {
				t.Errorf("HIndex(%v) = %d, want %d", tt.counts, got, tt.want)
			}
		})
	}
}

func TestHIndex_DoesNotReorderInput(t *testing.T) {
	counts := []int{1, 5, 3}
	HIndex(counts)
	if counts[0] != 1 || counts[1] != 5 || counts[2] != 3 {
		t.Errorf("input mutated: %v", counts)
	}
}

func TestI10Index(t *testing.T) {
	if got := I10Index([]int{402, 163, 280, 12, 3}); got != 4 {
		t.Errorf("I10Index = %d, want 4", got)
	}
	if got := I10Index([]int{9, 10, 11}); got != 2 {
		t.Errorf("I10Index boundary = %d, want 2", got)
	}
	if got := I10Index(nil); got != 0 {
		t.Errorf("I10Index(nil) = %d, want 0", got)
	}
}

func TestTotalCitations_MaxNotSum(t *testing.T) {
	p := &publication.Publication{
		Citations: map[publication.Source]*int{
			publication.SourceScholar:         publication.Int(150),
			publication.SourceScopus:          publication.Int(98),
			publication.SourceSemanticScholar: publication.Int(120),
			publication.SourceWoS:             nil,
		},
	}
	if got := TotalCitations(p); got != 150 {
		t.Errorf("TotalCitations = %d, want 150", got)
	}
	if got := CitationSourceCount(p); got != 3 {
		t.Errorf("CitationSourceCount = %d, want 3", got)
	}
}

func TestTotalCitations_NoCounts(t *testing.T) {
	p := &publication.Publication{
		Citations: map[publication.Source]*int{publication.SourceORCID: nil},
	}
	if got := TotalCitations(p); got != 0 {
		t.Errorf("TotalCitations = %d, want 0", got)
	}
	if got := CitationSourceCount(p); got != 0 {
		t.Errorf("CitationSourceCount = %d, want 0", got)
	}
}

func TestCompute(t *testing.T) {
	pubs := []*publication.Publication{
		{
			Title:     "A",
			Citations: map[publication.Source]*int{publication.SourceScholar: publication.Int(402), publication.SourceScopus: publication.Int(300)},
			SourceIDs: map[publication.Source]string{publication.SourceScholar: "a", publication.SourceScopus: "b"},
		},
		{
			Title:     "B",
			Citations: map[publication.Source]*int{publication.SourceScholar: publication.Int(163)},
			SourceIDs: map[publication.Source]string{publication.SourceScholar: "c"},
		},
		{
			Title:     "C",
			Citations: map[publication.Source]*int{publication.SourceScopus: publication.Int(280), publication.SourceORCID: nil},
			SourceIDs: map[publication.Source]string{publication.SourceScopus: "d", publication.SourceORCID: "e"},
		},
		{
			Title:     "D",
			Citations: map[publication.Source]*int{publication.SourceScholar: publication.Int(12)},
			SourceIDs: map[publication.Source]string{publication.SourceScholar: "f"},
		},
		{
			Title:     "E",
			Citations: map[publication.Source]*int{publication.SourceScholar: publication.Int(3)},
			SourceIDs: map[publication.Source]string{publication.SourceScholar: "g"},
		},
	}

	agg := Compute(pubs)

	if agg.TotalPublications != 5 {
		t.Errorf("TotalPublications = %d, want 5", agg.TotalPublications)
	}
	if agg.TotalCitations != 402+163+280+12+3 {
		t.Errorf("TotalCitations = %d", agg.TotalCitations)
	}
	if agg.HIndex != 4 || agg.I10Index != 4 {
		t.Errorf("h=%d i10=%d, want 4/4", agg.HIndex, agg.I10Index)
	}
	if agg.Coverage[publication.SourceScholar] != 4 || agg.Coverage[publication.SourceScopus] != 2 || agg.Coverage[publication.SourceORCID] != 1 {
		t.Errorf("Coverage = %v", agg.Coverage)
	}

	if pubs[0].Metrics.TotalCitations != 402 || pubs[0].Metrics.CitationSourceCount != 2 {
		t.Errorf("pubs[0].Metrics = %+v", pubs[0].Metrics)
	}

	scopus := agg.Sources[publication.SourceScopus]
	if scopus.Publications != 2 || scopus.Citations != 580 || scopus.HIndex != 2 || scopus.I10Index != 2 {
		t.Errorf("scopus metrics = %+v", scopus)
	}
	if _, ok := agg.Sources[publication.SourceORCID]; ok {
		t.Error("orcid has no citation counts and should not appear in Sources")
	}
}

func TestCompute_Empty(t *testing.T) {
	agg := Compute(nil)
	if agg.TotalPublications != 0 || agg.HIndex != 0 || agg.I10Index != 0 || agg.TotalCitations != 0 {
		t.Errorf("Compute(nil) = %+v", agg)
	}
	if agg.Coverage == nil || agg.Sources == nil {
		t.Error("Compute(nil) returned nil maps")
	}
}
