package main

import (
	"testing"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "Graph kernels", 20, "Graph kernels"},
		{"exact", "abcdef", 6, "abcdef"},
		{"cut", "Fake news is the invention of a liar", 12, "Fake news..."},
		{"multibyte", "Sull'efficacia delle politiche", 8, "Sull'..."},
		{"tiny limit", "abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestFormatYear(t *testing.T) {
	if got := formatYear(0); got != "n.d." {
		t.Errorf("formatYear(0) = %q", got)
	}
	if got := formatYear(2019); got != "2019" {
		t.Errorf("formatYear(2019) = %q", got)
	}
}

func TestFormatSources(t *testing.T) {
	p := publication.Publication{
		SourceIDs: map[publication.Source]string{
			publication.SourceCrossref: "10.1/x",
			publication.SourceORCID:    "123",
			publication.SourceScopus:   "2-s2.0-1",
		},
	}
	if got, want := formatSources(p), "orcid, scopus, crossref"; got != want {
		t.Errorf("formatSources() = %q, want %q", got, want)
	}
}
