package publication

import (
	"errors"
	"fmt"
	"testing"
)

func TestClone_Independent(t *testing.T) {
	orig := &Publication{
		Title:      "Second Screen and Participation",
		Citations:  map[Source]*int{SourceScopus: Int(12), SourceWoS: nil},
		SourceURLs: map[Source]string{SourceScopus: "https://scopus.example/1"},
		SourceIDs:  map[Source]string{SourceScopus: "2-s2.0-1"},
		Extra: Extra{
			OpenAccess:    Bool(true),
			FieldsOfStudy: []string{"Sociology"},
		},
	}

	c := orig.Clone()
	*c.Citations[SourceScopus] = 99
	c.SourceIDs[SourceCrossref] = "10.1/x"
	c.Extra.FieldsOfStudy[0] = "Physics"
	*c.Extra.OpenAccess = false

	if got := *orig.Citations[SourceScopus]; got != 12 {
		t.Errorf("orig scopus citations = %d, want 12", got)
	}
	if _, ok := orig.Citations[SourceWoS]; !ok {
		t.Error("orig lost nil wos slot")
	}
	if _, ok := c.Citations[SourceWoS]; !ok {
		t.Error("clone lost nil wos slot")
	}
	if orig.HasSource(SourceCrossref) {
		t.Error("clone mutation leaked into orig SourceIDs")
	}
	if orig.Extra.FieldsOfStudy[0] != "Sociology" {
		t.Errorf("orig fields of study = %v", orig.Extra.FieldsOfStudy)
	}
	if !*orig.Extra.OpenAccess {
		t.Error("clone mutation leaked into orig open access flag")
	}
}

func TestParseSource(t *testing.T) {
	for _, s := range DefaultOrder() {
		got, err := ParseSource(string(s))
		if err != nil {
			t.Errorf("ParseSource(%q) error = %v", s, err)
		}
		if got != s {
			t.Errorf("ParseSource(%q) = %q", s, got)
		}
	}

	if _, err := ParseSource("myspace"); err == nil {
		t.Error("ParseSource(myspace) expected error")
	}
}

func TestDefaultOrder_AuthorityBeforeSemanticGraph(t *testing.T) {
	order := DefaultOrder()
	pos := make(map[Source]int)
	for i, s := range order {
		pos[s] = i
	}
	if pos[SourceORCID] != 0 {
		t.Errorf("orcid at %d, want 0", pos[SourceORCID])
	}
	if pos[Authority] != len(order)-2 {
		t.Errorf("authority at %d, want %d", pos[Authority], len(order)-2)
	}
}

func TestMalformedRecordError(t *testing.T) {
	var err error = &MalformedRecordError{Source: SourceORCID, Index: 3, Reason: "missing title"}
	wrapped := fmt.Errorf("normalizing: %w", err)

	if !errors.Is(wrapped, ErrMalformedRecord) {
		t.Error("errors.Is(wrapped, ErrMalformedRecord) = false")
	}
	if got, want := err.Error(), "orcid record 3: missing title"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noIdx := &MalformedRecordError{Source: SourceIRIS, Index: -1, Reason: "missing title"}
	if got, want := noIdx.Error(), "iris record: missing title"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
