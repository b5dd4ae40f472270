package index

import (
	"errors"
	"testing"

	"github.com/scholarly-tools/pubmerge/internal/match"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

func newPub(title, doi string) *publication.Publication {
	return &publication.Publication{
		Title:      title,
		DOI:        doi,
		Citations:  map[publication.Source]*int{},
		SourceURLs: map[publication.Source]string{},
		SourceIDs:  map[publication.Source]string{},
	}
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name string
		rec  publication.SourceRecord
		want string
	}{
		{"doi preferred", publication.SourceRecord{Title: "A Title", DOI: "https://doi.org/10.1/ABC"}, "doi:10.1/abc"},
		{"title fallback", publication.SourceRecord{Title: "A Title: Sub"}, "title:a title sub"},
		{"blank doi ignored", publication.SourceRecord{Title: "X", DOI: "  "}, "title:x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyFor(tt.rec); got != tt.want {
				t.Errorf("KeyFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInsert_DuplicateKey(t *testing.T) {
	x := New(match.NewMatcher())
	if err := x.Insert("doi:10.1/a", newPub("A", "10.1/a")); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	err := x.Insert("doi:10.1/a", newPub("A again", "10.1/a"))
	if !errors.Is(err, ErrKeyExists) {
		t.Errorf("Insert() error = %v, want ErrKeyExists", err)
	}
	if x.Len() != 1 {
		t.Errorf("Len() = %d, want 1", x.Len())
	}
}

func TestFindMatch_DOIPrecedence(t *testing.T) {
	x := New(match.NewMatcher())
	pub := newPub("Participatory culture and the digital public sphere in Italy", "10.1/abc")
	if err := x.Insert(DOIKey(pub.DOI), pub); err != nil {
		t.Fatal(err)
	}

	// Abbreviated title would never pass the similarity test, but the DOI matches.
	rec := publication.SourceRecord{Title: "Particip. cult. dig. publ. sph.", DOI: "https://doi.org/10.1/ABC"}
	if got := x.FindMatch(rec); got != pub {
		t.Errorf("FindMatch() = %v, want DOI match", got)
	}
}

func TestFindMatch_TitleFallback(t *testing.T) {
	x := New(match.NewMatcher())
	pub := newPub("Second Screen and Participation: A Content Analysis", "")
	if err := x.Insert(TitleKey(pub.Title), pub); err != nil {
		t.Fatal(err)
	}

	rec := publication.SourceRecord{Title: "Second Screen and Participation: A Content Analysis on a Full Season Dataset of Tweets"}
	key, got := x.Match(rec)
	if got != pub {
		t.Fatalf("Match() = %v, want title match", got)
	}
	if key != "title:second screen and participation a content analysis" {
		t.Errorf("Match() key = %q", key)
	}
}

func TestFindMatch_DOIMissFallsBackToTitle(t *testing.T) {
	x := New(match.NewMatcher())
	pub := newPub("Fake news is the invention of a liar", "")
	if err := x.Insert(TitleKey(pub.Title), pub); err != nil {
		t.Fatal(err)
	}

	rec := publication.SourceRecord{Title: "Fake News Is the Invention of a Liar", DOI: "10.9/liar"}
	if got := x.FindMatch(rec); got != pub {
		t.Errorf("FindMatch() = %v, want title-keyed record without DOI", got)
	}
}

func TestFindMatch_ConflictingDOISkipsTitleMatch(t *testing.T) {
	x := New(match.NewMatcher())
	pub := newPub("Fake news is the invention of a liar", "10.1/journal")
	if err := x.Insert(DOIKey(pub.DOI), pub); err != nil {
		t.Fatal(err)
	}

	rec := publication.SourceRecord{Title: "Fake news is the invention of a liar", DOI: "10.2/preprint"}
	if got := x.FindMatch(rec); got != nil {
		t.Errorf("FindMatch() = %v, want nil for conflicting DOI", got)
	}

	// Without a DOI the same title still matches the DOI-keyed entry.
	noDOI := publication.SourceRecord{Title: "Fake news is the invention of a liar"}
	if got := x.FindMatch(noDOI); got != pub {
		t.Errorf("FindMatch() = %v, want DOI-keyed entry via title scan", got)
	}
}

func TestFindMatch_NoMatch(t *testing.T) {
	x := New(match.NewMatcher())
	if err := x.Insert(TitleKey("Fake news is the invention of a liar"), newPub("Fake news is the invention of a liar", "")); err != nil {
		t.Fatal(err)
	}

	rec := publication.SourceRecord{Title: "The open laboratory: limits and possibilities of an experiment"}
	if got := x.FindMatch(rec); got != nil {
		t.Errorf("FindMatch() = %v, want nil", got)
	}
	if got := x.FindMatch(publication.SourceRecord{Title: "!!!"}); got != nil {
		t.Errorf("FindMatch(empty title) = %v, want nil", got)
	}
}

func TestFindMatch_OldestWins(t *testing.T) {
	x := New(match.NewMatcher())
	first := newPub("Second Screen and Participation", "")
	second := newPub("Second Screen and Participation: A Content Analysis", "")
	if err := x.Insert(TitleKey(first.Title), first); err != nil {
		t.Fatal(err)
	}
	if err := x.Insert(TitleKey(second.Title), second); err != nil {
		t.Fatal(err)
	}

	// Both entries are substrings of the incoming title; the oldest wins.
	rec := publication.SourceRecord{Title: "Second Screen and Participation: A Content Analysis of Tweets"}
	if got := x.FindMatch(rec); got != first {
		t.Errorf("FindMatch() = %q, want oldest entry", got.Title)
	}
}

func TestRekey(t *testing.T) {
	x := New(match.NewMatcher())
	a := newPub("Alpha paper on platforms", "")
	b := newPub("Beta paper on audiences", "")
	oldKey := TitleKey(a.Title)
	if err := x.Insert(oldKey, a); err != nil {
		t.Fatal(err)
	}
	if err := x.Insert(TitleKey(b.Title), b); err != nil {
		t.Fatal(err)
	}

	a.DOI = "10.5/alpha"
	if err := x.Rekey(oldKey, DOIKey(a.DOI)); err != nil {
		t.Fatalf("Rekey() error = %v", err)
	}

	if x.Get(oldKey) != nil {
		t.Error("old key still resolves after rekey")
	}
	if x.Get("doi:10.5/alpha") != a {
		t.Error("new key does not resolve to publication")
	}
	keys := x.Keys()
	if keys[0] != "doi:10.5/alpha" {
		t.Errorf("Keys()[0] = %q, rekey should keep insertion position", keys[0])
	}

	// A DOI-only record now matches.
	if got := x.FindMatch(publication.SourceRecord{Title: "Completely different wording", DOI: "10.5/ALPHA"}); got != a {
		t.Errorf("FindMatch() by DOI after rekey = %v", got)
	}
}

func TestRekey_Errors(t *testing.T) {
	x := New(match.NewMatcher())
	if err := x.Rekey("title:nope", "doi:10.1/x"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Rekey(missing) error = %v, want ErrKeyNotFound", err)
	}

	if err := x.Insert("title:a", newPub("a", "")); err != nil {
		t.Fatal(err)
	}
	if err := x.Insert("doi:10.1/x", newPub("x", "10.1/x")); err != nil {
		t.Fatal(err)
	}
	if err := x.Rekey("title:a", "doi:10.1/x"); !errors.Is(err, ErrKeyExists) {
		t.Errorf("Rekey(onto existing) error = %v, want ErrKeyExists", err)
	}
	if err := x.Rekey("title:a", "title:a"); err != nil {
		t.Errorf("Rekey(same key) error = %v, want nil", err)
	}
}

func TestClone_Isolated(t *testing.T) {
	x := New(match.NewMatcher())
	pub := newPub("Alpha paper on platforms", "")
	if err := x.Insert(TitleKey(pub.Title), pub); err != nil {
		t.Fatal(err)
	}

	c := x.Clone()
	cp := c.All()[0]
	cp.Authors = "Someone"
	if err := c.Insert("title:other", newPub("other", "")); err != nil {
		t.Fatal(err)
	}

	if pub.Authors != "" {
		t.Error("clone mutation leaked into original publication")
	}
	if x.Len() != 1 || c.Len() != 2 {
		t.Errorf("Len() original=%d clone=%d, want 1 and 2", x.Len(), c.Len())
	}
}
