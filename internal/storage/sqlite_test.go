package storage

import (
	"path/filepath"
	"testing"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// setupTestDB creates a test database rebuilt from sample publications.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	jsonlPath := filepath.Join(tmpDir, "publications.jsonl")
	if err := WriteAll(jsonlPath, samplePublications()); err != nil {
		t.Fatalf("Failed to write test JSONL: %v", err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("Failed to rebuild DB: %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildFromJSONL() = %d, want 3", n)
	}
	return db
}

func TestDB_Count(t *testing.T) {
	db := setupTestDB(t)

	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestDB_RebuildIsRepeatable(t *testing.T) {
	tmpDir := t.TempDir()
	jsonlPath := filepath.Join(tmpDir, "publications.jsonl")
	if err := WriteAll(jsonlPath, samplePublications()); err != nil {
		t.Fatal(err)
	}
	db, err := OpenDB(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		if _, err := db.RebuildFromJSONL(jsonlPath); err != nil {
			t.Fatalf("rebuild %d: %v", i, err)
		}
	}
	if count, _ := db.Count(); count != 3 {
		t.Errorf("Count() after two rebuilds = %d, want 3", count)
	}
}

func TestDB_ListTop(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		sortBy string
		limit  int
		want   []string
	}{
		{SortCitations, 0, []string{"Fake news is the invention of a liar", "Second screen and participation", "The open laboratory"}},
		{SortCitations, 1, []string{"Fake news is the invention of a liar"}},
		{SortYear, 0, []string{"The open laboratory", "Fake news is the invention of a liar", "Second screen and participation"}},
		{SortTitle, 2, []string{"Fake news is the invention of a liar", "Second screen and participation"}},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			pubs, err := db.ListTop(tt.limit, tt.sortBy)
			if err != nil {
				t.Fatalf("ListTop() error = %v", err)
			}
			if len(pubs) != len(tt.want) {
				t.Fatalf("ListTop() returned %d, want %d", len(pubs), len(tt.want))
			}
			for i, title := range tt.want {
				if pubs[i].Title != title {
					t.Errorf("pubs[%d] = %q, want %q", i, pubs[i].Title, title)
				}
			}
		})
	}

	if _, err := db.ListTop(10, "random"); err == nil {
		t.Error("ListTop() expected error for unknown sort order")
	}
}

func TestDB_ListTop_PreservesRecord(t *testing.T) {
	db := setupTestDB(t)

	pubs, err := db.ListTop(1, SortCitations)
	if err != nil {
		t.Fatal(err)
	}
	p := pubs[0]
	if *p.Citations[publication.SourceScopus] != 280 || p.Extra.OpenAccess == nil || !*p.Extra.OpenAccess {
		t.Errorf("stored record lost fields: %+v", p)
	}
}

func TestDB_Search(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		query string
		want  int
	}{
		{"invention", 1},
		{"Giglietto", 2},
		{"sociolog*", 0}, // special characters are quoted, not expanded
		{"Sociologia", 1},
		{"false information", 1},
		{"nothing-like-this", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			pubs, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(pubs) != tt.want {
				t.Errorf("Search(%q) returned %d, want %d", tt.query, len(pubs), tt.want)
			}
		})
	}
}

func TestDB_Search_Empty(t *testing.T) {
	db := setupTestDB(t)
	pubs, err := db.Search("   ", 10)
	if err != nil || pubs != nil {
		t.Errorf("Search(blank) = %v, %v; want nil, nil", pubs, err)
	}
}

func TestDB_GetByDOI(t *testing.T) {
	db := setupTestDB(t)

	pub, err := db.GetByDOI("10.1177/2056305119883040")
	if err != nil {
		t.Fatalf("GetByDOI() error = %v", err)
	}
	if pub == nil || pub.Title != "Fake news is the invention of a liar" {
		t.Errorf("GetByDOI() = %+v", pub)
	}

	byURL, err := db.GetByDOI("https://doi.org/10.1177/2056305119883040")
	if err != nil || byURL == nil {
		t.Errorf("GetByDOI(url form) = %v, %v; want a publication", byURL, err)
	}

	missing, err := db.GetByDOI("10.9/none")
	if err != nil || missing != nil {
		t.Errorf("GetByDOI(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestDB_CoverageCounts(t *testing.T) {
	db := setupTestDB(t)

	counts, err := db.CoverageCounts()
	if err != nil {
		t.Fatalf("CoverageCounts() error = %v", err)
	}
	want := map[publication.Source]int{
		publication.SourceScholar: 2,
		publication.SourceScopus:  1,
		publication.SourceORCID:   1,
		publication.SourceIRIS:    1,
	}
	for s, n := range want {
		if counts[s] != n {
			t.Errorf("coverage[%s] = %d, want %d", s, counts[s], n)
		}
	}
	if len(counts) != len(want) {
		t.Errorf("coverage = %v", counts)
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"simple", "simple"},
		{"  padded  ", "padded"},
		{"10.1177/x", `"10.1177/x"`},
		{`say "hi"`, `"say ""hi"""`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
