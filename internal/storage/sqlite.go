package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scholarly-tools/pubmerge/internal/match"
	"github.com/scholarly-tools/pubmerge/internal/publication"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// Sort orders accepted by ListTop.
const (
	SortCitations = "citations"
	SortYear      = "year"
	SortTitle     = "title"
)

// ValidSortOrders lists the accepted ListTop orders.
var ValidSortOrders = []string{SortCitations, SortYear, SortTitle}

var orderClauses = map[string]string{
	SortCitations: "total_citations DESC, position",
	SortYear:      "pub_year DESC, pub_month DESC, pub_day DESC, position",
	SortTitle:     "title COLLATE NOCASE, position",
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		-- Canonical publications in aggregation order
		CREATE TABLE IF NOT EXISTS pubs (
			position INTEGER PRIMARY KEY,
			doi TEXT,
			title TEXT NOT NULL,
			authors TEXT,
			venue TEXT,
			pub_year INTEGER NOT NULL,
			pub_month INTEGER,
			pub_day INTEGER,
			total_citations INTEGER NOT NULL,
			citation_source_count INTEGER NOT NULL,
			record_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_pubs_doi ON pubs(doi) WHERE doi IS NOT NULL AND doi != '';

		-- One row per contributing source
		CREATE TABLE IF NOT EXISTS pub_sources (
			position INTEGER NOT NULL,
			source TEXT NOT NULL,
			source_id TEXT,
			citations INTEGER,
			PRIMARY KEY (position, source)
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS pubs_fts USING fts5(
			position UNINDEXED,
			title,
			authors,
			venue,
			abstract
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	pubs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"pubs", "pub_sources", "pubs_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	pubsStmt, err := tx.Prepare(`
		INSERT INTO pubs (
			position, doi, title, authors, venue,
			pub_year, pub_month, pub_day,
			total_citations, citation_source_count, record_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing pubs insert: %w", err)
	}
	defer pubsStmt.Close()

	sourcesStmt, err := tx.Prepare(`
		INSERT INTO pub_sources (position, source, source_id, citations)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing sources insert: %w", err)
	}
	defer sourcesStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO pubs_fts (position, title, authors, venue, abstract)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, pub := range pubs {
		record, err := json.Marshal(pub)
		if err != nil {
			return 0, fmt.Errorf("encoding publication %d: %w", i, err)
		}

		_, err = pubsStmt.Exec(
			i, nullableStringValue(match.NormalizeDOI(pub.DOI)), pub.Title, nullableStringValue(pub.Authors), nullableStringValue(pub.Venue),
			pub.Published.Year, nullableInt(pub.Published.Month), nullableInt(pub.Published.Day),
			pub.Metrics.TotalCitations, pub.Metrics.CitationSourceCount, string(record),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting publication %d: %w", i, err)
		}

		for source, id := range pub.SourceIDs {
			var citations sql.NullInt64
			if c := pub.Citations[source]; c != nil {
				citations = sql.NullInt64{Int64: int64(*c), Valid: true}
			}
			if _, err := sourcesStmt.Exec(i, string(source), nullableStringValue(id), citations); err != nil {
				return 0, fmt.Errorf("inserting source %s for publication %d: %w", source, i, err)
			}
		}

		if _, err := ftsStmt.Exec(i, pub.Title, pub.Authors, pub.Venue, pub.Extra.Abstract); err != nil {
			return 0, fmt.Errorf("inserting fts for publication %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(pubs), nil
}

// ListTop returns publications ordered by sortBy, at most limit of them
// (0 means no limit).
func (d *DB) ListTop(limit int, sortBy string) ([]publication.Publication, error) {
	clause, ok := orderClauses[sortBy]
	if !ok {
		return nil, fmt.Errorf("unknown sort order: %s (valid: %v)", sortBy, ValidSortOrders)
	}

	query := `SELECT record_json FROM pubs ORDER BY ` + clause
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// Search performs a full-text search over title, authors, venue and abstract.
// Results are ordered by citations.
func (d *DB) Search(query string, limit int) ([]publication.Publication, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT record_json
		FROM pubs
		WHERE position IN (SELECT position FROM pubs_fts WHERE pubs_fts MATCH ?)
		ORDER BY total_citations DESC, position
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// GetByDOI retrieves a publication by DOI, or nil when absent. Both sides
// are compared in normalized form.
func (d *DB) GetByDOI(doi string) (*publication.Publication, error) {
	var record string
	err := d.db.QueryRow(`SELECT record_json FROM pubs WHERE doi = ?`, match.NormalizeDOI(doi)).Scan(&record)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	var pub publication.Publication
	if err := json.Unmarshal([]byte(record), &pub); err != nil {
		return nil, fmt.Errorf("parsing stored publication: %w", err)
	}
	return &pub, nil
}

// Count returns the total number of publications.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM pubs").Scan(&count)
	return count, err
}

// CoverageCounts returns the number of publications each source contributed to.
func (d *DB) CoverageCounts() (map[publication.Source]int, error) {
	rows, err := d.db.Query(`SELECT source, COUNT(*) FROM pub_sources GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("counting coverage: %w", err)
	}
	defer rows.Close()

	counts := make(map[publication.Source]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, err
		}
		counts[publication.Source(source)] = n
	}
	return counts, rows.Err()
}

func scanPublications(rows *sql.Rows) ([]publication.Publication, error) {
	var pubs []publication.Publication
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var pub publication.Publication
		if err := json.Unmarshal([]byte(record), &pub); err != nil {
			return nil, fmt.Errorf("parsing stored publication: %w", err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullableInt converts an int to sql.NullInt64, treating 0 as NULL.
func nullableInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// FTS5 uses double quotes for phrase matching
	if strings.ContainsAny(query, "\"*+-:(){}[]^~.,/") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
