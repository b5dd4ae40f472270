// Package index maintains the canonical publication set keyed by DOI or
// normalized title, preserving insertion order for deterministic matching.
package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/scholarly-tools/pubmerge/internal/match"
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// Key prefixes.
const (
	DOIPrefix   = "doi:"
	TitlePrefix = "title:"
)

var (
	// ErrKeyExists is returned when inserting or rekeying onto an occupied key.
	ErrKeyExists = errors.New("key already exists")
	// ErrKeyNotFound is returned when rekeying a key that is not indexed.
	ErrKeyNotFound = errors.New("key not found")
)

// DOIKey returns the matching key for a DOI.
func DOIKey(doi string) string {
	return DOIPrefix + match.NormalizeDOI(doi)
}

// TitleKey returns the matching key for a title.
func TitleKey(title string) string {
	return TitlePrefix + match.NormalizeTitle(title)
}

// KeyFor returns the key a new canonical record built from r is stored under:
// the DOI key when a DOI is known, else the title key.
func KeyFor(r publication.SourceRecord) string {
	if doi := match.NormalizeDOI(r.DOI); doi != "" {
		return DOIPrefix + doi
	}
	return TitleKey(r.Title)
}

// IsDOIKey reports whether key is DOI-based.
func IsDOIKey(key string) bool {
	return strings.HasPrefix(key, DOIPrefix)
}

// entry is one indexed publication with its cached normalized title.
type entry struct {
	key   string
	title string // normalized
	pub   *publication.Publication
}

// TitleMatcher decides whether two normalized titles denote the same work.
type TitleMatcher interface {
	IsSimilarNormalized(a, b string) bool
}

// Index maps matching keys to canonical publications. It owns every
// publication it holds. It is not safe for concurrent use.
type Index struct {
	matcher TitleMatcher
	byKey   map[string]*entry
	order   []*entry // insertion order; rekeying keeps the position
}

// New creates an empty index that uses m for title fallback matching.
func New(m TitleMatcher) *Index {
	return &Index{
		matcher: m,
		byKey:   make(map[string]*entry),
	}
}

// Len returns the number of canonical publications.
func (x *Index) Len() int {
	return len(x.order)
}

// Get returns the publication stored under key, or nil.
func (x *Index) Get(key string) *publication.Publication {
	if e, ok := x.byKey[key]; ok {
		return e.pub
	}
	return nil
}

// Insert stores pub under key.
func (x *Index) Insert(key string, pub *publication.Publication) error {
	if _, ok := x.byKey[key]; ok {
		return fmt.Errorf("inserting %s: %w", key, ErrKeyExists)
	}
	e := &entry{
		key:   key,
		title: match.NormalizeTitle(pub.Title),
		pub:   pub,
	}
	x.byKey[key] = e
	x.order = append(x.order, e)
	return nil
}

// Rekey moves the publication stored under oldKey to newKey. The publication
// keeps its position in the scan order.
func (x *Index) Rekey(oldKey, newKey string) error {
	if oldKey == newKey {
		return nil
	}
	e, ok := x.byKey[oldKey]
	if !ok {
		return fmt.Errorf("rekeying %s: %w", oldKey, ErrKeyNotFound)
	}
	if _, taken := x.byKey[newKey]; taken {
		return fmt.Errorf("rekeying %s to %s: %w", oldKey, newKey, ErrKeyExists)
	}
	delete(x.byKey, oldKey)
	e.key = newKey
	x.byKey[newKey] = e
	return nil
}

// FindMatch returns the canonical publication r describes, or nil.
func (x *Index) FindMatch(r publication.SourceRecord) *publication.Publication {
	_, pub := x.Match(r)
	return pub
}

// Match is FindMatch that also returns the key the match is stored under.
//
// A DOI is matched exactly first. Without a DOI hit, every entry is scanned
// in insertion order and the first similar title wins. Entries whose DOI is
// known and differs from r's DOI are never title-matched.
func (x *Index) Match(r publication.SourceRecord) (string, *publication.Publication) {
	doi := match.NormalizeDOI(r.DOI)
	if doi != "" {
		if e, ok := x.byKey[DOIPrefix+doi]; ok {
			return e.key, e.pub
		}
	}

	title := match.NormalizeTitle(r.Title)
	if title == "" {
		return "", nil
	}
	for _, e := range x.order {
		if doi != "" && e.pub.DOI != "" && match.NormalizeDOI(e.pub.DOI) != doi {
			continue
		}
		if x.matcher.IsSimilarNormalized(e.title, title) {
			return e.key, e.pub
		}
	}
	return "", nil
}

// All returns the indexed publications in insertion order.
func (x *Index) All() []*publication.Publication {
	pubs := make([]*publication.Publication, len(x.order))
	for i, e := range x.order {
		pubs[i] = e.pub
	}
	return pubs
}

// Keys returns the keys in insertion order.
func (x *Index) Keys() []string {
	keys := make([]string, len(x.order))
	for i, e := range x.order {
		keys[i] = e.key
	}
	return keys
}

// Clone returns a deep copy of the index. Publications are copied, so the
// clone can be mutated without affecting the original.
func (x *Index) Clone() *Index {
	c := &Index{
		matcher: x.matcher,
		byKey:   make(map[string]*entry, len(x.byKey)),
		order:   make([]*entry, len(x.order)),
	}
	for i, e := range x.order {
		ce := &entry{key: e.key, title: e.title, pub: e.pub.Clone()}
		c.order[i] = ce
		c.byKey[ce.key] = ce
	}
	return c
}
