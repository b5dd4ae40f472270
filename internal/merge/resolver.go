package merge

import (
	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// Resolver applies a policy table to merge source records into canonical
// publications. The zero value is not usable; call NewResolver.
type Resolver struct {
	Policies  Policies
	Authority publication.Source // Source honored by AuthoritativeOverwrite
}

// NewResolver returns a Resolver with the default policies and authority.
func NewResolver() *Resolver {
	return &Resolver{
		Policies:  DefaultPolicies(),
		Authority: publication.Authority,
	}
}

// MergeInto updates pub in place with the values of r, contributed by source.
//
// The source's own citation, URL and ID slots are always overwritten. Every
// other field follows its policy, and is only written when r offers a value.
// Fields are applied in Fields() order, so month and day see the year this
// record may just have filled and are only taken when the years agree.
func (res *Resolver) MergeInto(pub *publication.Publication, r publication.SourceRecord, source publication.Source) {
	setSlots(pub, r, source)

	for _, f := range Fields() {
		acc := accessors[f]
		if !acc.offered(r) {
			continue
		}
		if acc.agrees != nil && !acc.agrees(pub, r) {
			continue
		}
		if res.shouldWrite(res.Policies.Lookup(f), acc, pub, r, source) {
			acc.assign(pub, r)
		}
	}
}

// shouldWrite decides a single field under policy.
func (res *Resolver) shouldWrite(policy Policy, acc accessor, pub *publication.Publication, r publication.SourceRecord, source publication.Source) bool {
	switch policy {
	case AlwaysOverwrite:
		return true
	case AuthoritativeOverwrite:
		if source == res.Authority {
			return true
		}
		return !acc.set(pub)
	case LongerWins:
		if !acc.set(pub) {
			return true
		}
		if acc.length == nil {
			return false
		}
		current, incoming := acc.length(pub, r)
		return incoming > current
	default:
		return !acc.set(pub)
	}
}

// NewPublication builds a canonical publication from the first record seen
// for a work. Only source's slots are populated.
func NewPublication(r publication.SourceRecord, source publication.Source) *publication.Publication {
	pub := &publication.Publication{
		Title:      r.Title,
		Authors:    r.Authors,
		Venue:      r.Venue,
		Published:  r.Published,
		DOI:        r.DOI,
		Citations:  make(map[publication.Source]*int),
		SourceURLs: make(map[publication.Source]string),
		SourceIDs:  make(map[publication.Source]string),
		Extra:      r.Extra.Clone(),
	}
	setSlots(pub, r, source)
	return pub
}

// setSlots overwrites the per-source maps. Each source owns one key, so
// there is nothing to reconcile.
func setSlots(pub *publication.Publication, r publication.SourceRecord, source publication.Source) {
	if pub.Citations == nil {
		pub.Citations = make(map[publication.Source]*int)
	}
	if pub.SourceURLs == nil {
		pub.SourceURLs = make(map[publication.Source]string)
	}
	if pub.SourceIDs == nil {
		pub.SourceIDs = make(map[publication.Source]string)
	}
	var count *int
	if r.CitationCount != nil {
		count = publication.Int(*r.CitationCount)
	}
	pub.Citations[source] = count
	pub.SourceURLs[source] = r.SourceURL
	pub.SourceIDs[source] = r.SourceID
}
