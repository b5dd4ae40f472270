// Package metrics computes per-publication and aggregate citation indices.
package metrics

import (
	"sort"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// I10Threshold is the citation count a work needs to count toward the i10-index.
const I10Threshold = 10

// TotalCitations returns the largest citation count reported by any source.
// Sources count overlapping sets of citing works, so summing would inflate
// the figure. Absent and nil slots are ignored.
func TotalCitations(p *publication.Publication) int {
	best := 0
	for _, c := range p.Citations {
		if c != nil && *c > best {
			best = *c
		}
	}
	return best
}

// CitationSourceCount returns how many sources reported a citation count.
func CitationSourceCount(p *publication.Publication) int {
	n := 0
	for _, c := range p.Citations {
		if c != nil {
			n++
		}
	}
	return n
}

// HIndex returns the largest h such that at least h counts are >= h.
func HIndex(counts []int) int {
	sorted := append([]int(nil), counts...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	h := 0
	for i, c := range sorted {
		if c < i+1 {
			break
		}
		h = i + 1
	}
	return h
}

// I10Index returns the number of counts that are at least I10Threshold.
func I10Index(counts []int) int {
	n := 0
	for _, c := range counts {
		if c >= I10Threshold {
			n++
		}
	}
	return n
}

// Annotate fills in the Metrics block of every publication.
func Annotate(pubs []*publication.Publication) {
	for _, p := range pubs {
		p.Metrics = publication.Metrics{
			TotalCitations:      TotalCitations(p),
			CitationSourceCount: CitationSourceCount(p),
		}
	}
}

// Compute annotates pubs and returns the aggregate indices over them.
// Coverage counts publications each source contributed to. Sources lists
// indices computed from that source's citation slot alone.
func Compute(pubs []*publication.Publication) publication.AggregateMetrics {
	Annotate(pubs)

	agg := publication.AggregateMetrics{
		TotalPublications: len(pubs),
		Coverage:          make(map[publication.Source]int),
		Sources:           make(map[publication.Source]publication.SourceMetrics),
	}

	totals := make([]int, 0, len(pubs))
	perSource := make(map[publication.Source][]int)
	for _, p := range pubs {
		totals = append(totals, p.Metrics.TotalCitations)
		agg.TotalCitations += p.Metrics.TotalCitations

		for s := range p.SourceIDs {
			agg.Coverage[s]++
		}
		for s, c := range p.Citations {
			if c != nil {
				perSource[s] = append(perSource[s], *c)
			}
		}
	}
	agg.HIndex = HIndex(totals)
	agg.I10Index = I10Index(totals)

	for s, counts := range perSource {
		sum := 0
		for _, c := range counts {
			sum += c
		}
		agg.Sources[s] = publication.SourceMetrics{
			Publications: len(counts),
			Citations:    sum,
			HIndex:       HIndex(counts),
			I10Index:     I10Index(counts),
		}
	}
	return agg
}
