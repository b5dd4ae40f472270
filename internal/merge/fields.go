package merge

import (
	"unicode/utf8"

	"github.com/scholarly-tools/pubmerge/internal/publication"
)

// accessor reads and writes one field on both sides of a merge.
type accessor struct {
	// set reports whether the canonical publication has a value.
	set func(p *publication.Publication) bool
	// offered reports whether the incoming record has a value.
	offered func(r publication.SourceRecord) bool
	// length compares candidate values for LongerWins. Nil means the field
	// has no meaningful length and LongerWins degrades to FirstWins.
	length func(p *publication.Publication, r publication.SourceRecord) (current, incoming int)
	// assign copies the incoming value onto the publication.
	assign func(p *publication.Publication, r publication.SourceRecord)
	// agrees, when set, must hold before the incoming value is considered.
	agrees func(p *publication.Publication, r publication.SourceRecord) bool
}

// sameYear and sameMonth keep parts of different sources' dates apart: a
// month is only taken from a record dated in the publication's year, a day
// only from one dated in its year and month.
func sameYear(p *publication.Publication, r publication.SourceRecord) bool {
	return p.Published.Year == r.Published.Year
}

func sameMonth(p *publication.Publication, r publication.SourceRecord) bool {
	return sameYear(p, r) && p.Published.Month == r.Published.Month
}

// stringField builds an accessor for a string field present on both sides.
func stringField(pub func(*publication.Publication) *string, rec func(publication.SourceRecord) string) accessor {
	return accessor{
		set:     func(p *publication.Publication) bool { return *pub(p) != "" },
		offered: func(r publication.SourceRecord) bool { return rec(r) != "" },
		length: func(p *publication.Publication, r publication.SourceRecord) (int, int) {
			return utf8.RuneCountInString(*pub(p)), utf8.RuneCountInString(rec(r))
		},
		assign: func(p *publication.Publication, r publication.SourceRecord) { *pub(p) = rec(r) },
	}
}

// intField builds an accessor for an int field where 0 means unknown.
func intField(pub func(*publication.Publication) *int, rec func(publication.SourceRecord) int) accessor {
	return accessor{
		set:     func(p *publication.Publication) bool { return *pub(p) != 0 },
		offered: func(r publication.SourceRecord) bool { return rec(r) != 0 },
		assign:  func(p *publication.Publication, r publication.SourceRecord) { *pub(p) = rec(r) },
	}
}

func withAgreement(a accessor, agrees func(*publication.Publication, publication.SourceRecord) bool) accessor {
	a.agrees = agrees
	return a
}

var accessors = map[Field]accessor{
	FieldAuthors: stringField(
		func(p *publication.Publication) *string { return &p.Authors },
		func(r publication.SourceRecord) string { return r.Authors },
	),
	FieldDOI: stringField(
		func(p *publication.Publication) *string { return &p.DOI },
		func(r publication.SourceRecord) string { return r.DOI },
	),
	FieldVenue: stringField(
		func(p *publication.Publication) *string { return &p.Venue },
		func(r publication.SourceRecord) string { return r.Venue },
	),
	FieldYear: intField(
		func(p *publication.Publication) *int { return &p.Published.Year },
		func(r publication.SourceRecord) int { return r.Published.Year },
	),
	FieldMonth: withAgreement(intField(
		func(p *publication.Publication) *int { return &p.Published.Month },
		func(r publication.SourceRecord) int { return r.Published.Month },
	), sameYear),
	FieldDay: withAgreement(intField(
		func(p *publication.Publication) *int { return &p.Published.Day },
		func(r publication.SourceRecord) int { return r.Published.Day },
	), sameMonth),
	FieldAbstract: stringField(
		func(p *publication.Publication) *string { return &p.Extra.Abstract },
		func(r publication.SourceRecord) string { return r.Extra.Abstract },
	),
	FieldOpenAccess: {
		set:     func(p *publication.Publication) bool { return p.Extra.OpenAccess != nil },
		offered: func(r publication.SourceRecord) bool { return r.Extra.OpenAccess != nil },
		assign: func(p *publication.Publication, r publication.SourceRecord) {
			p.Extra.OpenAccess = publication.Bool(*r.Extra.OpenAccess)
		},
	},
	FieldOpenAccessURL: stringField(
		func(p *publication.Publication) *string { return &p.Extra.OpenAccessURL },
		func(r publication.SourceRecord) string { return r.Extra.OpenAccessURL },
	),
	FieldFieldsOfStudy: {
		set:     func(p *publication.Publication) bool { return len(p.Extra.FieldsOfStudy) > 0 },
		offered: func(r publication.SourceRecord) bool { return len(r.Extra.FieldsOfStudy) > 0 },
		length: func(p *publication.Publication, r publication.SourceRecord) (int, int) {
			return len(p.Extra.FieldsOfStudy), len(r.Extra.FieldsOfStudy)
		},
		assign: func(p *publication.Publication, r publication.SourceRecord) {
			p.Extra.FieldsOfStudy = append([]string(nil), r.Extra.FieldsOfStudy...)
		},
	},
	FieldInfluentialCitations: {
		set:     func(p *publication.Publication) bool { return p.Extra.InfluentialCitations != nil },
		offered: func(r publication.SourceRecord) bool { return r.Extra.InfluentialCitations != nil },
		assign: func(p *publication.Publication, r publication.SourceRecord) {
			p.Extra.InfluentialCitations = publication.Int(*r.Extra.InfluentialCitations)
		},
	},
	FieldHandle: stringField(
		func(p *publication.Publication) *string { return &p.Extra.Handle },
		func(r publication.SourceRecord) string { return r.Extra.Handle },
	),
	FieldType: stringField(
		func(p *publication.Publication) *string { return &p.Extra.Type },
		func(r publication.SourceRecord) string { return r.Extra.Type },
	),
	FieldPublisher: stringField(
		func(p *publication.Publication) *string { return &p.Extra.Publisher },
		func(r publication.SourceRecord) string { return r.Extra.Publisher },
	),
}
