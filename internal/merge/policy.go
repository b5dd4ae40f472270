// Package merge reconciles an incoming source record with its canonical
// publication using a per-field precedence table.
package merge

import "fmt"

// Policy decides whether an incoming field value replaces the canonical one.
// Incoming empty values never replace anything.
type Policy int

const (
	// FirstWins writes only when the canonical field is unset.
	FirstWins Policy = iota
	// AlwaysOverwrite writes whenever the incoming record has a value.
	AlwaysOverwrite
	// LongerWins writes when the incoming value is strictly longer.
	LongerWins
	// AuthoritativeOverwrite behaves as AlwaysOverwrite for the authority
	// source and as FirstWins for every other source.
	AuthoritativeOverwrite
)

var policyNames = map[Policy]string{
	FirstWins:              "first_wins",
	AlwaysOverwrite:        "always_overwrite",
	LongerWins:             "longer_wins",
	AuthoritativeOverwrite: "authoritative_overwrite",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy parses a policy name as printed by String.
func ParsePolicy(name string) (Policy, error) {
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown merge policy: %q", name)
}

// Field names a mergeable publication field.
type Field string

const (
	FieldAuthors              Field = "authors"
	FieldDOI                  Field = "doi"
	FieldVenue                Field = "venue"
	FieldYear                 Field = "year"
	FieldMonth                Field = "month"
	FieldDay                  Field = "day"
	FieldAbstract             Field = "abstract"
	FieldOpenAccess           Field = "open_access"
	FieldOpenAccessURL        Field = "open_access_url"
	FieldFieldsOfStudy        Field = "fields_of_study"
	FieldInfluentialCitations Field = "influential_citations"
	FieldHandle               Field = "handle"
	FieldType                 Field = "type"
	FieldPublisher            Field = "publisher"
)

// Fields lists every mergeable field in the order MergeInto applies them.
func Fields() []Field {
	return []Field{
		FieldAuthors,
		FieldDOI,
		FieldVenue,
		FieldYear,
		FieldMonth,
		FieldDay,
		FieldAbstract,
		FieldOpenAccess,
		FieldOpenAccessURL,
		FieldFieldsOfStudy,
		FieldInfluentialCitations,
		FieldHandle,
		FieldType,
		FieldPublisher,
	}
}

// Policies maps each field to its merge policy. Fields missing from the
// table fall back to FirstWins.
type Policies map[Field]Policy

// DefaultPolicies returns the standard precedence table: the authority owns
// author strings, the longest venue name wins, and everything else is filled
// by the first source that supplies it.
func DefaultPolicies() Policies {
	p := make(Policies, len(Fields()))
	for _, f := range Fields() {
		p[f] = FirstWins
	}
	p[FieldAuthors] = AuthoritativeOverwrite
	p[FieldVenue] = LongerWins
	return p
}

// Lookup returns the policy for f.
func (p Policies) Lookup(f Field) Policy {
	if policy, ok := p[f]; ok {
		return policy
	}
	return FirstWins
}
