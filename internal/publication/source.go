package publication

import "fmt"

// Source names one external provider of bibliographic data.
type Source string

// Built-in sources.
const (
	SourceORCID           Source = "orcid"           // Identity registry
	SourceScholar         Source = "scholar"         // Search-engine profile scrape
	SourceIRIS            Source = "iris"            // Institutional repository
	SourceScopus          Source = "scopus"          // Citation index
	SourceWoS             Source = "wos"             // Citation index
	SourceCrossref        Source = "crossref"        // DOI-registration authority
	SourceSemanticScholar Source = "semanticscholar" // Semantic-graph API
)

// Authority is the source whose author strings overwrite earlier ones.
const Authority = SourceCrossref

// DefaultOrder returns the default source precedence order. The DOI authority
// runs after the other bibliographic sources so it can correct their author
// strings; the semantic graph only contributes citations and extras.
func DefaultOrder() []Source {
	return []Source{
		SourceORCID,
		SourceScholar,
		SourceIRIS,
		SourceScopus,
		SourceWoS,
		SourceCrossref,
		SourceSemanticScholar,
	}
}

// ParseSource validates a source name against the built-in sources.
func ParseSource(name string) (Source, error) {
	for _, s := range DefaultOrder() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown source: %q", name)
}
