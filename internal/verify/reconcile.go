package verify

import "strings"

// MatchKind classifies the outcome of reconciling an expected path against
// a candidate set.
type MatchKind int

const (
	// NoMatch means nothing matched, even ignoring case.
	NoMatch MatchKind = iota

	// ExactMatch means the expected path is present verbatim.
	ExactMatch

	// CaseInsensitiveMatch means exactly one candidate matched when
	// compared case-insensitively.
	CaseInsensitiveMatch

	// AmbiguousMatch means two or more candidates matched
	// case-insensitively; the engine never guesses which is authoritative.
	AmbiguousMatch
)

// Match is the central decision type threaded through every evaluator. It
// is computed and consumed within a single evaluation call.
type Match struct {
	Kind MatchKind

	// Path is the matched candidate for ExactMatch and
	// CaseInsensitiveMatch.
	Path string

	// Candidates holds every colliding entry for AmbiguousMatch.
	Candidates []string
}

// Reconcile decides how an expected normalized path relates to a candidate
// list (directory entries or git entries). Pure and total: it never touches
// the filesystem or subprocesses.
func Reconcile(candidates []string, expected string) Match {
	for _, c := range candidates {
		if c == expected {
			return Match{Kind: ExactMatch, Path: c}
		}
	}

	var found []string
	for _, c := range candidates {
		if strings.EqualFold(c, expected) {
			found = append(found, c)
		}
	}

	switch len(found) {
	case 0:
		return Match{Kind: NoMatch}
	case 1:
		return Match{Kind: CaseInsensitiveMatch, Path: found[0]}
	default:
		return Match{Kind: AmbiguousMatch, Candidates: found}
	}
}
