// Package verify is the state validation engine of gitcoach. Given a
// declarative check descriptor and a working directory, it decides whether a
// lesson step's goal has been achieved by inspecting actual filesystem and
// git state, never by parsing the command the learner typed.
//
// The engine reconciles two different notions of "a file": the filesystem's
// (case-insensitive on some platforms) and git's (case-preserving, case-
// sensitive in comparisons). Its policy throughout: tolerate a unique
// case-insensitive match (pass, with a warning naming the actual casing),
// fail only on true absence or genuine ambiguity.
//
// Design principles:
//   - Stateless: every evaluation re-reads filesystem and git state fresh.
//   - Read-only: the engine never writes to the working directory.
//   - Contained: no input, however malformed, escapes as a panic or fault;
//     everything becomes a Verdict.
package verify

import "fmt"

// CheckKind is the discriminant of a check descriptor.
type CheckKind string

const (
	KindGitInitialized CheckKind = "git-initialized"
	KindFileExists     CheckKind = "file-exists"
	KindFilesExist     CheckKind = "files-exist"
	KindFileStaged     CheckKind = "file-staged"
	KindFilesStaged    CheckKind = "files-staged"
	KindFileCommitted  CheckKind = "file-committed"
	KindCommitExists   CheckKind = "commit-exists"
	KindBranchExists   CheckKind = "branch-exists"
	KindBranchActive   CheckKind = "branch-active"
	KindFileContains   CheckKind = "file-contains"
)

// Kinds lists every known check kind.
var Kinds = []CheckKind{
	KindGitInitialized,
	KindFileExists,
	KindFilesExist,
	KindFileStaged,
	KindFilesStaged,
	KindFileCommitted,
	KindCommitExists,
	KindBranchExists,
	KindBranchActive,
	KindFileContains,
}

// Check is the declarative descriptor of one validation. Lesson authors
// write these, so the field shape is an external contract and must not
// change: a kind tag plus kind-specific optional fields.
type Check struct {
	Type    CheckKind `json:"type" yaml:"type"`
	File    string    `json:"file,omitempty" yaml:"file,omitempty"`
	Files   []string  `json:"files,omitempty" yaml:"files,omitempty"`
	Branch  string    `json:"branch,omitempty" yaml:"branch,omitempty"`
	Message string    `json:"message,omitempty" yaml:"message,omitempty"`
	Content string    `json:"content,omitempty" yaml:"content,omitempty"`
}

// Validate reports whether the descriptor carries the required fields for
// its kind. A failing descriptor is a defect in the lesson, not the
// learner's terminal state, and the engine fails it closed.
func (c Check) Validate() error {
	switch c.Type {
	case KindGitInitialized, KindCommitExists:
		// No required fields. Message on commit-exists is optional.
	case KindFileExists, KindFileStaged, KindFileCommitted:
		if c.File == "" {
			return fmt.Errorf("check %q requires a file", c.Type)
		}
	case KindFilesExist, KindFilesStaged:
		if len(c.Files) == 0 {
			return fmt.Errorf("check %q requires a files list", c.Type)
		}
	case KindBranchExists, KindBranchActive:
		if c.Branch == "" {
			return fmt.Errorf("check %q requires a branch", c.Type)
		}
	case KindFileContains:
		if c.File == "" {
			return fmt.Errorf("check %q requires a file", c.Type)
		}
		if c.Content == "" {
			return fmt.Errorf("check %q requires content", c.Type)
		}
	default:
		return fmt.Errorf("unknown check type %q", c.Type)
	}
	return nil
}

// Verdict is the outcome of evaluating one check.
type Verdict struct {
	// Passed reports whether the step's goal has been achieved.
	Passed bool `json:"passed"`

	// Message is a human-actionable explanation. On failure it always
	// names a concrete next action, except for case-ambiguity which the
	// learner must resolve by hand.
	Message string `json:"message"`

	// ResolvedPath is the actual on-disk or in-git casing discovered
	// during this evaluation, when it differs from (or confirms) the
	// expected path. The engine does not persist it; every evaluation
	// re-derives matches from current state.
	ResolvedPath string `json:"resolved_path,omitempty"`

	// Warnings are non-fatal notices (e.g. a filename casing mismatch
	// the engine tolerated). The caller decides how to display them.
	Warnings []string `json:"warnings,omitempty"`
}

// pass builds a passing verdict.
func pass(message string) Verdict {
	return Verdict{Passed: true, Message: message}
}

// fail builds a failing verdict.
func fail(format string, args ...interface{}) Verdict {
	return Verdict{Passed: false, Message: fmt.Sprintf(format, args...)}
}
