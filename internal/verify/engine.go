package verify

import (
	"context"
	"fmt"

	"gitcoach/internal/logging"
	"gitcoach/internal/shell"
)

// Engine evaluates check descriptors against a working directory. It is
// stateless across evaluations: each call re-derives filesystem and git
// state, so verdicts always reflect the directory as it is now.
type Engine struct {
	runner shell.Runner
	debug  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunner sets the command runner used for git introspection. Tests
// substitute fakes here.
func WithRunner(r shell.Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithDebug enables verbose evaluation tracing. Explicit so tests control
// it deterministically instead of reading process environment.
func WithDebug(debug bool) Option {
	return func(e *Engine) { e.debug = debug }
}

// NewEngine builds a validation engine. Without options it executes git
// through a LocalRunner with default limits.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{runner: shell.NewLocalRunner()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate routes a check descriptor to its evaluator and returns the
// verdict. It never panics and never returns an error: malformed
// descriptors, I/O failures and subprocess failures all become failed
// verdicts, so no lesson input can take down the tutor.
func (e *Engine) Evaluate(ctx context.Context, check Check, workDir string) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			logging.VerifyWarn("evaluator panic for %q: %v", check.Type, r)
			verdict = fail("internal error while checking %q: %v", check.Type, r)
		}
	}()

	if e.debug {
		logging.VerifyDebug("evaluate %q in %s (file=%q files=%v branch=%q)",
			check.Type, workDir, check.File, check.Files, check.Branch)
	}

	if err := check.Validate(); err != nil {
		return fail("malformed check: %v", err)
	}

	switch check.Type {
	case KindGitInitialized:
		verdict = e.evalGitInitialized(workDir)
	case KindFileExists:
		verdict = e.evalFileExists(workDir, check.File)
	case KindFilesExist:
		verdict = e.evalFilesExist(workDir, check.Files)
	case KindFileStaged:
		verdict = e.evalFileStaged(ctx, workDir, check.File)
	case KindFilesStaged:
		verdict = e.evalFilesStaged(ctx, workDir, check.Files)
	case KindFileCommitted:
		verdict = e.evalFileCommitted(ctx, workDir, check.File)
	case KindCommitExists:
		verdict = e.evalCommitExists(ctx, workDir, check.Message)
	case KindBranchExists:
		verdict = e.evalBranchExists(ctx, workDir, check.Branch)
	case KindBranchActive:
		verdict = e.evalBranchActive(ctx, workDir, check.Branch)
	case KindFileContains:
		verdict = e.evalFileContains(workDir, check.File, check.Content)
	default:
		// Validate catches this already; kept so a future kind without an
		// evaluator degrades to a verdict instead of a zero value.
		verdict = fail("unknown check type %q", check.Type)
	}

	if e.debug {
		logging.VerifyDebug("verdict for %q: passed=%v msg=%q resolved=%q",
			check.Type, verdict.Passed, verdict.Message, verdict.ResolvedPath)
	}
	return verdict
}

// caseWarning formats the non-fatal notice attached when a check passes
// through a case-insensitive match.
func caseWarning(expected, actual string) string {
	return fmt.Sprintf("expected %q but found %q; filenames are case-sensitive to git, consider renaming", expected, actual)
}
