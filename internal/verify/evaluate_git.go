package verify

import (
	"context"
	"strings"
)

// evalFileStaged passes when the expected path reconciles against the
// staged entry list, exactly or as a unique case-insensitive match. The
// index preserves exact case, so a tolerated mismatch gets a warning
// naming the actual staged casing.
func (e *Engine) evalFileStaged(ctx context.Context, workDir, file string) Verdict {
	expected := NormalizeRelative(file)

	staged, err := e.stagedEntries(ctx, workDir)
	if err != nil {
		return fail("Failed to check git status: %v. Is this a git repository?", err)
	}

	m := Reconcile(staged, expected)
	switch m.Kind {
	case ExactMatch:
		v := pass("File " + m.Path + " is staged.")
		v.ResolvedPath = m.Path
		return v
	case CaseInsensitiveMatch:
		v := pass("File " + m.Path + " is staged.")
		v.ResolvedPath = m.Path
		v.Warnings = append(v.Warnings, caseWarning(expected, m.Path))
		return v
	case AmbiguousMatch:
		return fail("%v", &AmbiguityError{Expected: expected, Candidates: m.Candidates})
	default:
		return fail("%q is not staged yet. Try: git add %s", expected, expected)
	}
}

// evalFilesStaged checks every path against the staged entry list and
// aggregates the ones still missing.
func (e *Engine) evalFilesStaged(ctx context.Context, workDir string, files []string) Verdict {
	staged, err := e.stagedEntries(ctx, workDir)
	if err != nil {
		return fail("Failed to check git status: %v. Is this a git repository?", err)
	}

	var notStaged, warnings []string
	for _, f := range files {
		expected := NormalizeRelative(f)
		m := Reconcile(staged, expected)
		switch m.Kind {
		case NoMatch:
			notStaged = append(notStaged, expected)
		case CaseInsensitiveMatch:
			warnings = append(warnings, caseWarning(expected, m.Path))
		case AmbiguousMatch:
			return fail("%v", &AmbiguityError{Expected: expected, Candidates: m.Candidates})
		}
	}

	if len(notStaged) > 0 {
		return fail("Not staged yet: %s. Try: git add %s", strings.Join(notStaged, ", "), strings.Join(notStaged, " "))
	}

	v := pass("All files are staged.")
	v.Warnings = warnings
	return v
}

// evalFileCommitted walks the learner through the create/stage/commit
// progression with a stage-appropriate hint at each failure:
//
//	file missing        -> create it
//	no history, unstaged -> stage it
//	no history, staged   -> commit it
//	history found        -> pass
//
// The path used for the git-log lookup is reconciled against the tracked
// entry list, not the staged list: a committed file is by definition
// tracked, and the tracked list carries the exact in-git casing.
func (e *Engine) evalFileCommitted(ctx context.Context, workDir, file string) Verdict {
	expected := NormalizeRelative(file)

	st := e.statPath(workDir, expected)
	switch {
	case st.ambi != nil:
		return fail("%v", st.ambi)
	case !st.exists:
		return fail("File %q not found. Create it first (for example: touch %s)", expected, expected)
	case st.isDir:
		return fail("Found a folder named %q where a file was expected. Rename or remove the folder yourself, then create the file", st.resolved)
	}

	tracked, err := e.trackedEntries(ctx, workDir)
	if err != nil {
		return fail("Failed to check git status: %v. Is this a git repository?", err)
	}

	logPath := st.resolved
	var warnings []string
	m := Reconcile(tracked, st.resolved)
	switch m.Kind {
	case ExactMatch, CaseInsensitiveMatch:
		logPath = m.Path
		if m.Kind == CaseInsensitiveMatch {
			warnings = append(warnings, caseWarning(st.resolved, m.Path))
		}
	case AmbiguousMatch:
		return fail("%v", &AmbiguityError{Expected: st.resolved, Candidates: m.Candidates})
	}

	committed, err := e.fileHasHistory(ctx, workDir, logPath)
	if err != nil {
		return fail("Failed to check git history: %v", err)
	}
	if !committed {
		staged, err := e.stagedEntries(ctx, workDir)
		if err != nil {
			return fail("Failed to check git status: %v. Is this a git repository?", err)
		}
		if sm := Reconcile(staged, st.resolved); sm.Kind == ExactMatch || sm.Kind == CaseInsensitiveMatch {
			return fail("%q is staged but not committed yet. Try: git commit -m \"your message\"", st.resolved)
		}
		return fail("%q exists but isn't staged yet. Try: git add %s", st.resolved, st.resolved)
	}

	v := pass("File " + logPath + " has been committed.")
	v.ResolvedPath = logPath
	if st.caseDiff {
		warnings = append(warnings, caseWarning(expected, st.resolved))
	}
	v.Warnings = warnings
	return v
}

// evalCommitExists passes when at least one commit exists and, if a
// message substring is given, the latest commit's message contains it.
func (e *Engine) evalCommitExists(ctx context.Context, workDir, message string) Verdict {
	latest, err := e.latestCommitMessage(ctx, workDir)
	if err != nil {
		// git log exits non-zero both for "no commits" and "not a repo";
		// either way the remedy is the same first step for the learner.
		return fail("No commits found. Try: git commit -m \"your message\"")
	}
	if message != "" && !strings.Contains(latest, message) {
		return fail("Latest commit message doesn't match. Expected it to contain %q, got %q", message, latest)
	}
	return pass("Commit found.")
}

// evalBranchExists passes when the branch name appears in the local branch
// list after stripping the current-branch marker.
func (e *Engine) evalBranchExists(ctx context.Context, workDir, branch string) Verdict {
	names, err := e.branchNames(ctx, workDir)
	if err != nil {
		return fail("Failed to check git branches: %v. Is this a git repository?", err)
	}
	for _, n := range names {
		if n == branch {
			return pass("Branch " + branch + " exists.")
		}
	}
	return fail("Branch %q not found. Try: git branch %s", branch, branch)
}

// evalBranchActive passes when the checked-out branch equals the expected
// name.
func (e *Engine) evalBranchActive(ctx context.Context, workDir, branch string) Verdict {
	current, err := e.currentBranch(ctx, workDir)
	if err != nil {
		return fail("Failed to check the current branch: %v. Is this a git repository?", err)
	}
	if current != branch {
		return fail("Not on branch %q (currently on %q). Try: git checkout %s", branch, current, branch)
	}
	return pass("On branch " + branch + ".")
}
