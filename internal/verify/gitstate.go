package verify

import (
	"context"
	"fmt"
	"strings"

	"gitcoach/internal/logging"
	"gitcoach/internal/shell"
)

// ErrGitState marks failures to read git state (non-zero exit, timeout,
// spawn error). Evaluators surface it as "failed to check git status",
// distinct from "not found", so the learner does not mistake an
// infrastructure problem for missing progress.
var ErrGitState = fmt.Errorf("failed to read git state")

// git runs a git subcommand in dir and returns its stdout. A zero exit
// status is the sole success signal.
func (e *Engine) git(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := e.runner.Run(ctx, shell.Command{Binary: "git", Args: args, Dir: dir})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGitState, err)
	}
	if !res.Ran() {
		return "", fmt.Errorf("%w: %s", ErrGitState, res.Err)
	}
	if res.ExitCode != 0 {
		logging.VerifyDebug("git %s exited %d: %s", strings.Join(args, " "), res.ExitCode, strings.TrimSpace(res.Stderr))
		return "", fmt.Errorf("%w: git %s exited %d", ErrGitState, args[0], res.ExitCode)
	}
	return res.Stdout, nil
}

// stagedEntries returns the paths registered in git's index awaiting
// commit, as exact case-preserving relative paths.
func (e *Engine) stagedEntries(ctx context.Context, dir string) ([]string, error) {
	out, err := e.git(ctx, dir, "diff", "--cached", "--name-only", "-z")
	if err != nil {
		return nil, err
	}
	return parseEntryList(out), nil
}

// trackedEntries returns every path git has added to its managed tree.
func (e *Engine) trackedEntries(ctx context.Context, dir string) ([]string, error) {
	out, err := e.git(ctx, dir, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	return parseEntryList(out), nil
}

// parseEntryList parses NUL-delimited git listing output into normalized
// relative paths, dropping empty entries. Order is irrelevant to callers;
// uniqueness is git's concern except where evaluators check ambiguity
// explicitly.
func parseEntryList(out string) []string {
	parts := strings.Split(out, "\x00")
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		n := NormalizeRelative(p)
		if n != "" {
			entries = append(entries, n)
		}
	}
	return entries
}

// latestCommitMessage returns the full message of the most recent commit.
// The error distinguishes "no commits" (ErrGitState from a non-zero exit)
// only at the evaluator level, where it is treated as "no commits found".
func (e *Engine) latestCommitMessage(ctx context.Context, dir string) (string, error) {
	out, err := e.git(ctx, dir, "log", "-1", "--pretty=%B")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// branchNames lists local branches, with the current-branch and worktree
// markers stripped.
func (e *Engine) branchNames(ctx context.Context, dir string) ([]string, error) {
	out, err := e.git(ctx, dir, "branch", "--list")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(out, "\n") {
		// Only the two-character markers are decoration; anything past
		// them, including an unusual leading "+" in the name itself,
		// belongs to the branch.
		name := strings.TrimPrefix(line, "* ")
		name = strings.TrimPrefix(name, "+ ")
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// currentBranch returns the name of the checked-out branch.
func (e *Engine) currentBranch(ctx context.Context, dir string) (string, error) {
	out, err := e.git(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// fileHasHistory reports whether at least one commit touches relPath.
func (e *Engine) fileHasHistory(ctx context.Context, dir, relPath string) (bool, error) {
	out, err := e.git(ctx, dir, "log", "--oneline", "--", relPath)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}
