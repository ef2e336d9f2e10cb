package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitcoach/internal/logging"
)

// AmbiguityError reports that two or more directory entries collide
// case-insensitively with the expected name. The engine cannot resolve
// this automatically; the learner must reduce the colliding entries to one.
type AmbiguityError struct {
	Expected   string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("multiple entries differ only by case from %q: %s; remove or rename all but one",
		e.Expected, strings.Join(e.Candidates, ", "))
}

// resolveActualName inspects the entries of dir for the expected base name,
// tolerating casing differences. It returns the actual on-disk name and
// whether anything was found. An unreadable directory means "nothing
// found", not an error — the learner may simply not have created it yet.
// The only error is ambiguity.
func resolveActualName(dir, expected string) (string, bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.VerifyDebug("resolve: cannot read %s: %v", dir, err)
		return "", false, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	m := Reconcile(names, expected)
	switch m.Kind {
	case ExactMatch, CaseInsensitiveMatch:
		return m.Path, true, nil
	case AmbiguousMatch:
		return "", false, &AmbiguityError{Expected: expected, Candidates: m.Candidates}
	default:
		return "", false, nil
	}
}

// resolveRelPath resolves a normalized relative path against the working
// directory, case-tolerating only the final path element. It returns the
// resolved relative path (actual casing), whether it exists, and an
// ambiguity error when applicable.
func resolveRelPath(workDir, relPath string) (string, bool, error) {
	relDir, base := splitRel(relPath)
	dir := workDir
	if relDir != "" {
		dir = filepath.Join(workDir, filepath.FromSlash(relDir))
	}

	actual, found, err := resolveActualName(dir, base)
	if err != nil || !found {
		return "", found, err
	}
	if relDir == "" {
		return actual, true, nil
	}
	return relDir + "/" + actual, true, nil
}

// splitRel splits a normalized relative path into its directory part
// (forward-slash form, "" for none) and base name.
func splitRel(relPath string) (dir, base string) {
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		return relPath[:i], relPath[i+1:]
	}
	return "", relPath
}
