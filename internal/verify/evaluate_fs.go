package verify

import (
	"os"
	"path/filepath"
	"strings"
)

// evalGitInitialized passes when a .git directory exists under the working
// directory.
func (e *Engine) evalGitInitialized(workDir string) Verdict {
	info, err := os.Stat(filepath.Join(workDir, ".git"))
	if err != nil || !info.IsDir() {
		return fail("No git repository found here. Try: git init")
	}
	return pass("Git repository initialized.")
}

// fileState is the result of resolving one expected path to its on-disk
// casing and statting it. Shared by the file evaluators.
type fileState struct {
	resolved string // actual relative path, "" when absent
	exists   bool
	isDir    bool
	caseDiff bool
	ambi     *AmbiguityError
}

func (e *Engine) statPath(workDir, file string) fileState {
	expected := NormalizeRelative(file)
	resolved, found, err := resolveRelPath(workDir, expected)
	if err != nil {
		if ae, ok := err.(*AmbiguityError); ok {
			return fileState{ambi: ae}
		}
		return fileState{}
	}
	if !found {
		return fileState{}
	}

	st := fileState{resolved: resolved, exists: true, caseDiff: resolved != expected}
	if info, err := os.Stat(filepath.Join(workDir, filepath.FromSlash(resolved))); err == nil {
		st.isDir = info.IsDir()
	}
	return st
}

// evalFileExists passes when the expected path resolves to a regular file,
// tolerating casing differences. A directory where a file was expected is
// its own failure: the fix is a rename, never mkdir, and the engine never
// removes anything on the learner's behalf.
func (e *Engine) evalFileExists(workDir, file string) Verdict {
	expected := NormalizeRelative(file)
	st := e.statPath(workDir, expected)

	switch {
	case st.ambi != nil:
		return fail("%v", st.ambi)
	case !st.exists:
		return fail("File %q not found. Create it to continue (for example: touch %s)", expected, expected)
	case st.isDir:
		return fail("Found a folder named %q where a file was expected. Rename or remove the folder yourself, then create the file (do not mkdir)", st.resolved)
	}

	v := pass("File " + st.resolved + " exists.")
	v.ResolvedPath = st.resolved
	if st.caseDiff {
		v.Warnings = append(v.Warnings, caseWarning(expected, st.resolved))
	}
	return v
}

// evalFilesExist checks every path in the list. Wrong-type failures take
// priority over missing files and are aggregated into one message, as are
// the missing paths.
func (e *Engine) evalFilesExist(workDir string, files []string) Verdict {
	var missing, wrongType, warnings []string

	for _, f := range files {
		expected := NormalizeRelative(f)
		st := e.statPath(workDir, expected)
		switch {
		case st.ambi != nil:
			return fail("%v", st.ambi)
		case !st.exists:
			missing = append(missing, expected)
		case st.isDir:
			wrongType = append(wrongType, st.resolved)
		case st.caseDiff:
			warnings = append(warnings, caseWarning(expected, st.resolved))
		}
	}

	if len(wrongType) > 0 {
		return fail("Found folders where files were expected: %s. Rename or remove them yourself, then create the files (do not mkdir)", strings.Join(wrongType, ", "))
	}
	if len(missing) > 0 {
		return fail("Files not found: %s. Create them to continue", strings.Join(missing, ", "))
	}

	v := pass("All files exist.")
	v.Warnings = warnings
	return v
}

// evalFileContains passes when the file resolves to a regular file whose
// full text contains the expected substring.
func (e *Engine) evalFileContains(workDir, file, content string) Verdict {
	expected := NormalizeRelative(file)
	st := e.statPath(workDir, expected)

	switch {
	case st.ambi != nil:
		return fail("%v", st.ambi)
	case !st.exists:
		return fail("File %q not found. Create it to continue (for example: touch %s)", expected, expected)
	case st.isDir:
		return fail("Expected a file but found a folder named %q. Rename or remove the folder yourself, then create the file", st.resolved)
	}

	data, err := os.ReadFile(filepath.Join(workDir, filepath.FromSlash(st.resolved)))
	if err != nil {
		return fail("Could not read %q: %v", st.resolved, err)
	}
	if !strings.Contains(string(data), content) {
		return fail("%s doesn't contain the expected content yet. Expected it to include: %q", st.resolved, content)
	}

	v := pass("File " + st.resolved + " contains the expected content.")
	v.ResolvedPath = st.resolved
	if st.caseDiff {
		v.Warnings = append(v.Warnings, caseWarning(expected, st.resolved))
	}
	return v
}
