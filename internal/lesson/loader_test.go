package lesson

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"gitcoach/internal/verify"
)

func TestLoad_Builtins(t *testing.T) {
	lessons, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lessons) < 3 {
		t.Fatalf("expected at least 3 builtin lessons, got %d", len(lessons))
	}
	for _, l := range lessons {
		if err := l.Validate(); err != nil {
			t.Errorf("builtin lesson %q invalid: %v", l.Name, err)
		}
	}
	// Sorted by name.
	for i := 1; i < len(lessons); i++ {
		if lessons[i-1].Name >= lessons[i].Name {
			t.Errorf("lessons not sorted: %q before %q", lessons[i-1].Name, lessons[i].Name)
		}
	}
}

func TestLoad_BuiltinsCoverEveryCheckKind(t *testing.T) {
	lessons, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	seen := make(map[verify.CheckKind]bool)
	for _, l := range lessons {
		for _, s := range l.Steps {
			seen[s.Check.Type] = true
		}
	}
	for _, kind := range verify.Kinds {
		if !seen[kind] {
			t.Errorf("no builtin lesson exercises check kind %q", kind)
		}
	}
}

func TestLoad_DirectoryLessons(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "custom.yaml", `
name: custom-lesson
title: Custom
description: user supplied
steps:
  - title: Make a file
    instructions: Create hello.txt
    check:
      type: file-exists
      file: hello.txt
`)

	lessons, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l, ok := Find(lessons, "custom-lesson")
	if !ok {
		t.Fatal("custom-lesson not loaded")
	}
	if l.Steps[0].Check.File != "hello.txt" {
		t.Errorf("check file = %q", l.Steps[0].Check.File)
	}
}

func TestLoad_DirectoryOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "override.yaml", `
name: first-repository
title: Replaced First Repository
description: overridden by the user
steps:
  - title: Init
    instructions: Run git init
    check:
      type: git-initialized
`)

	lessons, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l, ok := Find(lessons, "first-repository")
	if !ok {
		t.Fatal("first-repository missing")
	}
	if l.Title != "Replaced First Repository" {
		t.Errorf("builtin not overridden, title = %q", l.Title)
	}
}

func TestLoad_MalformedFileSkippedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeLesson(t, dir, "good.yaml", `
name: good-lesson
title: Good
description: fine
steps:
  - title: Init
    instructions: Run git init
    check:
      type: git-initialized
`)
	writeLesson(t, dir, "bad-yaml.yaml", "steps: [unclosed")
	writeLesson(t, dir, "bad-check.yaml", `
name: bad-check
title: Bad Check
description: unknown kind
steps:
  - title: Whatever
    instructions: Do something
    check:
      type: file-is-blessed
      file: a.txt
`)

	lessons, err := Load(context.Background(), dir)
	if err == nil {
		t.Error("expected an error reporting the skipped files")
	}
	if _, ok := Find(lessons, "good-lesson"); !ok {
		t.Error("valid lesson lost because a sibling was malformed")
	}
	if _, ok := Find(lessons, "bad-check"); ok {
		t.Error("lesson with an unknown check kind must not load")
	}
}

func TestLoad_MissingDirReported(t *testing.T) {
	lessons, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("expected an error for a missing lessons dir")
	}
	if len(lessons) == 0 {
		t.Error("builtins must still load")
	}
}

func TestLessonValidate(t *testing.T) {
	base := Lesson{
		Name:  "x",
		Title: "X",
		Steps: []Step{{
			Title:        "s",
			Instructions: "do it",
			Check:        verify.Check{Type: verify.KindGitInitialized},
		}},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid lesson rejected: %v", err)
	}

	noSteps := base
	noSteps.Steps = nil
	if err := noSteps.Validate(); err == nil {
		t.Error("lesson without steps must be rejected")
	}

	badCheck := base
	badCheck.Steps = []Step{{Title: "s", Instructions: "do", Check: verify.Check{Type: verify.KindFileExists}}}
	if err := badCheck.Validate(); err == nil {
		t.Error("step with an incomplete check must be rejected")
	}
}

func writeLesson(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
