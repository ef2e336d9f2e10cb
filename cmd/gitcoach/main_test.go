package main

import (
	"path/filepath"
	"testing"

	"gitcoach/internal/lesson"
	"gitcoach/internal/progress"
	"gitcoach/internal/verify"
)

func sampleLessons() []lesson.Lesson {
	step := func(file string) lesson.Step {
		return lesson.Step{
			Title:        "make " + file,
			Instructions: "create " + file,
			Check:        verify.Check{Type: verify.KindFileExists, File: file},
		}
	}
	return []lesson.Lesson{
		{Name: "alpha", Title: "Alpha", Steps: []lesson.Step{step("a.txt"), step("b.txt")}},
		{Name: "beta", Title: "Beta", Steps: []lesson.Step{step("c.txt")}},
	}
}

func TestPickLesson_ByName(t *testing.T) {
	l, err := pickLesson(sampleLessons(), "beta", nil)
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "beta" {
		t.Errorf("picked %q", l.Name)
	}

	if _, err := pickLesson(sampleLessons(), "nope", nil); err == nil {
		t.Error("expected an error for an unknown lesson")
	}
}

func TestPickLesson_FirstWithoutStore(t *testing.T) {
	l, err := pickLesson(sampleLessons(), "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "alpha" {
		t.Errorf("picked %q", l.Name)
	}
}

func TestPickLesson_SkipsFinishedLessons(t *testing.T) {
	store, err := progress.NewStore(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	// alpha fully passed, beta untouched.
	store.RecordStep("alpha", 0, true)
	store.RecordStep("alpha", 1, true)

	l, err := pickLesson(sampleLessons(), "", store)
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "beta" {
		t.Errorf("picked %q, want beta", l.Name)
	}
}

func TestPickLesson_PartialLessonResumes(t *testing.T) {
	store, err := progress.NewStore(filepath.Join(t.TempDir(), "progress.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	store.RecordStep("alpha", 0, true)
	store.RecordStep("alpha", 1, false)

	l, err := pickLesson(sampleLessons(), "", store)
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "alpha" {
		t.Errorf("picked %q, want alpha", l.Name)
	}
}

func TestPickLesson_Empty(t *testing.T) {
	if _, err := pickLesson(nil, "", nil); err == nil {
		t.Error("expected an error for an empty lesson set")
	}
}
