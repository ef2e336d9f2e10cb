package verify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReconcile_ExactMatch(t *testing.T) {
	m := Reconcile([]string{"a.txt", "README.md", "b.txt"}, "README.md")
	if m.Kind != ExactMatch {
		t.Fatalf("expected ExactMatch, got %v", m.Kind)
	}
	if m.Path != "README.md" {
		t.Errorf("expected README.md, got %q", m.Path)
	}
}

func TestReconcile_ExactBeatsCaseVariant(t *testing.T) {
	// A verbatim hit wins even when other case-variants are present.
	m := Reconcile([]string{"readme.md", "README.md"}, "README.md")
	if m.Kind != ExactMatch || m.Path != "README.md" {
		t.Fatalf("expected exact README.md, got kind=%v path=%q", m.Kind, m.Path)
	}
}

func TestReconcile_CaseInsensitiveMatch(t *testing.T) {
	m := Reconcile([]string{"readme.md", "other.txt"}, "README.md")
	if m.Kind != CaseInsensitiveMatch {
		t.Fatalf("expected CaseInsensitiveMatch, got %v", m.Kind)
	}
	if m.Path != "readme.md" {
		t.Errorf("expected resolved readme.md, got %q", m.Path)
	}
}

func TestReconcile_NoMatch(t *testing.T) {
	m := Reconcile([]string{"a.txt", "b.txt"}, "README.md")
	if m.Kind != NoMatch {
		t.Fatalf("expected NoMatch, got %v", m.Kind)
	}
}

func TestReconcile_Ambiguous(t *testing.T) {
	m := Reconcile([]string{"readme.md", "Readme.md", "other.txt"}, "README.md")
	if m.Kind != AmbiguousMatch {
		t.Fatalf("expected AmbiguousMatch, got %v", m.Kind)
	}
	want := []string{"readme.md", "Readme.md"}
	if diff := cmp.Diff(want, m.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_EmptyCandidates(t *testing.T) {
	if m := Reconcile(nil, "README.md"); m.Kind != NoMatch {
		t.Fatalf("expected NoMatch on empty list, got %v", m.Kind)
	}
}
