// Package lesson loads and validates lesson documents.
//
// A lesson is a YAML file: metadata plus an ordered list of steps. Each
// step carries markdown instructions for the learner, an optional hint,
// optional setup commands run in the sandbox before the step starts, and
// the check descriptor that decides when the step is complete.
//
// Validation fails closed: a lesson whose checks cannot be understood is
// rejected at load time rather than silently passing learners through.
package lesson

import (
	"fmt"
	"strings"

	"gitcoach/internal/verify"
)

// Lesson is one teachable unit, a sequence of steps in a fresh sandbox.
type Lesson struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single instruction/verification pair.
type Step struct {
	Title        string       `yaml:"title"`
	Instructions string       `yaml:"instructions"`
	Hint         string       `yaml:"hint"`
	Setup        []string     `yaml:"setup"`
	Check        verify.Check `yaml:"check"`
}

// Validate rejects lessons the tutor cannot run.
func (l *Lesson) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("lesson has no name")
	}
	if strings.TrimSpace(l.Title) == "" {
		return fmt.Errorf("lesson %q has no title", l.Name)
	}
	if len(l.Steps) == 0 {
		return fmt.Errorf("lesson %q has no steps", l.Name)
	}
	for i, s := range l.Steps {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("lesson %q step %d has no title", l.Name, i+1)
		}
		if strings.TrimSpace(s.Instructions) == "" {
			return fmt.Errorf("lesson %q step %d (%s) has no instructions", l.Name, i+1, s.Title)
		}
		if err := s.Check.Validate(); err != nil {
			return fmt.Errorf("lesson %q step %d (%s): %w", l.Name, i+1, s.Title, err)
		}
	}
	return nil
}
