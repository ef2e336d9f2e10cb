package tutor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// View renders the tutor screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.cfg.Lesson.Title))
	b.WriteString("\n")

	switch m.phase {
	case phaseAborted:
		b.WriteString(m.styles.FailBanner.Render("Lesson setup failed."))
		b.WriteString("\n")
		if m.setupErr != nil {
			b.WriteString(m.styles.Muted.Render(m.setupErr.Error()))
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Help.Render("press any key to exit"))
		return b.String()

	case phaseDone:
		b.WriteString("\n")
		b.WriteString(m.styles.PassBanner.Render("✓ Lesson complete!"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Body.Render(fmt.Sprintf("You finished all %d steps of %q.", len(m.cfg.Lesson.Steps), m.cfg.Lesson.Title)))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("press any key to exit"))
		return b.String()

	case phaseSetup:
		b.WriteString(m.styles.Muted.Render(m.spinner.View() + " preparing step..."))
		b.WriteString("\n")
		return b.String()
	}

	step := m.step()
	b.WriteString(m.styles.StepProgress.Render(fmt.Sprintf("Step %d of %d", m.stepIndex+1, len(m.cfg.Lesson.Steps))))
	b.WriteString("  ")
	b.WriteString(m.styles.StepHeader.Render(step.Title))
	b.WriteString("\n")

	b.WriteString(m.styles.Instructions.Render(m.renderMarkdown(step.Instructions)))
	b.WriteString("\n")

	if m.lastCommand != "" {
		b.WriteString(m.styles.Muted.Render("$ " + m.lastCommand))
		b.WriteString("\n")
		if m.lastOutput != "" {
			b.WriteString(m.styles.CommandOut.Render(m.lastOutput))
			b.WriteString("\n")
		}
	}

	if m.verdict != nil {
		if m.verdict.Passed {
			b.WriteString(m.styles.PassBanner.Render("✓ " + m.verdict.Message))
		} else {
			b.WriteString(m.styles.FailBanner.Render("✗ " + m.verdict.Message))
		}
		b.WriteString("\n")
		for _, w := range m.verdict.Warnings {
			b.WriteString(m.styles.WarnText.Render("⚠ " + w))
			b.WriteString("\n")
		}
	}

	if m.showHint && step.Hint != "" {
		b.WriteString(m.styles.HintBox.Render("Hint: " + step.Hint))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.phase == phaseRunning {
		b.WriteString(m.styles.Muted.Render(m.spinner.View() + " running..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("enter a shell command · hint · skip · quit"))
	b.WriteString("\n")

	return b.String()
}

// renderMarkdown renders step instructions through glamour, falling back
// to the raw text when no renderer is available.
func (m Model) renderMarkdown(src string) string {
	if m.renderer == nil {
		return src
	}
	out, err := m.renderer.Render(src)
	if err != nil {
		return src
	}
	return strings.TrimRight(out, "\n")
}

// newRenderer builds a glamour renderer sized to the terminal.
func (m Model) newRenderer() *glamour.TermRenderer {
	wrap := m.width - 4
	if wrap > 96 {
		wrap = 96
	}
	if wrap < 20 {
		wrap = 20
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	if m.cfg.MarkdownStyle == "" || m.cfg.MarkdownStyle == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(m.cfg.MarkdownStyle))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil
	}
	return r
}
