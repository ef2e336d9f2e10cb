package tutor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gitcoach/internal/logging"
	"gitcoach/internal/verify"
)

// Update is the bubbletea update loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.renderer = m.newRenderer()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case setupDoneMsg:
		if msg.err != nil {
			logging.UI("Step setup failed: %v", msg.err)
			m.setupErr = msg.err
			m.phase = phaseAborted
			return m, nil
		}
		m.phase = phaseInput
		return m, nil

	case commandDoneMsg:
		m.lastCommand = msg.line
		m.lastOutput = strings.TrimRight(msg.result.Output(), "\n")
		return m.applyVerdict(msg.verdict, true)

	case reverifyMsg:
		// Only a pass is interesting: the learner may have edited files in
		// another terminal. A fail here is not an attempt.
		if msg.verdict.Passed && m.phase == phaseInput {
			return m.applyVerdict(msg.verdict, false)
		}
		return m, nil

	case sandboxChangedMsg:
		if m.phase != phaseInput {
			// Mid-command or mid-setup churn; keep listening, skip verify.
			return m, m.waitForSandboxChange()
		}
		return m, tea.Batch(m.reverify(), m.waitForSandboxChange())

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseDone, phaseAborted:
		m.quitting = true
		return m, tea.Quit
	case phaseSetup, phaseRunning:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if line == "" {
			return m, nil
		}
		return m.handleLine(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleLine routes a submitted line: tutor keywords first, anything else
// runs in the sandbox.
func (m Model) handleLine(line string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(line) {
	case "quit", "exit":
		m.quitting = true
		return m, tea.Quit
	case "hint":
		m.showHint = true
		return m, nil
	case "skip":
		logging.UI("Lesson %q step %d skipped", m.cfg.Lesson.Name, m.stepIndex)
		m.recordStep(false)
		return m.advance()
	}

	m.phase = phaseRunning
	m.verdict = nil
	return m, tea.Batch(m.spinner.Tick, m.runCommand(line))
}

// applyVerdict updates state for a verdict on the current step. countAttempt
// is false for watcher-triggered re-verification.
func (m Model) applyVerdict(v verify.Verdict, countAttempt bool) (tea.Model, tea.Cmd) {
	m.verdict = &v
	m.phase = phaseInput

	if v.Passed {
		m.recordStep(true)
		m.passedFlip = true
		return m.advance()
	}

	if countAttempt {
		m.attempts++
		m.recordStep(false)
		if m.attempts >= m.cfg.AttemptsPerStep {
			m.showHint = true
		}
	}
	return m, nil
}

// advance moves to the next step, or finishes the lesson.
func (m Model) advance() (tea.Model, tea.Cmd) {
	if m.lastStep() {
		m.phase = phaseDone
		if m.cfg.Store != nil && m.cfg.Session != nil {
			if err := m.cfg.Store.EndSession(m.cfg.Session.ID); err != nil {
				logging.UI("Failed to end session: %v", err)
			}
		}
		return m, nil
	}

	m.stepIndex++
	m.attempts = 0
	m.showHint = false
	m.lastCommand = ""
	m.lastOutput = ""
	if !m.passedFlip {
		m.verdict = nil
	}
	m.passedFlip = false
	m.phase = phaseSetup
	return m, tea.Batch(m.spinner.Tick, m.runSetup())
}
