// Package tutor is the interactive lesson runner: one lesson, one
// sandbox, stepped through in a terminal UI.
//
// The interface is split across files:
//   - model.go:  types, construction, Init
//   - update.go: the Update loop and commands
//   - view.go:   rendering
package tutor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"gitcoach/cmd/gitcoach/ui"
	"gitcoach/internal/lesson"
	"gitcoach/internal/logging"
	"gitcoach/internal/progress"
	"gitcoach/internal/sandbox"
	"gitcoach/internal/shell"
	"gitcoach/internal/verify"
	"gitcoach/internal/watch"
)

// phase is the tutor's input-handling state.
type phase int

const (
	phaseSetup   phase = iota // step setup commands running
	phaseInput                // waiting for the learner to type
	phaseRunning              // learner command executing
	phaseDone                 // lesson finished
	phaseAborted              // setup failed, any key exits
)

// Config wires the tutor's collaborators.
type Config struct {
	Lesson          lesson.Lesson
	Sandbox         *sandbox.Sandbox
	Engine          *verify.Engine
	Store           *progress.Store       // optional
	Watcher         *watch.SandboxWatcher // optional
	Session         *progress.Session     // optional
	AttemptsPerStep int
	SetupTimeout    time.Duration
	MarkdownStyle   string
}

// Model is the bubbletea model for a lesson session.
type Model struct {
	cfg     Config
	styles  ui.Styles
	input   textinput.Model
	spinner spinner.Model

	renderer *glamour.TermRenderer
	width    int

	phase     phase
	stepIndex int
	attempts  int
	showHint  bool

	// Output of the most recent learner command, shown under the prompt.
	lastCommand string
	lastOutput  string

	// Most recent verdict for the current step.
	verdict    *verify.Verdict
	passedFlip bool // verdict belongs to the step just passed

	setupErr error
	quitting bool
}

// New builds the tutor model. The first step's setup commands run from
// Init, so the caller only prepares the sandbox directory itself.
func New(cfg Config) Model {
	if cfg.AttemptsPerStep < 1 {
		cfg.AttemptsPerStep = 3
	}
	if cfg.SetupTimeout <= 0 {
		cfg.SetupTimeout = 30 * time.Second
	}

	styles := ui.NewStyles(ui.DetectTheme())

	ti := textinput.New()
	ti.Placeholder = "type a command (or: hint, skip, quit)"
	ti.Prompt = styles.Prompt.Render("$ ")
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Muted

	m := Model{
		cfg:     cfg,
		styles:  styles,
		input:   ti,
		spinner: sp,
		phase:   phaseSetup,
		width:   80,
	}
	m.renderer = m.newRenderer()
	return m
}

// step returns the current step. Callers guard stepIndex range.
func (m Model) step() lesson.Step {
	return m.cfg.Lesson.Steps[m.stepIndex]
}

func (m Model) lastStep() bool {
	return m.stepIndex == len(m.cfg.Lesson.Steps)-1
}

// Init starts the spinner, the sandbox watcher and the first step's setup.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.runSetup()}
	if m.cfg.Watcher != nil {
		cmds = append(cmds, m.waitForSandboxChange())
	}
	return tea.Batch(cmds...)
}

// Messages flowing through the update loop.

type setupDoneMsg struct{ err error }

type commandDoneMsg struct {
	line    string
	result  *shell.Result
	verdict verify.Verdict
}

type reverifyMsg struct{ verdict verify.Verdict }

type sandboxChangedMsg struct{}

func (m Model) runSetup() tea.Cmd {
	step := m.step()
	sb := m.cfg.Sandbox
	timeout := m.cfg.SetupTimeout
	return func() tea.Msg {
		if len(step.Setup) == 0 {
			return setupDoneMsg{}
		}
		err := sb.Setup(context.Background(), step.Setup, timeout)
		return setupDoneMsg{err: err}
	}
}

func (m Model) runCommand(line string) tea.Cmd {
	sb := m.cfg.Sandbox
	engine := m.cfg.Engine
	check := m.step().Check
	return func() tea.Msg {
		res, err := sb.Exec(context.Background(), line)
		if err != nil {
			res = &shell.Result{ExitCode: -1, Err: err.Error()}
		}
		verdict := engine.Evaluate(context.Background(), check, sb.Dir())
		return commandDoneMsg{line: line, result: res, verdict: verdict}
	}
}

func (m Model) reverify() tea.Cmd {
	engine := m.cfg.Engine
	check := m.step().Check
	dir := m.cfg.Sandbox.Dir()
	return func() tea.Msg {
		return reverifyMsg{verdict: engine.Evaluate(context.Background(), check, dir)}
	}
}

func (m Model) waitForSandboxChange() tea.Cmd {
	w := m.cfg.Watcher
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		return sandboxChangedMsg{}
	}
}

func (m *Model) recordStep(passed bool) {
	if m.cfg.Store == nil {
		return
	}
	if err := m.cfg.Store.RecordStep(m.cfg.Lesson.Name, m.stepIndex, passed); err != nil {
		logging.UI("Failed to record step result: %v", err)
	}
}
