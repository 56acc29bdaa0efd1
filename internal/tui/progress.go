package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

const maxBarWidth = 50

type processedMsg struct {
	done  int
	total int
	path  string
}

type finishedMsg struct{}

// progressModel renders one pipeline run.
type progressModel struct {
	bar      progress.Model
	keys     KeyMap
	root     string
	done     int
	total    int
	path     string
	finished bool
	aborted  bool
	onAbort  func()
}

func newProgressModel(root string, total int, onAbort func()) progressModel {
	return progressModel{
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		keys:    DefaultKeyMap(),
		root:    root,
		total:   total,
		onAbort: onAbort,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Abort) {
			m.aborted = true
			if m.onAbort != nil {
				m.onAbort()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(maxBarWidth, max(10, msg.Width-40))
	case processedMsg:
		m.done, m.total, m.path = msg.done, msg.total, msg.path
	case finishedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) percent() float64 {
	if m.total == 0 {
		return 1
	}
	return float64(m.done) / float64(m.total)
}

func (m progressModel) View() string {
	switch {
	case m.finished:
		return fmt.Sprintf("%s %d files processed in %s\n", SuccessStyle.Render(SymbolCheck), m.total, m.root)
	case m.aborted:
		return fmt.Sprintf("%s aborted after %d/%d files\n", ErrorStyle.Render(SymbolCross), m.done, m.total)
	}

	view := fmt.Sprintf("%s %s %d/%d files processed.\n",
		TitleStyle.Render(filepath.Base(m.root)), m.bar.ViewAs(m.percent()), m.done, m.total)
	if m.path != "" {
		view += PathStyle.Render(m.path) + "\n"
	}
	return view + HelpStyle.Render(m.keys.HelpText()) + "\n"
}

// ProgressBar implements sparkify.ProgressReporter with a bubbletea progress
// bar. Each run gets its own program, started by Discovered and stopped by
// Finished. Close stops a program left running by a failed run.
type ProgressBar struct {
	output  io.Writer
	input   io.Reader
	onAbort func()
	program *tea.Program
	done    chan struct{}
}

// ProgressOption configures a ProgressBar.
type ProgressOption func(*ProgressBar)

// WithInput sets the key input. nil disables input.
func WithInput(r io.Reader) ProgressOption {
	return func(p *ProgressBar) {
		p.input = r
	}
}

// WithAbort sets the function called when the user presses the abort key.
func WithAbort(fn func()) ProgressOption {
	return func(p *ProgressBar) {
		p.onAbort = fn
	}
}

// NewProgressBar creates a ProgressBar rendering to output and reading keys from stdin.
func NewProgressBar(output io.Writer, opts ...ProgressOption) *ProgressBar {
	if output == nil {
		panic("output cannot be nil")
	}
	p := &ProgressBar{output: output, input: os.Stdin}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ProgressBar) Discovered(root string, total int) {
	p.Close()

	program := tea.NewProgram(
		newProgressModel(root, total, p.onAbort),
		tea.WithOutput(p.output),
		tea.WithInput(p.input),
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = program.Run()
	}()

	p.program, p.done = program, done
}

func (p *ProgressBar) Processed(done, total int, path string) {
	if p.program != nil {
		p.program.Send(processedMsg{done: done, total: total, path: path})
	}
}

func (p *ProgressBar) Finished(root string, total int) {
	if p.program == nil {
		return
	}
	p.program.Send(finishedMsg{})
	<-p.done
	p.program = nil
}

// Close stops the running program, if any, and waits for it to exit.
// Safe to call multiple times.
func (p *ProgressBar) Close() {
	if p.program == nil {
		return
	}
	p.program.Quit()
	<-p.done
	p.program = nil
}

var _ sparkify.ProgressReporter = (*ProgressBar)(nil)
