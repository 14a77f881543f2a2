// Package teatest drives bubbletea models synchronously in tests.
//
// A Driver calls Update directly and runs every returned Cmd inline, so
// tests need no tea.Program and no goroutines of their own. Cmds that do
// not return within a short timeout, such as timers, are dropped.
package teatest

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDepth bounds how many chained Cmds one Send may run.
const maxDepth = 64

const cmdTimeout = 20 * time.Millisecond

// Driver wraps a tea.Model under test.
type Driver struct {
	t     testing.TB
	model tea.Model
	quit  bool
}

// New creates a Driver for model, runs its Init command and applies the
// window size when width and height are positive.
func New(t testing.TB, model tea.Model, width, height int) *Driver {
	t.Helper()
	d := &Driver{t: t, model: model}
	if width > 0 && height > 0 {
		d.Send(tea.WindowSizeMsg{Width: width, Height: height})
	}
	d.run(model.Init(), 0)
	return d
}

// Model returns the current model.
func (d *Driver) Model() tea.Model { return d.model }

// Quitting reports whether the model returned tea.Quit.
func (d *Driver) Quitting() bool { return d.quit }

// View renders the current model.
func (d *Driver) View() string { return d.model.View() }

// Send delivers msg and runs the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.t.Helper()
	if d.quit {
		return
	}
	next, cmd := d.model.Update(msg)
	d.model = next
	d.run(cmd, 0)
}

// Press sends one key per name. Names are bubbletea key strings such as
// "up", "enter", "esc", "tab", "ctrl+c" or a single character.
func (d *Driver) Press(names ...string) {
	d.t.Helper()
	for _, name := range names {
		d.Send(KeyMsg(name))
	}
}

// KeyMsg builds the tea.KeyMsg whose String() is name.
func KeyMsg(name string) tea.KeyMsg {
	switch name {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ", "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	d.t.Helper()
	if cmd == nil {
		return
	}
	if depth >= maxDepth {
		d.t.Logf("teatest: stopped after %d chained commands", maxDepth)
		return
	}

	msg := await(cmd)
	switch msg := msg.(type) {
	case nil:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			d.run(c, depth+1)
		}
	case tea.QuitMsg:
		d.quit = true
	default:
		next, nextCmd := d.model.Update(msg)
		d.model = next
		d.run(nextCmd, depth+1)
	}
}

func await(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}
