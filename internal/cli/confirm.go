package cli

import (
	"errors"

	"github.com/alexanderramin/costvar/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// errConfirmRequired stops destructive commands that cannot prompt.
var errConfirmRequired = errors.New("refusing to delete without confirmation: pass --yes")

// costvarHuhTheme applies the formatter palette to huh prompts.
func costvarHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorRed).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func huhConfirm(prompt string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Delete").
				Negative("Keep").
				Value(&ok),
		),
	).WithTheme(costvarHuhTheme()).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// confirm asks before a destructive action. Without a terminal it refuses
// rather than guessing.
func (a *App) confirm(prompt string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(prompt)
	}
	if !a.interactive() {
		return false, errConfirmRequired
	}
	return huhConfirm(prompt)
}
