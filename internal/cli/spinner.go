// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// spinner.go - Progress indicator shown on stderr during long requests.

package cli

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aion-cr/aion-cli/internal/output"
)

// stopSpinnerMsg tells the spinner program to clear its line and exit.
type stopSpinnerMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return spinnerModel{spinner: s, message: message}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case stopSpinnerMsg:
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.message
}

// startSpinner runs a spinner on stderr until the returned function is
// called. Nothing is drawn unless stderr is a terminal and the output is a
// table, so piped and machine-readable runs stay clean.
func (a *App) startSpinner(message string) func() {
	if !isTerminal(a.stderr) || a.opts.Format != output.FormatTable {
		return func() {}
	}

	p := tea.NewProgram(newSpinnerModel(message),
		tea.WithOutput(a.stderr),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil {
			a.log.Debug("spinner stopped", "err", err)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.Send(stopSpinnerMsg{})
			<-done
		})
	}
}
