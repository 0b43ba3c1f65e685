// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Semantic colors for status and severity words.
//
// Coloring only ever wraps text in escape sequences. With color disabled
// the same text is returned untouched, so stripping ANSI codes from colored
// output yields the uncolored output exactly.

package output

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
)

// Basic ANSI palette indices; they render identically on every color profile.
const (
	colorRed    = lipgloss.Color("1")
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorBlue   = lipgloss.Color("4")
	colorPurple = lipgloss.Color("5")
)

type palette struct {
	title       lipgloss.Style
	heading     lipgloss.Style
	success     lipgloss.Style
	successBold lipgloss.Style
	warning     lipgloss.Style
	warningBold lipgloss.Style
	failure     lipgloss.Style
	failureBold lipgloss.Style
	info        lipgloss.Style
	key         lipgloss.Style

	green  lipgloss.Style
	yellow lipgloss.Style
	red    lipgloss.Style
	blue   lipgloss.Style
	purple lipgloss.Style
}

func newPalette(r *lipgloss.Renderer) palette {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	fg := func(c lipgloss.Color) lipgloss.Style { return base.Foreground(c) }

	return palette{
		title:       fg(colorBlue).Bold(true),
		heading:     base.Bold(true),
		success:     fg(colorGreen),
		successBold: fg(colorGreen).Bold(true),
		warning:     fg(colorYellow),
		warningBold: fg(colorYellow).Bold(true),
		failure:     fg(colorRed),
		failureBold: fg(colorRed).Bold(true),
		info:        fg(colorBlue),
		key:         fg(colorBlue),

		green:  fg(colorGreen),
		yellow: fg(colorYellow),
		red:    fg(colorRed),
		blue:   fg(colorBlue),
		purple: fg(colorPurple),
	}
}

func lookupKey(word string) string {
	return cases.Fold().String(word)
}

// statusStyle maps a status word to its color. ok is false for words that
// stay uncolored.
func (p palette) statusStyle(word string) (lipgloss.Style, bool) {
	switch lookupKey(word) {
	case "active", "healthy", "running", "completed":
		return p.green, true
	case "degraded", "warning", "in_progress":
		return p.yellow, true
	case "inactive", "unhealthy", "failed", "error":
		return p.red, true
	case "learning", "optimizing":
		return p.blue, true
	case "maximum_autonomy", "autonomous":
		return p.purple, true
	}
	return lipgloss.Style{}, false
}

func (p palette) severityStyle(word string) (lipgloss.Style, bool) {
	switch lookupKey(word) {
	case "critical", "high":
		return p.red, true
	case "medium":
		return p.yellow, true
	case "low", "info":
		return p.blue, true
	}
	return lipgloss.Style{}, false
}
