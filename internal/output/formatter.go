// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"sigs.k8s.io/yaml"
)

// =============================================================================
// FORMATTER
// =============================================================================

// Formatter writes one run's output. It never fails: write errors are
// ignored the same way fmt.Println ignores them, and malformed documents are
// printed verbatim.
type Formatter struct {
	out    io.Writer
	format Format
	color  bool

	renderer *lipgloss.Renderer
	styles   palette
}

// New creates a formatter writing to out. When color is false every style
// renders as plain text.
func New(out io.Writer, format Format, color bool) *Formatter {
	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	} else if r.ColorProfile() == termenv.Ascii {
		// Color was requested explicitly; honor it even when out is not a TTY.
		r.SetColorProfile(termenv.ANSI)
	}

	return &Formatter{
		out:      out,
		format:   format,
		color:    color,
		renderer: r,
		styles:   newPalette(r),
	}
}

// Format returns the output mode.
func (f *Formatter) Format() Format { return f.format }

// Println writes its operands followed by a newline.
func (f *Formatter) Println(a ...interface{}) {
	fmt.Fprintln(f.out, a...)
}

// Printf writes formatted text.
func (f *Formatter) Printf(format string, a ...interface{}) {
	fmt.Fprintf(f.out, format, a...)
}

// =============================================================================
// STYLED TEXT
// =============================================================================

// paint applies style line by line so multi-line values are never padded.
func (f *Formatter) paint(style lipgloss.Style, s string) string {
	if !f.color || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (f *Formatter) Title(s string) string       { return f.paint(f.styles.title, s) }
func (f *Formatter) Heading(s string) string     { return f.paint(f.styles.heading, s) }
func (f *Formatter) Success(s string) string     { return f.paint(f.styles.success, s) }
func (f *Formatter) SuccessBold(s string) string { return f.paint(f.styles.successBold, s) }
func (f *Formatter) Warning(s string) string     { return f.paint(f.styles.warning, s) }
func (f *Formatter) WarningBold(s string) string { return f.paint(f.styles.warningBold, s) }
func (f *Formatter) Failure(s string) string     { return f.paint(f.styles.failure, s) }
func (f *Formatter) FailureBold(s string) string { return f.paint(f.styles.failureBold, s) }
func (f *Formatter) Info(s string) string        { return f.paint(f.styles.info, s) }
func (f *Formatter) Key(s string) string         { return f.paint(f.styles.key, s) }

// Status colors a status word; unknown words are returned unchanged.
func (f *Formatter) Status(word string) string {
	if style, ok := f.styles.statusStyle(word); ok {
		return f.paint(style, word)
	}
	return word
}

// Severity colors a severity word; unknown words are returned unchanged.
func (f *Formatter) Severity(word string) string {
	if style, ok := f.styles.severityStyle(word); ok {
		return f.paint(style, word)
	}
	return word
}

// TitleLine writes a blank line followed by a title.
func (f *Formatter) TitleLine(s string) {
	f.Println()
	f.Println(f.Title(s))
}

// HeadingLine writes a blank line followed by a bold heading.
func (f *Formatter) HeadingLine(s string) {
	f.Println()
	f.Println(f.Heading(s))
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// Document prints a response body in the structured format (json or yaml).
// In any other mode it prints JSON.
func (f *Formatter) Document(raw []byte) {
	if f.format == FormatYAML {
		f.YAML(raw)
		return
	}
	f.JSON(raw)
}

// JSON pretty-prints raw without re-encoding it, so key order and number
// text are preserved. Invalid JSON is printed as is.
func (f *Formatter) JSON(raw []byte) {
	text := strings.TrimRight(string(raw), "\n")
	if isJSON(raw) {
		text = strings.TrimRight(string(PrettyJSON(raw)), "\n")
		if f.color {
			text = strings.TrimRight(highlight(text, "json"), "\n")
		}
	}
	f.Println(text)
}

// YAML converts raw JSON into YAML. Invalid JSON is printed as is.
func (f *Formatter) YAML(raw []byte) {
	out, err := yaml.JSONToYAML(raw)
	if err != nil || !isJSON(raw) {
		f.Println(strings.TrimRight(string(raw), "\n"))
		return
	}
	f.Printf("%s", out)
}

// PrettyJSON indents a JSON document with two spaces.
func PrettyJSON(raw []byte) []byte {
	return pretty.PrettyOptions(raw, &pretty.Options{Indent: "  "})
}

func isJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && gjson.ValidBytes(trimmed)
}

// highlight applies terminal syntax highlighting. Only escape codes are
// added, so the visible text is unchanged.
func highlight(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal16")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

// =============================================================================
// TABLES AND CSV
// =============================================================================

// Table writes rows under headers with a normal border. Cells may already
// contain escape codes; widths are measured on visible text.
func (f *Formatter) Table(headers []string, rows [][]string) {
	cell := f.renderer.NewStyle().Padding(0, 1).TabWidth(lipgloss.NoTabConversion)
	header := cell.Bold(true)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.renderer.NewStyle()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...)

	f.Println(t.Render())
}

// CSV writes a header row followed by records.
func (f *Formatter) CSV(header []string, rows [][]string) {
	w := csv.NewWriter(f.out)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	w.Flush()
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

// Truncate cuts s to at most width display columns.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "")
}

// TruncateChars keeps the first n characters of s, whatever their display
// width.
func TruncateChars(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Percent formats a 0..1 ratio as a percentage with one decimal.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}
