// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// parser.go - Shell line tokenizing and argument checks.

package commands

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// =============================================================================
// PARSE RESULT
// =============================================================================

// ParseResult is one tokenized shell line.
type ParseResult struct {
	RawInput    string
	CommandName string
	Args        []string
	Command     *Command // nil when CommandName is not registered
}

// Empty reports whether the line held no words.
func (r ParseResult) Empty() bool {
	return r.CommandName == ""
}

// =============================================================================
// PARSER
// =============================================================================

// Parser resolves shell lines against a registry.
type Parser struct {
	registry *Registry
}

func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse tokenizes input. The first word names the command.
func (p *Parser) Parse(input string) ParseResult {
	raw := strings.TrimSpace(input)
	words := splitCommandLine(raw)
	if len(words) == 0 {
		return ParseResult{RawInput: raw}
	}

	res := ParseResult{
		RawInput:    raw,
		CommandName: words[0],
		Command:     p.registry.Get(words[0]),
	}
	if rest := words[1:]; len(rest) > 0 {
		res.Args = rest
	}
	return res
}

// =============================================================================
// TOKENIZER
// =============================================================================

// tokenizer accumulates words from a line. A quoted empty string still
// produces a word, and adjacent quoted pieces join into one word.
type tokenizer struct {
	words   []string
	word    strings.Builder
	pending bool // a word has started, even if it is still empty
	quote   rune // active quote character, 0 outside quotes
}

func (t *tokenizer) flush() {
	if !t.pending {
		return
	}
	t.words = append(t.words, t.word.String())
	t.word.Reset()
	t.pending = false
}

func (t *tokenizer) add(r rune) {
	t.word.WriteRune(r)
	t.pending = true
}

// splitCommandLine breaks input into words. Single and double quotes group
// spaces; inside quotes a backslash escapes a quote or another backslash.
func splitCommandLine(input string) []string {
	var t tokenizer
	src := []rune(input)

	for i := 0; i < len(src); i++ {
		r := src[i]

		if t.quote == 0 {
			switch {
			case r == '"' || r == '\'':
				t.quote = r
				t.pending = true
			case unicode.IsSpace(r):
				t.flush()
			default:
				t.add(r)
			}
			continue
		}

		switch {
		case r == t.quote:
			t.quote = 0
		case r == '\\' && i+1 < len(src) && strings.ContainsRune(`"'\`, src[i+1]):
			i++
			t.add(src[i])
		default:
			t.add(r)
		}
	}

	t.flush()
	return t.words
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidateArgs checks positional args against cmd's declarations. A nil
// command accepts anything.
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}

	for i, def := range cmd.Args {
		verr := &ValidationError{
			Command:  cmd.Name,
			Arg:      def.Name,
			Expected: strings.Join(def.Values, ", "),
		}
		switch {
		case i >= len(args) && def.Required:
			verr.Message = "required argument missing"
			return verr
		case i >= len(args):
			continue
		case len(def.Values) > 0 && !slices.Contains(def.Values, args[i]):
			verr.Message = "invalid value"
			verr.Got = args[i]
			return verr
		}
	}
	return nil
}

// ValidationError describes a rejected shell argument.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Command, e.Message)
	if e.Arg != "" {
		fmt.Fprintf(&b, " for argument '%s'", e.Arg)
	}
	if e.Got != "" {
		fmt.Fprintf(&b, " (got: %s)", e.Got)
	}
	if e.Expected != "" {
		b.WriteString(" - expected: " + e.Expected)
	}
	return b.String()
}
