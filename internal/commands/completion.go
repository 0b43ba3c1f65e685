// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"cmp"
	"slices"
	"strings"
)

// =============================================================================
// COMPLETER
// =============================================================================

// Completer offers whole-line candidates for the shell's tab key.
type Completer struct {
	registry *Registry
}

func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns whole-line candidates for a partially typed line. The
// signature matches liner.Completer.
func (c *Completer) Complete(line string) []string {
	parts := splitCommandLine(line)
	trailingSpace := strings.HasSuffix(line, " ")

	// Still typing the command name?
	if len(parts) == 0 || (len(parts) == 1 && !trailingSpace) {
		partial := ""
		if len(parts) == 1 {
			partial = parts[0]
		}
		return completeFromList(c.registry.Names(), partial)
	}

	cmd := c.registry.Get(parts[0])
	if cmd == nil {
		return nil
	}

	argIndex := len(parts) - 2
	partial := ""
	if trailingSpace {
		argIndex++
	} else {
		partial = parts[len(parts)-1]
	}
	if argIndex < 0 || argIndex >= len(cmd.Args) {
		return nil
	}

	prefix := strings.Join(parts[:argIndex+1], " ") + " "
	values := completeFromList(cmd.Args[argIndex].Values, partial)
	for i, v := range values {
		values[i] = prefix + v
	}
	return values
}

// completeFromList returns the values starting with partial, ignoring case.
// An exact match sorts first, then shorter values, then alphabetical.
func completeFromList(values []string, partial string) []string {
	partial = strings.ToLower(partial)

	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), partial) {
			out = append(out, v)
		}
	}

	slices.SortStableFunc(out, func(a, b string) int {
		ea, eb := strings.EqualFold(a, partial), strings.EqualFold(b, partial)
		switch {
		case ea != eb:
			if ea {
				return -1
			}
			return 1
		case len(a) != len(b):
			return cmp.Compare(len(a), len(b))
		}
		return strings.Compare(a, b)
	})
	return out
}
