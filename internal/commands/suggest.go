// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - "Did you mean" lookup for mistyped shell commands.
package commands

import (
	"strings"
)

// Suggest returns the registered name closest to input, or "" when nothing
// is close enough or input already names a command exactly.
func (r *Registry) Suggest(input string) string {
	word := strings.ToLower(strings.TrimSpace(input))
	limit := suggestThreshold(len(word))
	if limit == 0 {
		return ""
	}

	best, bestDist := "", limit+1
	for _, name := range r.Names() {
		d := levenshteinDistance(word, name)
		if d == 0 {
			return ""
		}
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

// suggestThreshold is the largest edit distance still worth suggesting for
// a word of length n. Single characters get nothing.
func suggestThreshold(n int) int {
	switch {
	case n < 2:
		return 0
	case n < 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}

// levenshteinDistance counts single-rune edits between s1 and s2.
func levenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) < len(b) {
		a, b = b, a
	}

	// row[j] holds the distance between the current prefix of a and b[:j].
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i, ra := range a {
		diag := row[0]
		row[0] = i + 1
		for j, rb := range b {
			sub := diag
			if ra != rb {
				sub++
			}
			diag = row[j+1]
			row[j+1] = min(row[j+1]+1, row[j]+1, sub)
		}
	}
	return row[len(b)]
}
