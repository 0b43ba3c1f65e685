// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package output renders server responses as tables, key/value listings,
// JSON, YAML or CSV, with optional semantic coloring.
package output

import (
	"fmt"
	"strings"
)

// Format is an output mode.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formats lists the legal output modes in help order.
var Formats = []string{string(FormatTable), string(FormatJSON), string(FormatYAML), string(FormatCSV)}

// ParseFormat validates a format name. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q (expected one of: %s)", s, strings.Join(Formats, ", "))
}

// Structured reports whether the format prints the response document itself.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}
