// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the command registry of the interactive shell.
//
// The shell reads a line, splits it into words, looks the first word up in
// a Registry and runs the matching handler.
//
// # Key Types
//
//   - Registry: the ordered set of shell commands
//   - ParseResult: a parsed input line with its command and arguments
//   - Completer: tab completion for command names and enum arguments
//
// # Usage
//
//	reg := commands.NewRegistry()
//	reg.Register(&commands.Command{Name: "status", Handler: showStatus})
//
//	result := commands.NewParser(reg).Parse(line)
//	if result.Command != nil {
//	    err = result.Command.Handler(ctx, result.Args)
//	}
package commands
