// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Unified error handling and exit codes for every command.
//
// Handlers always return errors; Execute decides how to display them and
// which code the process exits with.

package cli

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aion-cr/aion-cli/internal/client"
	"github.com/aion-cr/aion-cli/internal/output"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution, including a cancelled
	// confirmation and an unknown subcommand warning.
	ExitSuccess = 0
	// ExitGeneralError indicates a failed request, a non-2xx reply or a
	// local file error.
	ExitGeneralError = 1
	// ExitUsageError indicates the arguments could not be parsed.
	ExitUsageError = 2
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError marks an error raised while a command was running, as
// opposed to one raised while its arguments were parsed.
type CommandError struct {
	Command string // Command path that failed (e.g., "agents list")
	Err     error  // Underlying error
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError represents an argument the parser accepted but the command
// could not interpret.
type UsageError struct {
	Arg    string
	Value  string
	Reason string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid value '%s' for '%s': %s", e.Value, e.Arg, e.Reason)
}

// UnhealthyError is returned by the health check for a non-2xx reply.
type UnhealthyError struct {
	StatusCode int
}

func (e *UnhealthyError) Error() string {
	return fmt.Sprintf("System is unhealthy (HTTP %d %s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// exitError ends the run with code after its message was already printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// =============================================================================
// ERROR CONSTRUCTION HELPERS
// =============================================================================

// NewCommandError wraps err as a runtime failure of command. nil stays nil.
func NewCommandError(command string, err error) error {
	if err == nil {
		return nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return err
	}
	return &CommandError{Command: command, Err: err}
}

// NewUsageError creates a new usage error.
func NewUsageError(arg, value, reason string) error {
	return &UsageError{Arg: arg, Value: value, Reason: reason}
}

// =============================================================================
// EXIT CODE MAPPING
// =============================================================================

// ExitCode maps an error returned by the command tree to a process exit
// code. Errors that never reached a handler are parse errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitUsageError
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return ExitGeneralError
	}
	return ExitUsageError
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// PrintError writes err to w as a single line using f for color. Silent
// exit errors print nothing.
func PrintError(w io.Writer, f *output.Formatter, err error) {
	if err == nil {
		return
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		fmt.Fprintf(w, "%s: %s\n", f.Failure("Failed to "+statusErr.Action), statusErr.Body)
		return
	}

	var unhealthy *UnhealthyError
	if errors.As(err, &unhealthy) {
		fmt.Fprintf(w, "%s: %s\n", f.Failure("Health Check Failed"), unhealthy.Error())
		return
	}

	fmt.Fprintf(w, "%s: %s\n", f.Failure("Error"), err.Error())
}
