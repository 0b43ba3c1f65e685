// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation prompt for destructive commands.
//
// Deactivating an agent, stopping a deployment and resetting the server
// configuration all ask first:
//   1. If -y/--yes was given, proceed without prompting
//   2. Otherwise print "<prompt> [y/N]: " and read one line
//   3. A line starting with y or Y confirms; anything else cancels

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// errCancelled is returned by requireConfirmation when the user declined.
// Handlers treat it as a successful, request-free run.
var errCancelled = errors.New("operation cancelled")

// confirm asks prompt on stdout and reads the answer from stdin.
// End of input counts as "no"; any other read error is returned.
func (a *App) confirm(prompt string) (bool, error) {
	if a.opts.AutoConfirm {
		return true, nil
	}

	fmt.Fprintf(a.stdout, "%s [y/N]: ", prompt)

	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(a.stdout)
		return false, nil
	}

	return isAffirmative(line), nil
}

// requireConfirmation wraps confirm and prints the cancellation notice.
// It returns errCancelled when the user declined.
func (a *App) requireConfirmation(prompt string) error {
	ok, err := a.confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		a.out.Println("Operation cancelled")
		return errCancelled
	}
	return nil
}

func isAffirmative(answer string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
}
