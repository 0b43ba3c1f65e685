// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// signals.go - Ctrl-C and SIGTERM handling.
//
// A signal ends the process at once with the shell's conventional status
// (130 for SIGINT, 143 for SIGTERM). Prompts block on stdin and cannot
// observe a cancelled context, so cancellation alone is not enough.

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// exitSignals are the signals that terminate a run.
var exitSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// NotifyContext returns a context that is cancelled when the run ends or a
// terminating signal arrives. On a signal the process exits. Call stop once
// Execute has returned.
func NotifyContext(parent context.Context) (ctx context.Context, stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, exitSignals...)

	ctx, cancel := context.WithCancel(parent)
	go watchSignals(ctx, sigs, cancel, os.Exit)

	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}

// watchSignals waits for the first signal and exits with its status. It
// returns without exiting once ctx is done.
func watchSignals(ctx context.Context, sigs <-chan os.Signal, cancel context.CancelFunc, exit func(int)) {
	select {
	case <-ctx.Done():
	case sig := <-sigs:
		cancel()
		exit(signalExitCode(sig))
	}
}

// signalExitCode follows the shell convention of 128 plus the signal number.
func signalExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return ExitGeneralError
}
