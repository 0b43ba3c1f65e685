// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the aion-cli command tree and its handlers.
//
// Every leaf command resolves the run configuration once, builds an App
// (transport client, formatter, logger, prompt reader) and calls one
// handler method on it. Handlers return errors; Execute prints them and
// maps them to exit codes.
//
// # Usage
//
//	os.Exit(cli.Execute(ctx, os.Args[1:], cli.StdStreams()))
//
// # Commands Overview
//
//   - agents: list, create, activate, deactivate, status, execute
//   - compliance: assess, monitor, report, violations
//   - conflicts: detect, resolve, analyze, graph
//   - ml: train, predict, analyze, models
//   - monitor: start, metrics, logs, health
//   - deploy: start, stop, scale, update, status
//   - config: show, set, get, reset
//   - status, interactive
//
// # Exit Codes
//
//   - 0: success, cancelled confirmation, or unknown subcommand warning
//   - 1: request, server or local file failure
//   - 2: arguments could not be parsed
package cli
