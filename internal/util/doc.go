// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small filesystem helpers shared by the CLI.
//
// WriteFileAtomic is used for every file aion-cli writes: compliance
// reports, conflict graphs and the interactive shell history. A reader
// never observes a half-written file, and a failed write leaves any
// previous file untouched.
package util
