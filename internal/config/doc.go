// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config resolves the per-run options of aion-cli.
//
// Options are resolved once, before any command runs, and are never
// mutated afterwards.
//
// # Sources
//
// Sources are applied in order, later ones winning:
//   - Built-in defaults
//   - ~/.aion/config.toml
//   - .env in the working directory
//   - Environment variables (AION_*, NO_COLOR, FORCE_COLOR)
//   - Command line flags that were explicitly set
//
// # Usage
//
//	opts, err := config.Loader{Terminal: true}.Load(config.Overrides{Verbose: true})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(opts.Server)
package config
