// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// configcmd.go - Server-side configuration commands.
//
// These read and change the AION-CR server's configuration. The CLI's own
// settings live in ~/.aion/config.toml and are handled by internal/config.

package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
)

func (r *runner) configCommand() *cobra.Command {
	show := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.showConfig(ctx)
		}),
	}

	set := &cobra.Command{
		Use:   "set <KEY> <VALUE>",
		Short: "Set configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			return a.setConfig(ctx, args[0], args[1])
		}),
	}

	get := &cobra.Command{
		Use:   "get <KEY>",
		Short: "Get configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			return a.getConfig(ctx, args[0])
		}),
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.resetConfig(ctx)
		}),
	}

	return r.group("config", "config", "Configuration management", show, set, get, reset)
}

func (a *App) showConfig(ctx context.Context) error {
	resp, err := a.get(ctx, api.PathConfig, nil, "get configuration")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	a.out.TitleLine("AION-CR Configuration")
	a.out.Tree(resp.Body)
	return nil
}

func (a *App) setConfig(ctx context.Context, key, value string) error {
	a.progress(fmt.Sprintf("Setting configuration: %s = %s", key, value))

	body := api.ConfigSetRequest{Key: key, Value: value}
	if _, err := a.post(ctx, api.PathConfigSet, body, "set configuration"); err != nil {
		return err
	}
	a.out.Println(a.out.Success(fmt.Sprintf("Configuration updated: %s = %s", key, value)))
	return nil
}

func (a *App) getConfig(ctx context.Context, key string) error {
	resp, err := a.get(ctx, api.PathConfigGet, url.Values{"key": {key}}, "get configuration")
	if err != nil {
		return err
	}
	v := api.DecodeConfigValue(resp.Body)
	a.out.Printf("%s: %s\n", a.out.Key(key), v.Value)
	return nil
}

func (a *App) resetConfig(ctx context.Context) error {
	if err := a.requireConfirmation("Are you sure you want to reset configuration to defaults?"); err != nil {
		return err
	}

	a.progress("Resetting configuration to defaults...")

	if _, err := a.post(ctx, api.PathConfigReset, nil, "reset configuration"); err != nil {
		return err
	}
	a.out.Println(a.out.Success("Configuration reset to defaults"))
	return nil
}
