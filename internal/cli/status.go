// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - System status command.

package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
	"github.com/aion-cr/aion-cli/internal/output"
)

func (r *runner) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show system status and health",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.systemStatus(ctx)
		}),
	}
}

// systemStatus prints GET /api/v1/status.
func (a *App) systemStatus(ctx context.Context) error {
	a.progress("Fetching system status...")

	resp, err := a.get(ctx, api.PathStatus, nil, "get system status")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	s := api.DecodeSystemStatus(resp.Body)
	o := a.out
	o.TitleLine("AION-CR System Status")
	o.Println("System Status: " + o.Status(s.Status))
	o.Println("Version: " + s.Version)
	o.Println("Uptime: " + s.Uptime)
	o.Printf("Active Agents: %d\n", s.ActiveAgents)
	o.Printf("Total Requests: %d\n", s.TotalRequests)
	o.Println("Compliance Score: " + output.Percent(s.ComplianceScore))
	a.printComponents(s.HasComponents, s.Components)
	return nil
}
