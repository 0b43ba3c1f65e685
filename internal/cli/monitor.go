// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// monitor.go - Monitoring, metrics, logs and health commands.

package cli

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
	"github.com/aion-cr/aion-cli/internal/output"
)

// =============================================================================
// COMMAND TREE
// =============================================================================

func (r *runner) monitorCommand() *cobra.Command {
	var port uint16
	start := &cobra.Command{
		Use:   "start",
		Short: "Start monitoring dashboard",
		Args:  cobra.NoArgs,
		RunE: r.action(func(_ context.Context, a *App, _ []string) error {
			return a.startDashboard(port)
		}),
	}
	start.Flags().Uint16Var(&port, "port", 3000, "Dashboard port")

	var timeframe string
	metrics := &cobra.Command{
		Use:   "metrics",
		Short: "Show system metrics",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.showMetrics(ctx, timeframe)
		}),
	}
	metrics.Flags().StringVar(&timeframe, "timeframe", "1h", "Metrics timeframe")

	var logs logsOptions
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "View system logs",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.showLogs(ctx, logs)
		}),
	}
	enumFlag(logsCmd, &logs.Level, "level", "", "info", "Log level", logLevels...)
	logsCmd.Flags().BoolVarP(&logs.Follow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().Uint32VarP(&logs.Lines, "lines", "n", 100, "Number of lines to show")

	health := &cobra.Command{
		Use:   "health",
		Short: "Check system health",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.checkHealth(ctx)
		}),
	}

	return r.group("monitor", "monitor", "Real-time monitoring and observability",
		start, metrics, logsCmd, health)
}

// =============================================================================
// HANDLERS
// =============================================================================

func (a *App) startDashboard(port uint16) error {
	dashboard := fmt.Sprintf("http://localhost:%d", port)

	o := a.out
	o.Println(o.Info(fmt.Sprintf("Starting monitoring dashboard on port %d", port)))
	o.Println(o.Success("Dashboard will be available at: " + dashboard))
	o.Println(o.Warning("Press Ctrl+C to stop"))

	if err := a.open(dashboard); err != nil {
		a.log.Debug("could not open browser", "url", dashboard, "err", err)
	}
	return nil
}

// openBrowser tries macOS open first, then xdg-open.
func openBrowser(target string) error {
	if err := exec.Command("open", target).Run(); err == nil {
		return nil
	}
	return exec.Command("xdg-open", target).Run()
}

func (a *App) showMetrics(ctx context.Context, timeframe string) error {
	resp, err := a.get(ctx, api.PathMetrics, url.Values{"timeframe": {timeframe}}, "get metrics")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	m := api.DecodeMetrics(resp.Body)
	o := a.out
	o.TitleLine(fmt.Sprintf("System Metrics (%s)", timeframe))

	if s := m.System; s != nil {
		o.HeadingLine("System Performance:")
		o.Printf("  CPU Usage: %.1f%%\n", s.CPUUsage)
		o.Printf("  Memory Usage: %.1f%%\n", s.MemoryUsage)
		o.Printf("  Disk Usage: %.1f%%\n", s.DiskUsage)
		o.Printf("  Network I/O: %s MB/s\n", formatFloat(s.NetworkIO))
	}

	if p := m.Aion; p != nil {
		o.HeadingLine("AION Performance:")
		o.Printf("  Active Agents: %d\n", p.ActiveAgents)
		o.Printf("  Requests/sec: %.1f\n", p.RequestsPerSecond)
		o.Printf("  Response Time: %dms\n", p.AvgResponseTime)
		o.Printf("  Compliance Score: %s\n", output.Percent(p.ComplianceScore))
	}
	return nil
}

type logsOptions struct {
	Level  string
	Follow bool
	Lines  uint32
}

func (a *App) showLogs(ctx context.Context, opts logsOptions) error {
	a.progress(fmt.Sprintf("Fetching %s logs (last %d lines)", opts.Level, opts.Lines))

	query := url.Values{
		"level": {opts.Level},
		"lines": {strconv.FormatUint(uint64(opts.Lines), 10)},
	}
	if opts.Follow {
		query.Set("follow", "true")
	}

	resp, err := a.get(ctx, api.PathLogs, query, "get logs")
	if err != nil {
		return err
	}

	if opts.Follow {
		// The server answers follow requests with a single snapshot.
		a.out.Println(a.out.Warning("Following logs... Press Ctrl+C to stop"))
	}
	a.out.Println(resp.Text())
	return nil
}

// checkHealth reports a non-2xx reply as an unhealthy system rather than a
// request failure.
func (a *App) checkHealth(ctx context.Context) error {
	a.progress("Checking system health...")

	a.log.Debug("request", "method", "GET", "path", api.PathHealth)
	resp, err := a.client.Get(ctx, api.PathHealth, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return &UnhealthyError{StatusCode: resp.StatusCode}
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	h := api.DecodeHealth(resp.Body)
	o := a.out
	o.TitleLine("System Health Check")
	o.Println("Overall Status: " + o.Status(h.Status))
	o.Println("Uptime: " + h.Uptime)
	o.Println("Version: " + h.Version)
	a.printComponents(h.HasComponents, h.Components)
	return nil
}

func (a *App) printComponents(present bool, components []api.Component) {
	if !present {
		return
	}
	o := a.out
	o.HeadingLine("Component Status:")
	for _, c := range components {
		o.Printf("  %s: %s\n", c.Name, o.Status(c.Status))
	}
}
