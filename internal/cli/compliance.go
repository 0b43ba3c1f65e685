// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// compliance.go - Compliance assessment, monitoring and reporting commands.

package cli

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
	"github.com/aion-cr/aion-cli/internal/output"
)

// Score bands for an assessment.
const (
	compliantThreshold   = 0.9
	minorIssuesThreshold = 0.7
)

// alertThreshold is sent with every monitoring request.
const alertThreshold = 0.8

// =============================================================================
// COMMAND TREE
// =============================================================================

func (r *runner) complianceCommand() *cobra.Command {
	var assess assessOptions
	assessCmd := &cobra.Command{
		Use:   "assess",
		Short: "Run compliance assessment",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.assessCompliance(ctx, assess)
		}),
	}
	assessCmd.Flags().StringVar(&assess.Entity, "entity", "", "Entity to assess")
	enumFlag(assessCmd, &assess.Framework, "framework", "", "", "Compliance framework", frameworks...)
	assessCmd.Flags().BoolVar(&assess.Comprehensive, "comprehensive", false, "Run comprehensive assessment")
	required(assessCmd, "entity", "framework")

	var monitor monitorOptions
	monitorCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Start compliance monitoring",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.startComplianceMonitoring(ctx, monitor)
		}),
	}
	monitorCmd.Flags().StringVar(&monitor.Frameworks, "frameworks", "", "Comma-separated list of frameworks to monitor")
	monitorCmd.Flags().BoolVar(&monitor.RealTime, "real-time", false, "Enable real-time monitoring")
	required(monitorCmd, "frameworks")

	var report reportOptions
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate compliance report",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.generateReport(ctx, report)
		}),
	}
	reportCmd.Flags().StringVar(&report.Entity, "entity", "", "Entity ID")
	enumFlag(reportCmd, &report.Format, "format", "", "pdf", "Report format", reportFormats...)
	reportCmd.Flags().StringVar(&report.Output, "output", "", "Output file path")

	var severity string
	violations := &cobra.Command{
		Use:   "violations",
		Short: "List compliance violations",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.listViolations(ctx, severity)
		}),
	}
	enumFlag(violations, &severity, "severity", "", "", "Minimum severity level", severities...)

	return r.group("compliance", "compliance", "Compliance management and assessment",
		assessCmd, monitorCmd, reportCmd, violations)
}

// =============================================================================
// HANDLERS
// =============================================================================

type assessOptions struct {
	Entity        string
	Framework     string
	Comprehensive bool
}

func (a *App) assessCompliance(ctx context.Context, opts assessOptions) error {
	kind := "standard"
	if opts.Comprehensive {
		kind = "comprehensive"
	}
	a.progress(fmt.Sprintf("Running %s assessment for entity %s using %s framework", kind, opts.Entity, opts.Framework))

	body := api.AssessmentRequest{
		EntityID:           opts.Entity,
		Framework:          opts.Framework,
		AssessmentType:     kind,
		IncludePredictions: true,
	}

	var raw []byte
	err := a.withSpinner("Running compliance assessment...", func() error {
		resp, err := a.post(ctx, api.PathComplianceAssess, body, "run compliance assessment")
		if err != nil {
			return err
		}
		raw = resp.Body
		return nil
	})
	if err != nil {
		return err
	}

	if a.out.Format().Structured() {
		a.out.Document(raw)
		return nil
	}

	result := api.DecodeAssessment(raw)
	o := a.out
	o.TitleLine("Compliance Assessment Results")
	o.Println("Entity: " + opts.Entity)
	o.Println("Framework: " + opts.Framework)
	o.Printf("Compliance Score: %s (%s)\n", output.Percent(result.ComplianceScore), a.scoreBand(result.ComplianceScore))

	if len(result.Violations) > 0 {
		o.Println()
		o.Println(o.FailureBold("Violations Found:"))
		for i, v := range result.Violations {
			o.Printf("  %d. %s (Severity: %s)\n", i+1, v.Description, v.Severity)
		}
	}
	return nil
}

func (a *App) scoreBand(score float64) string {
	switch {
	case score >= compliantThreshold:
		return a.out.Success("COMPLIANT")
	case score >= minorIssuesThreshold:
		return a.out.Warning("MINOR_ISSUES")
	default:
		return a.out.Failure("NON_COMPLIANT")
	}
}

type monitorOptions struct {
	Frameworks string
	RealTime   bool
}

func (a *App) startComplianceMonitoring(ctx context.Context, opts monitorOptions) error {
	regulations := strings.Split(opts.Frameworks, ",")
	frequency, mode := "periodic", "periodic"
	if opts.RealTime {
		frequency, mode = "real_time", "real-time"
	}
	a.progress(fmt.Sprintf("Starting %s monitoring for frameworks: %s", mode, strings.Join(regulations, ", ")))

	body := api.MonitorRequest{
		Regulations:         regulations,
		MonitoringFrequency: frequency,
		AlertThreshold:      alertThreshold,
	}
	resp, err := a.post(ctx, api.PathComplianceMonitor, body, "start monitoring")
	if err != nil {
		return err
	}

	started := api.DecodeMonitorStarted(resp.Body)
	a.out.Println(a.out.Success("Monitoring started successfully. Monitor ID: " + started.MonitorID))
	if opts.RealTime {
		a.out.Println(a.out.Info("Real-time alerts will be displayed below:"))
	}
	return nil
}

type reportOptions struct {
	Entity string
	Format string
	Output string
}

func (a *App) generateReport(ctx context.Context, opts reportOptions) error {
	a.progress(fmt.Sprintf("Generating %s compliance report", opts.Format))

	body := api.ReportRequest{
		Format:                 opts.Format,
		IncludeCharts:          true,
		IncludeRecommendations: true,
	}
	if opts.Entity != "" {
		entity := opts.Entity
		body.EntityID = &entity
	}

	var raw []byte
	err := a.withSpinner("Generating report...", func() error {
		resp, err := a.post(ctx, api.PathComplianceReport, body, "generate report")
		if err != nil {
			return err
		}
		raw = resp.Body
		return nil
	})
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		a.out.JSON(raw)
		return nil
	}

	path := opts.Output
	if path == "" {
		path = "compliance_report." + opts.Format
	}
	if err := writeArtifact(path, raw); err != nil {
		return err
	}
	a.out.Println(a.out.Success("Report saved to: " + path))
	return nil
}

func (a *App) listViolations(ctx context.Context, minSeverity string) error {
	var query url.Values
	if minSeverity != "" {
		query = url.Values{"min_severity": {minSeverity}}
	}

	resp, err := a.get(ctx, api.PathViolations, query, "list violations")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	violations, ok := api.DecodeViolations(resp.Body)
	if !ok {
		return nil
	}

	o := a.out
	if len(violations) == 0 {
		o.Println(o.Success("No violations found"))
		return nil
	}

	o.Println()
	o.Println(o.FailureBold("Compliance Violations"))
	for i, v := range violations {
		o.Printf("%d. %s [%s]\n", i+1, v.Description, o.Severity(v.Severity))
		o.Println("   Entity: " + v.EntityID)
		o.Println("   Framework: " + v.Framework)
		o.Println()
	}
	return nil
}
