// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// conflicts.go - Regulatory conflict detection and resolution commands.

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
	"github.com/aion-cr/aion-cli/internal/output"
)

const (
	detectionConfidence = 0.7
	ruleTextChars       = 50
)

// =============================================================================
// COMMAND TREE
// =============================================================================

func (r *runner) conflictsCommand() *cobra.Command {
	var detect detectOptions
	detectCmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect regulatory conflicts",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.detectConflicts(ctx, detect)
		}),
	}
	detectCmd.Flags().StringVar(&detect.RulesFile, "rules", "", "File containing rules to analyze (JSON or YAML)")
	enumFlag(detectCmd, &detect.Algorithm, "algorithm", "", "ml_optimization", "Detection algorithm", algorithms...)
	required(detectCmd, "rules")

	var strategy string
	resolve := &cobra.Command{
		Use:   "resolve <CONFLICT_ID>",
		Short: "Resolve detected conflicts",
		Args:  cobra.ExactArgs(1),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			return a.resolveConflict(ctx, args[0], strategy)
		}),
	}
	enumFlag(resolve, &strategy, "strategy", "", "automatic", "Resolution strategy", strategies...)

	var timeframe string
	analyze := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze conflict patterns",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.analyzeConflicts(ctx, timeframe)
		}),
	}
	analyze.Flags().StringVar(&timeframe, "timeframe", "30d", "Analysis timeframe")

	var graphOutput string
	graph := &cobra.Command{
		Use:   "graph",
		Short: "Generate conflict graph visualization",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.generateConflictGraph(ctx, graphOutput)
		}),
	}
	graph.Flags().StringVar(&graphOutput, "output", "conflicts.svg", "Output file for graph visualization")

	return r.group("conflicts", "conflicts", "Regulatory conflict detection and resolution",
		detectCmd, resolve, analyze, graph)
}

// =============================================================================
// HANDLERS
// =============================================================================

var conflictHeaders = []string{"ID", "Rule 1", "Rule 2", "Severity", "Resolution"}

type detectOptions struct {
	RulesFile string
	Algorithm string
}

func (a *App) detectConflicts(ctx context.Context, opts detectOptions) error {
	rules, err := readDocument(opts.RulesFile)
	if err != nil {
		return err
	}

	a.progress(fmt.Sprintf("Detecting conflicts using %s algorithm", opts.Algorithm))

	body := api.DetectRequest{
		Rules:               rules,
		DetectionAlgorithm:  opts.Algorithm,
		ConfidenceThreshold: detectionConfidence,
	}

	var raw []byte
	err = a.withSpinner("Analyzing conflicts...", func() error {
		resp, err := a.post(ctx, api.PathConflictsDetect, body, "detect conflicts")
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

	detection := api.DecodeDetection(raw)
	o := a.out
	o.TitleLine("Conflict Detection Results")
	if !detection.HasConflicts {
		return nil
	}
	if len(detection.Conflicts) == 0 {
		o.Println(o.Success("No conflicts detected"))
		return nil
	}

	o.Printf("%s: %d\n", o.Failure("Conflicts found"), len(detection.Conflicts))
	rows := make([][]string, 0, len(detection.Conflicts))
	for i, c := range detection.Conflicts {
		rows = append(rows, []string{
			fmt.Sprintf("C%03d", i+1),
			output.TruncateChars(c.Rule1Text, ruleTextChars) + "...",
			output.TruncateChars(c.Rule2Text, ruleTextChars) + "...",
			o.Severity(c.Severity),
			c.ResolutionStatus,
		})
	}
	o.Table(conflictHeaders, rows)
	return nil
}

func (a *App) resolveConflict(ctx context.Context, id, strategy string) error {
	a.progress(fmt.Sprintf("Resolving conflict %s using %s strategy", id, strategy))

	body := api.ResolveRequest{
		ConflictID:         id,
		ResolutionStrategy: strategy,
		AutoApply:          strategy == "automatic",
	}

	var result api.Resolution
	err := a.withSpinner("Resolving conflict...", func() error {
		resp, err := a.post(ctx, api.ConflictResolvePath(id), body, "resolve conflict")
		if err != nil {
			return err
		}
		result = api.DecodeResolution(resp.Body)
		return nil
	})
	if err != nil {
		return err
	}

	o := a.out
	o.Println(o.Success("Conflict resolved successfully. Resolution ID: " + result.ResolutionID))

	if d := result.Detail; d != nil {
		o.HeadingLine("Resolution Details:")
		o.Println("Strategy: " + d.Strategy)
		o.Println("Confidence: " + output.Percent(d.Confidence))
		if d.HasActions {
			o.Println()
			o.Println("Recommended Actions:")
			for i, action := range d.Actions {
				o.Printf("  %d. %s\n", i+1, action)
			}
		}
	}
	return nil
}

func (a *App) analyzeConflicts(ctx context.Context, timeframe string) error {
	a.progress("Analyzing conflict patterns for timeframe: " + timeframe)

	body := api.AnalyzeConflictsRequest{
		Timeframe:       timeframe,
		IncludePatterns: true,
		IncludeTrends:   true,
	}
	resp, err := a.post(ctx, api.PathConflictsAnalyze, body, "analyze conflicts")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	analysis := api.DecodeConflictAnalysis(resp.Body)
	o := a.out
	o.TitleLine("Conflict Pattern Analysis")
	o.Println("Timeframe: " + timeframe)
	o.Println("Total Conflicts: " + strconv.FormatUint(analysis.TotalConflicts, 10))
	o.Println("Resolved: " + strconv.FormatUint(analysis.ResolvedConflicts, 10))
	o.Println("Resolution Rate: " + output.Percent(analysis.ResolutionRate))

	if analysis.HasPatterns {
		o.HeadingLine("Common Patterns:")
		for i, p := range analysis.Patterns {
			o.Printf("  %d. %s (Frequency: %d)\n", i+1, p.Description, p.Frequency)
		}
	}
	return nil
}

func (a *App) generateConflictGraph(ctx context.Context, path string) error {
	a.progress("Generating conflict graph visualization...")

	body := api.GraphRequest{
		OutputFormat:           "svg",
		IncludeResolutionPaths: true,
		Layout:                 "force_directed",
	}

	var raw []byte
	err := a.withSpinner("Generating graph...", func() error {
		resp, err := a.post(ctx, api.PathConflictsGraph, body, "generate graph")
		if err != nil {
			return err
		}
		raw = resp.Body
		return nil
	})
	if err != nil {
		return err
	}

	if err := writeArtifact(path, raw); err != nil {
		return err
	}
	a.out.Println(a.out.Success("Conflict graph saved to: " + path))
	return nil
}
