// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// flags.go - Flag helpers shared by the command tree.

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// enumValue is a string flag restricted to a fixed set of values. Illegal
// values are rejected while flags are parsed, before any handler runs.
type enumValue struct {
	target  *string
	allowed []string
}

var _ pflag.Value = (*enumValue)(nil)

func (e *enumValue) String() string {
	if e.target == nil {
		return ""
	}
	return *e.target
}

func (e *enumValue) Set(v string) error {
	for _, a := range e.allowed {
		if v == a {
			*e.target = v
			return nil
		}
	}
	return fmt.Errorf("must be one of: %s", strings.Join(e.allowed, ", "))
}

func (e *enumValue) Type() string {
	return "string"
}

// enumFlag registers --name on cmd, storing the chosen value in target.
// An empty def leaves the flag unset by default.
func enumFlag(cmd *cobra.Command, target *string, name, shorthand, def, usage string, allowed ...string) {
	*target = def
	usage = fmt.Sprintf("%s [%s]", usage, strings.Join(allowed, ", "))
	cmd.Flags().VarP(&enumValue{target: target, allowed: allowed}, name, shorthand, usage)
	_ = cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(allowed, cobra.ShellCompDirectiveNoFileComp))
}

// required marks flags as mandatory. Names must have been registered.
func required(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("required flag %q not registered on %s", name, cmd.Name()))
		}
	}
}

// =============================================================================
// LEGAL VALUES
// =============================================================================

var (
	agentTypes     = []string{"ComplianceGovernor", "RegulatoryMonitor", "ConflictResolver", "ThreatDetector", "SystemOptimizer"}
	privilegeNames = []string{"Maximum", "Administrative", "Operational", "Monitoring", "ReadOnly"}
	priorities     = []string{"Critical", "High", "Medium", "Low"}
	frameworks     = []string{"FERC", "NERC", "EPA", "SOX", "GDPR", "HIPAA"}
	reportFormats  = []string{"pdf", "html", "json", "csv"}
	severities     = []string{"Critical", "High", "Medium", "Low"}
	algorithms     = []string{"ml_optimization", "graph_analysis", "semantic_similarity"}
	strategies     = []string{"automatic", "manual", "hybrid"}
	modelTypes     = []string{"conflict_detection", "compliance_prediction", "regulatory_classification"}
	analysisTypes  = []string{"classification", "sentiment", "entities", "conflicts"}
	logLevels      = []string{"error", "warn", "info", "debug", "trace"}
	environments   = []string{"development", "staging", "production"}
)
