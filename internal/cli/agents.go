// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// agents.go - Autonomous agent management commands.

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
	"github.com/aion-cr/aion-cli/internal/output"
)

// =============================================================================
// COMMAND TREE
// =============================================================================

func (r *runner) agentsCommand() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List all agents",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.listAgents(ctx)
		}),
	}

	var create createAgentOptions
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new autonomous agent",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.createAgent(ctx, create)
		}),
	}
	createCmd.Flags().StringVar(&create.Name, "name", "", "Agent name")
	enumFlag(createCmd, &create.Type, "type", "", "", "Agent type", agentTypes...)
	enumFlag(createCmd, &create.Privileges, "privileges", "", "Operational", "Privilege level", privilegeNames...)
	createCmd.Flags().BoolVar(&create.Autonomous, "autonomous", false, "Enable maximum autonomy mode")
	required(createCmd, "name", "type")

	activate := &cobra.Command{
		Use:   "activate <AGENT_ID>",
		Short: "Activate an agent",
		Args:  cobra.ExactArgs(1),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			return a.activateAgent(ctx, args[0])
		}),
	}

	deactivate := &cobra.Command{
		Use:   "deactivate <AGENT_ID>",
		Short: "Deactivate an agent",
		Args:  cobra.ExactArgs(1),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			return a.deactivateAgent(ctx, args[0])
		}),
	}

	status := &cobra.Command{
		Use:   "status <AGENT_ID>",
		Short: "Get agent status",
		Args:  cobra.ExactArgs(1),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			return a.agentStatus(ctx, args[0])
		}),
	}

	var exec executeTaskOptions
	execute := &cobra.Command{
		Use:   "execute <AGENT_ID>",
		Short: "Execute agent task",
		Args:  cobra.ExactArgs(1),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			exec.AgentID = args[0]
			return a.executeTask(ctx, exec)
		}),
	}
	execute.Flags().StringVar(&exec.Task, "task", "", "Task type")
	enumFlag(execute, &exec.Priority, "priority", "", "Medium", "Task priority", priorities...)
	required(execute, "task")

	return r.group("agents", "agents", "Manage autonomous agents",
		list, createCmd, activate, deactivate, status, execute)
}

// =============================================================================
// HANDLERS
// =============================================================================

var agentHeaders = []string{"ID", "Name", "Type", "Status", "Decisions", "Accuracy", "Autonomy"}

var agentCSVHeader = []string{"id", "name", "type", "status", "decisions", "accuracy", "autonomy"}

func (a *App) listAgents(ctx context.Context) error {
	a.progress("Fetching agents list...")

	resp, err := a.get(ctx, api.PathAgents, nil, "list agents")
	if err != nil {
		return err
	}

	format := a.out.Format()
	if format.Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	agents := api.DecodeAgents(resp.Body)

	if format == output.FormatCSV {
		rows := make([][]string, 0, len(agents))
		for _, ag := range agents {
			rows = append(rows, []string{
				ag.ID,
				ag.Name,
				ag.Type,
				ag.Status,
				strconv.FormatUint(ag.Metrics.DecisionsMade, 10),
				formatFloat(ag.Metrics.AccuracyRate),
				formatFloat(ag.Metrics.AutonomyScore),
			})
		}
		a.out.CSV(agentCSVHeader, rows)
		return nil
	}

	if len(agents) == 0 {
		a.out.Println(a.out.Warning("No agents found"))
		return nil
	}

	rows := make([][]string, 0, len(agents))
	for _, ag := range agents {
		rows = append(rows, []string{
			output.Truncate(ag.ID, 8),
			ag.Name,
			ag.Type,
			a.out.Status(ag.Status),
			strconv.FormatUint(ag.Metrics.DecisionsMade, 10),
			output.Percent(ag.Metrics.AccuracyRate),
			output.Percent(ag.Metrics.AutonomyScore),
		})
	}
	a.out.TitleLine("Autonomous Agents")
	a.out.Table(agentHeaders, rows)
	return nil
}

type createAgentOptions struct {
	Name       string
	Type       string
	Privileges string
	Autonomous bool
}

func (a *App) createAgent(ctx context.Context, opts createAgentOptions) error {
	a.progress("Creating agent: " + opts.Name)

	body := api.NewCreateAgentRequest(opts.Name, opts.Type, opts.Privileges, opts.Autonomous)

	var created api.CreatedAgent
	err := a.withSpinner("Creating agent...", func() error {
		resp, err := a.post(ctx, api.PathAgentCreate, body, "create agent")
		if err != nil {
			return err
		}
		created = api.DecodeCreatedAgent(resp.Body)
		return nil
	})
	if err != nil {
		return err
	}

	a.out.Println(a.out.Success("Agent created successfully with ID: " + created.AgentID))
	if opts.Autonomous {
		a.out.Println(a.out.WarningBold("Agent created with MAXIMUM AUTONOMY privileges"))
	}
	return nil
}

func (a *App) activateAgent(ctx context.Context, id string) error {
	a.progress("Activating agent: " + id)

	if _, err := a.post(ctx, api.AgentPath(id, "activate"), nil, "activate agent"); err != nil {
		return err
	}
	a.out.Println(a.out.Success(fmt.Sprintf("Agent %s activated successfully", id)))
	return nil
}

func (a *App) deactivateAgent(ctx context.Context, id string) error {
	if err := a.requireConfirmation(fmt.Sprintf("Are you sure you want to deactivate agent %s?", id)); err != nil {
		return err
	}

	a.progress("Deactivating agent: " + id)

	if _, err := a.post(ctx, api.AgentPath(id, "deactivate"), nil, "deactivate agent"); err != nil {
		return err
	}
	a.out.Println(a.out.Success(fmt.Sprintf("Agent %s deactivated successfully", id)))
	return nil
}

func (a *App) agentStatus(ctx context.Context, id string) error {
	resp, err := a.get(ctx, api.AgentPath(id, "status"), nil, "get agent status")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	ag := api.DecodeAgentStatus(resp.Body)
	o := a.out
	o.TitleLine("Agent Status: " + id)
	o.Println("Name: " + ag.Name)
	o.Println("Type: " + ag.Type)
	o.Println("Status: " + o.Status(ag.Status))
	o.Println("Privileges: " + ag.Privileges)

	if ag.HasMetrics {
		m := ag.Metrics
		o.HeadingLine("Performance Metrics:")
		o.Printf("  Decisions Made: %d\n", m.DecisionsMade)
		o.Printf("  Accuracy Rate: %s\n", output.Percent(m.AccuracyRate))
		o.Printf("  Response Time: %dms\n", m.ResponseTimeMs)
		o.Printf("  Threats Mitigated: %d\n", m.ThreatsMitigated)
		o.Printf("  Autonomy Level: %s\n", output.Percent(m.AutonomyScore))
	}
	return nil
}

type executeTaskOptions struct {
	AgentID  string
	Task     string
	Priority string
}

func (a *App) executeTask(ctx context.Context, opts executeTaskOptions) error {
	a.progress(fmt.Sprintf("Executing task '%s' on agent %s", opts.Task, opts.AgentID))

	body := api.NewExecuteTaskRequest(opts.Task, opts.Priority)

	var result api.TaskResult
	err := a.withSpinner("Executing task...", func() error {
		resp, err := a.post(ctx, api.AgentPath(opts.AgentID, "execute"), body, "execute task")
		if err != nil {
			return err
		}
		result = api.DecodeTaskResult(resp.Body)
		return nil
	})
	if err != nil {
		return err
	}

	a.out.Println(a.out.Success("Task executed successfully. Task ID: " + result.TaskID))
	return nil
}

// formatFloat prints a number in its shortest exact form (0.95, 1, 0).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
