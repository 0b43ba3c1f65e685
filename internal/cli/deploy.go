// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// deploy.go - Deployment and infrastructure commands.

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/api"
)

// =============================================================================
// COMMAND TREE
// =============================================================================

func (r *runner) deployCommand() *cobra.Command {
	var start deployStartOptions
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start AION-CR deployment",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.startDeployment(ctx, start)
		}),
	}
	enumFlag(startCmd, &start.Environment, "env", "", "development", "Deployment environment", environments...)
	startCmd.Flags().Uint32Var(&start.Replicas, "scale", 3, "Number of replicas")
	startCmd.Flags().BoolVar(&start.Autonomous, "autonomous", false, "Enable autonomous deployment mode")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "Stop AION-CR deployment",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.stopDeployment(ctx)
		}),
	}

	var auto bool
	scale := &cobra.Command{
		Use:   "scale <REPLICAS>",
		Short: "Scale deployment",
		Args:  cobra.ExactArgs(1),
		RunE: r.action(func(ctx context.Context, a *App, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return NewUsageError("<REPLICAS>", args[0], "expected a non-negative integer")
			}
			return a.scaleDeployment(ctx, uint32(n), auto)
		}),
	}
	scale.Flags().BoolVar(&auto, "auto", false, "Enable auto-scaling")

	var update deployUpdateOptions
	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update deployment",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.updateDeployment(ctx, update)
		}),
	}
	updateCmd.Flags().StringVar(&update.Image, "image", "", "Container image")
	updateCmd.Flags().BoolVar(&update.Rolling, "rolling", false, "Use rolling update strategy")
	required(updateCmd, "image")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show deployment status",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.deploymentStatus(ctx)
		}),
	}

	return r.group("deploy", "deploy", "Deployment and infrastructure management",
		startCmd, stop, scale, updateCmd, status)
}

// =============================================================================
// HANDLERS
// =============================================================================

type deployStartOptions struct {
	Environment string
	Replicas    uint32
	Autonomous  bool
}

func (a *App) startDeployment(ctx context.Context, opts deployStartOptions) error {
	a.progress(fmt.Sprintf("Starting %s deployment with %d replicas", opts.Environment, opts.Replicas))

	o := a.out
	if opts.Autonomous {
		o.Println(o.WarningBold("Starting deployment with AUTONOMOUS MODE enabled"))
	}

	body := api.DeployRequest{
		Environment:    opts.Environment,
		Replicas:       opts.Replicas,
		AutonomousMode: opts.Autonomous,
		AutoScaling:    true,
		Monitoring:     true,
	}

	var started api.DeploymentStarted
	err := a.withSpinner("Deploying AION-CR...", func() error {
		resp, err := a.post(ctx, api.PathDeployStart, body, "start deployment")
		if err != nil {
			return err
		}
		started = api.DecodeDeploymentStarted(resp.Body)
		return nil
	})
	if err != nil {
		return err
	}

	o.Println(o.Success("Deployment started successfully"))
	o.Println("Deployment ID: " + started.DeploymentID)
	o.Println("Environment: " + opts.Environment)
	o.Printf("Replicas: %d\n", opts.Replicas)
	if opts.Autonomous {
		o.Println(o.SuccessBold("Autonomous mode: ENABLED"))
	}
	return nil
}

func (a *App) stopDeployment(ctx context.Context) error {
	if err := a.requireConfirmation("Are you sure you want to stop the deployment?"); err != nil {
		return err
	}

	a.progress("Stopping deployment...")

	err := a.withSpinner("Stopping deployment...", func() error {
		_, err := a.post(ctx, api.PathDeployStop, nil, "stop deployment")
		return err
	})
	if err != nil {
		return err
	}
	a.out.Println(a.out.Success("Deployment stopped successfully"))
	return nil
}

func (a *App) scaleDeployment(ctx context.Context, replicas uint32, auto bool) error {
	a.progress(fmt.Sprintf("Scaling deployment to %d replicas", replicas))

	body := api.ScaleRequest{Replicas: replicas, AutoScaling: auto}
	if _, err := a.post(ctx, api.PathDeployScale, body, "scale deployment"); err != nil {
		return err
	}

	a.out.Println(a.out.Success(fmt.Sprintf("Deployment scaled to %d replicas", replicas)))
	if auto {
		a.out.Println(a.out.Info("Auto-scaling enabled"))
	}
	return nil
}

type deployUpdateOptions struct {
	Image   string
	Rolling bool
}

func (a *App) updateDeployment(ctx context.Context, opts deployUpdateOptions) error {
	a.progress("Updating deployment to image: " + opts.Image)

	strategy := "recreate"
	if opts.Rolling {
		strategy = "rolling"
	}
	body := api.UpdateRequest{Image: opts.Image, Strategy: strategy}

	err := a.withSpinner("Updating deployment...", func() error {
		_, err := a.post(ctx, api.PathDeployUpdate, body, "update deployment")
		return err
	})
	if err != nil {
		return err
	}
	a.out.Println(a.out.Success("Deployment updated successfully"))
	return nil
}

func (a *App) deploymentStatus(ctx context.Context) error {
	resp, err := a.get(ctx, api.PathDeployStatus, nil, "get deployment status")
	if err != nil {
		return err
	}
	if a.out.Format().Structured() {
		a.out.Document(resp.Body)
		return nil
	}

	d := api.DecodeDeploymentStatus(resp.Body)
	o := a.out
	o.TitleLine("Deployment Status")
	o.Println("Environment: " + d.Environment)
	o.Println("Status: " + o.Status(d.Status))
	o.Printf("Replicas: %d / %d\n", d.ReadyReplicas, d.DesiredReplicas)
	o.Println("Image: " + d.Image)
	o.Println("Started: " + d.StartedAt)

	if d.HasEndpoints {
		o.HeadingLine("Endpoints:")
		for _, e := range d.Endpoints {
			o.Println("  - " + e)
		}
	}
	return nil
}
