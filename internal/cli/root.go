// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Command tree construction and process entry point.
//
// Root flags are accepted only before the subcommand, the same way the
// server's own tooling has always parsed them:
//
//	aion-cli -s http://aion:8080 -f json agents list

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/config"
	"github.com/aion-cr/aion-cli/internal/output"
)

// suggestionDistance is the largest edit distance offered as "Did you mean".
const suggestionDistance = 2

// rootFlags holds the raw values of the root flags.
type rootFlags struct {
	server  string
	format  string
	verbose bool
	noColor bool
	yes     bool
	retries int
}

// runner owns one execution of the command tree. The App is built lazily
// on first use so parse errors never touch configuration.
type runner struct {
	streams Streams
	loader  config.Loader
	flags   rootFlags
	root    *cobra.Command
	app     *App
}

// Execute runs the CLI with args (without the program name) and returns
// the process exit code.
func Execute(ctx context.Context, args []string, streams Streams) int {
	streams = streams.withDefaults()
	return run(ctx, args, streams, config.Loader{Terminal: isTerminal(streams.Out)})
}

func run(ctx context.Context, args []string, streams Streams, loader config.Loader) int {
	streams = streams.withDefaults()
	r := newRunner(streams, loader)
	// cobra reads os.Args when given nil.
	if args == nil {
		args = []string{}
	}
	r.root.SetArgs(args)

	err := r.root.ExecuteContext(ctx)
	if err != nil {
		PrintError(streams.Err, r.errFormatter(), err)
	}
	return ExitCode(err)
}

// NewRootCommand builds the full command tree reading configuration from
// the default sources.
func NewRootCommand(streams Streams) *cobra.Command {
	streams = streams.withDefaults()
	return newRunner(streams, config.Loader{Terminal: isTerminal(streams.Out)}).root
}

func newRunner(streams Streams, loader config.Loader) *runner {
	r := &runner{streams: streams, loader: loader}

	root := &cobra.Command{
		Use:              "aion-cli",
		Short:            "Advanced AI-powered regulatory compliance management CLI",
		Version:          Version,
		Args:             cobra.ArbitraryArgs,
		TraverseChildren: true,
		SilenceErrors:    true,
		SilenceUsage:     true,
		RunE:             r.rootFallback,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SuggestionsMinimumDistance = suggestionDistance
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	fs := root.Flags()
	fs.StringVarP(&r.flags.server, "server", "s", config.DefaultServer, "AION-CR server URL")
	enumFlag(root, &r.flags.format, "format", "f", string(config.DefaultFormat), "Output format", output.Formats...)
	fs.BoolVarP(&r.flags.verbose, "verbose", "v", false, "Enable verbose output")
	fs.BoolVar(&r.flags.noColor, "no-color", false, "Disable colored output")
	fs.BoolVarP(&r.flags.yes, "yes", "y", false, "Automatic yes to prompts")
	fs.IntVar(&r.flags.retries, "retries", config.DefaultRetries, "Number of retries for failed requests (accepted, not used)")

	root.AddCommand(
		r.agentsCommand(),
		r.complianceCommand(),
		r.conflictsCommand(),
		r.mlCommand(),
		r.monitorCommand(),
		r.deployCommand(),
		r.configCommand(),
		r.statusCommand(),
		r.interactiveCommand(),
	)

	r.root = root
	return r
}

// =============================================================================
// APP CONSTRUCTION
// =============================================================================

func (r *runner) overrides() config.Overrides {
	fs := r.root.Flags()
	o := config.Overrides{
		Verbose:     r.flags.verbose,
		NoColor:     r.flags.noColor,
		AutoConfirm: r.flags.yes,
	}
	if fs.Changed("server") {
		o.Server = &r.flags.server
	}
	if fs.Changed("format") {
		o.Format = &r.flags.format
	}
	if fs.Changed("retries") {
		o.Retries = &r.flags.retries
	}
	return o
}

// ensureApp resolves configuration and builds the App once.
func (r *runner) ensureApp() (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	opts, err := r.loader.Load(r.overrides())
	if err != nil {
		return nil, err
	}
	r.app = NewApp(opts, r.streams)
	return r.app, nil
}

func (r *runner) errFormatter() *output.Formatter {
	if r.app != nil {
		return r.app.errOut
	}
	return output.New(r.streams.Err, output.FormatTable, false)
}

// =============================================================================
// HANDLER ADAPTERS
// =============================================================================

// handlerFunc is the shape of every leaf command body.
type handlerFunc func(ctx context.Context, a *App, args []string) error

// action adapts fn to cobra. Errors become runtime failures, a declined
// confirmation becomes success.
func (r *runner) action(fn handlerFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := r.ensureApp()
		if err != nil {
			return NewCommandError(cmd.CommandPath(), err)
		}

		err = fn(cmd.Context(), a, args)
		if errors.Is(err, errCancelled) {
			err = nil
		}
		if err != nil {
			var usageErr *UsageError
			if errors.As(err, &usageErr) {
				return err
			}
			return NewCommandError(cmd.CommandPath(), err)
		}

		a.log.Debug("Command completed successfully")
		return nil
	}
}

// groupFallback handles a group invoked without a known subcommand. It
// warns and succeeds.
func (r *runner) groupFallback(label string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := r.ensureApp()
		if err != nil {
			return NewCommandError(cmd.CommandPath(), err)
		}
		a.warnNoSubcommand(cmd, fmt.Sprintf("No valid %s subcommand provided", label), args)
		return nil
	}
}

// rootFallback handles the root invoked without a known subcommand. With no
// arguments at all it is a failure; an unknown word is only a warning.
func (r *runner) rootFallback(cmd *cobra.Command, args []string) error {
	a, err := r.ensureApp()
	if err != nil {
		return NewCommandError(cmd.CommandPath(), err)
	}
	a.warnNoSubcommand(cmd, "No valid subcommand provided", args)
	if len(args) == 0 {
		return &exitError{code: ExitGeneralError}
	}
	return nil
}

func (a *App) warnNoSubcommand(cmd *cobra.Command, message string, args []string) {
	a.errOut.Println(a.errOut.Failure(message))
	if len(args) > 0 {
		if suggestions := cmd.SuggestionsFor(args[0]); len(suggestions) > 0 {
			a.errOut.Println(a.errOut.Warning(fmt.Sprintf("Did you mean '%s'?", suggestions[0])))
		}
	}
	a.errOut.Printf("Run '%s --help' for usage.\n", cmd.CommandPath())
}

// group builds a command group with the shared fallback.
func (r *runner) group(name, label, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE:  r.groupFallback(label),

		SuggestionsMinimumDistance: suggestionDistance,
	}
	cmd.AddCommand(children...)
	return cmd
}
