// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// interactive.go - Interactive shell with line editing and history.
//
// The shell supports a small fixed command set (status, health, agents
// list, help, exit). On a terminal it uses liner for arrow-key history and
// tab completion; otherwise it reads plain lines so it can be scripted.

package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/aion-cr/aion-cli/internal/commands"
	"github.com/aion-cr/aion-cli/internal/util"
)

const shellPrompt = "aion>"

func (r *runner) interactiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start interactive mode",
		Args:  cobra.NoArgs,
		RunE: r.action(func(ctx context.Context, a *App, _ []string) error {
			return a.runShell(ctx)
		}),
	}
}

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader yields one line per prompt. io.EOF ends the session.
type lineReader interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linerReader provides history navigation and completion on a terminal.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader(historyFile string, complete liner.Completer) *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	r := &linerReader{line: line, historyFile: historyFile}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return r
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (r *linerReader) Close() error {
	if r.historyFile != "" {
		var buf bytes.Buffer
		if _, err := r.line.WriteHistory(&buf); err == nil {
			_ = util.WriteFileAtomic(r.historyFile, buf.Bytes(), 0o600, 0o700)
		}
	}
	return r.line.Close()
}

// plainReader reads newline-terminated input from a pipe or file.
type plainReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (r *plainReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *plainReader) Close() error { return nil }

// =============================================================================
// SHELL
// =============================================================================

// newShellRegistry declares the shell commands. Handlers close over a.
func (a *App) newShellRegistry() *commands.Registry {
	reg := commands.NewRegistry()

	reg.Register(&commands.Command{
		Name:        "status",
		Description: "Show system status",
		Handler: func(ctx context.Context, _ []string) error {
			return a.systemStatus(ctx)
		},
	})
	reg.Register(&commands.Command{
		Name:        "health",
		Description: "Check system health",
		Handler: func(ctx context.Context, _ []string) error {
			return a.checkHealth(ctx)
		},
	})
	reg.Register(&commands.Command{
		Name:        "agents",
		Usage:       "agents list",
		Description: "List autonomous agents",
		Args: []commands.ArgDef{
			{Name: "action", Required: true, Description: "Agent action", Values: []string{"list"}},
		},
		Handler: func(ctx context.Context, _ []string) error {
			return a.listAgents(ctx)
		},
	})
	reg.Register(&commands.Command{
		Name:        "help",
		Description: "Show this help",
		Handler: func(context.Context, []string) error {
			a.printShellHelp(reg)
			return nil
		},
	})
	reg.Register(&commands.Command{
		Name:        "exit",
		Aliases:     []string{"quit"},
		Description: "Exit interactive mode",
		Handler: func(context.Context, []string) error {
			a.out.Println(a.out.Success("Goodbye!"))
			return commands.ErrQuit
		},
	})

	return reg
}

func (a *App) newLineReader(reg *commands.Registry) lineReader {
	if isTerminal(a.stdin) && isTerminal(a.stdout) {
		return newLinerReader(a.opts.HistoryFile, commands.NewCompleter(reg).Complete)
	}
	return &plainReader{in: a.in, out: a.stdout}
}

// runShell reads and executes commands until exit, end of input or Ctrl-C.
func (a *App) runShell(ctx context.Context) error {
	reg := a.newShellRegistry()
	parser := commands.NewParser(reg)

	reader := a.newLineReader(reg)
	defer reader.Close()

	o := a.out
	o.Println(o.Title("AION-CR Interactive Mode"))
	o.Println(o.Warning("Type 'help' for available commands or 'exit' to quit"))

	prompt := o.SuccessBold(shellPrompt) + " "
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := reader.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if quit := a.dispatchShellLine(ctx, parser, reg, line); quit {
			return nil
		}
	}
}

// dispatchShellLine runs one input line and reports whether the session
// should end. Command failures are printed and the session continues.
func (a *App) dispatchShellLine(ctx context.Context, parser *commands.Parser, reg *commands.Registry, line string) bool {
	result := parser.Parse(line)
	if result.Empty() {
		return false
	}

	cmd := result.Command
	if cmd == nil || (len(cmd.Args) == 0 && len(result.Args) > 0) {
		a.unknownShellCommand(reg, result)
		return false
	}

	if err := commands.ValidateArgs(cmd, result.Args); err != nil {
		a.out.Println(a.out.Warning("Usage: " + cmd.HelpLabel()))
		return false
	}

	err := cmd.Handler(ctx, result.Args)
	if errors.Is(err, commands.ErrQuit) {
		return true
	}
	if err != nil {
		PrintError(a.stderr, a.errOut, err)
	}
	return false
}

func (a *App) unknownShellCommand(reg *commands.Registry, result commands.ParseResult) {
	o := a.out
	o.Println(o.Failure("Unknown command: " + result.RawInput))
	if suggestion := reg.Suggest(result.CommandName); suggestion != "" {
		o.Println(o.Warning(fmt.Sprintf("Did you mean '%s'?", suggestion)))
	}
	o.Println(o.Warning("Type 'help' for available commands"))
}

func (a *App) printShellHelp(reg *commands.Registry) {
	o := a.out
	cmds := reg.All()

	width := 0
	for _, cmd := range cmds {
		if n := len(cmd.HelpLabel()); n > width {
			width = n
		}
	}

	o.TitleLine("Available Commands:")
	for _, cmd := range cmds {
		label := fmt.Sprintf("%-*s", width, cmd.HelpLabel())
		o.Printf("  %s  - %s\n", o.Success(label), cmd.Description)
	}
	o.Println()
}
