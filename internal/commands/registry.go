// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"slices"
)

// ErrQuit is returned by a handler to end the shell session.
var ErrQuit = errors.New("quit")

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// HandlerFunc executes a shell command with the words that followed its name.
type HandlerFunc func(ctx context.Context, args []string) error

// Command is one shell command. Usage overrides Name in help listings;
// Hidden commands resolve but are left out of help and completion.
type Command struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
	Args        []ArgDef
	Handler     HandlerFunc
	Hidden      bool
}

// ArgDef defines a positional argument.
type ArgDef struct {
	Name        string
	Required    bool
	Description string

	// Values restricts the argument to a fixed set when non-empty.
	Values []string
}

// HelpLabel is the text shown for the command in help listings.
func (c *Command) HelpLabel() string {
	if c.Usage != "" {
		return c.Usage
	}
	return c.Name
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds registered commands in registration order.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
	order    []*Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
}

// Register adds cmd. A second command under the same name takes the place
// of the first.
func (r *Registry) Register(cmd *Command) {
	if prev := r.commands[cmd.Name]; prev != nil {
		r.order = slices.DeleteFunc(r.order, func(c *Command) bool { return c == prev })
	}
	r.commands[cmd.Name] = cmd
	r.order = append(r.order, cmd)
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get resolves a name or alias. Names win over aliases.
func (r *Registry) Get(name string) *Command {
	if cmd := r.commands[name]; cmd != nil {
		return cmd
	}
	return r.aliases[name]
}

// All returns the visible commands in registration order.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, cmd := range r.order {
		if !cmd.Hidden {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// Names returns every visible name and alias.
func (r *Registry) Names() []string {
	var names []string
	for _, cmd := range r.All() {
		names = append(append(names, cmd.Name), cmd.Aliases...)
	}
	return names
}
