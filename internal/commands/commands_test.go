// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func testRegistry() *Registry {
	noop := func(context.Context, []string) error { return nil }

	r := NewRegistry()
	r.Register(&Command{Name: "status", Description: "Show system status", Handler: noop})
	r.Register(&Command{Name: "health", Description: "Check system health", Handler: noop})
	r.Register(&Command{
		Name:        "agents",
		Usage:       "agents list",
		Description: "List autonomous agents",
		Args:        []ArgDef{{Name: "action", Required: true, Values: []string{"list"}}},
		Handler:     noop,
	})
	r.Register(&Command{Name: "help", Description: "Show this help", Handler: noop})
	r.Register(&Command{
		Name:        "exit",
		Aliases:     []string{"quit"},
		Description: "Exit interactive mode",
		Handler:     func(context.Context, []string) error { return ErrQuit },
	})
	r.Register(&Command{Name: "debug", Hidden: true, Handler: noop})
	return r
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestRegistry_GetByNameAndAlias(t *testing.T) {
	r := testRegistry()

	if cmd := r.Get("status"); cmd == nil || cmd.Name != "status" {
		t.Errorf("Get(status) = %v", cmd)
	}
	if cmd := r.Get("quit"); cmd == nil || cmd.Name != "exit" {
		t.Errorf("Get(quit) should resolve to exit, got %v", cmd)
	}
	if cmd := r.Get("nope"); cmd != nil {
		t.Errorf("Get(nope) = %v, want nil", cmd)
	}
}

func TestRegistry_AllKeepsOrderAndHidesHidden(t *testing.T) {
	var names []string
	for _, cmd := range testRegistry().All() {
		names = append(names, cmd.Name)
	}
	want := []string{"status", "health", "agents", "help", "exit"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("All() = %v, want %v", names, want)
	}
}

func TestRegistry_ReRegisterReplaces(t *testing.T) {
	r := testRegistry()
	r.Register(&Command{Name: "status", Description: "replaced"})

	all := r.All()
	if got := all[len(all)-1]; got.Description != "replaced" {
		t.Errorf("last command = %q, want replaced status", got.Description)
	}
	if len(all) != 5 {
		t.Errorf("len(All()) = %d, want 5", len(all))
	}
}

func TestHelpLabel(t *testing.T) {
	r := testRegistry()
	if got := r.Get("agents").HelpLabel(); got != "agents list" {
		t.Errorf("HelpLabel = %q", got)
	}
	if got := r.Get("status").HelpLabel(); got != "status" {
		t.Errorf("HelpLabel = %q", got)
	}
}

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestParse(t *testing.T) {
	p := NewParser(testRegistry())

	tests := []struct {
		input    string
		wantName string
		wantArgs []string
		found    bool
	}{
		{"status", "status", nil, true},
		{"  agents   list  ", "agents", []string{"list"}, true},
		{"quit", "quit", nil, true},
		{"frobnicate now", "frobnicate", []string{"now"}, false},
		{"", "", nil, false},
	}

	for _, tc := range tests {
		got := p.Parse(tc.input)
		if got.CommandName != tc.wantName {
			t.Errorf("Parse(%q).CommandName = %q, want %q", tc.input, got.CommandName, tc.wantName)
		}
		if !reflect.DeepEqual(got.Args, tc.wantArgs) {
			t.Errorf("Parse(%q).Args = %v, want %v", tc.input, got.Args, tc.wantArgs)
		}
		if (got.Command != nil) != tc.found {
			t.Errorf("Parse(%q).Command found = %v, want %v", tc.input, got.Command != nil, tc.found)
		}
	}

	if !p.Parse("   ").Empty() {
		t.Error("blank line should parse as empty")
	}
}

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a b c", []string{"a", "b", "c"}},
		{`say "hello world"`, []string{"say", "hello world"}},
		{`say 'it''s'`, []string{"say", "its"}},
		{`say "a \"quoted\" word"`, []string{"say", `a "quoted" word`}},
		{`empty ""`, []string{"empty", ""}},
		{"tabs\tand  spaces", []string{"tabs", "and", "spaces"}},
		{"", nil},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitCommandLine(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestValidateArgs(t *testing.T) {
	agents := testRegistry().Get("agents")

	if err := ValidateArgs(agents, []string{"list"}); err != nil {
		t.Errorf("ValidateArgs(list) = %v", err)
	}

	var verr *ValidationError
	if err := ValidateArgs(agents, nil); !errors.As(err, &verr) || verr.Message != "required argument missing" {
		t.Errorf("ValidateArgs(nil) = %v", err)
	}
	if err := ValidateArgs(agents, []string{"create"}); !errors.As(err, &verr) || verr.Got != "create" {
		t.Errorf("ValidateArgs(create) = %v", err)
	}
	if err := ValidateArgs(nil, []string{"x"}); err != nil {
		t.Errorf("ValidateArgs(nil cmd) = %v", err)
	}
}

// =============================================================================
// COMPLETION AND SUGGESTION TESTS
// =============================================================================

func TestComplete(t *testing.T) {
	c := NewCompleter(testRegistry())

	tests := []struct {
		line string
		want []string
	}{
		{"he", []string{"help", "health"}},
		{"q", []string{"quit"}},
		{"agents ", []string{"agents list"}},
		{"agents l", []string{"agents list"}},
		{"agents x", []string{}},
		{"status ", nil},
		{"unknown ", nil},
		{"deb", []string{}},
	}

	for _, tc := range tests {
		got := c.Complete(tc.line)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Complete(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestSuggest(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		input string
		want  string
	}{
		{"stauts", "status"},
		{"helth", "health"},
		{"agnets", "agents"},
		{"exti", "exit"},
		{"status", ""},
		{"x", ""},
		{"completely-different", ""},
	}

	for _, tc := range tests {
		if got := r.Suggest(tc.input); got != tc.want {
			t.Errorf("Suggest(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"héllo", "hello", 1},
	}
	for _, tc := range tests {
		if got := levenshteinDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
