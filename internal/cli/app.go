// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Per-run application context shared by every command handler.

package cli

import (
	"bufio"
	"context"
	"io"
	"net/url"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/aion-cr/aion-cli/internal/client"
	"github.com/aion-cr/aion-cli/internal/config"
	"github.com/aion-cr/aion-cli/internal/output"
)

// Version is reported by --version and sent in the User-Agent header.
const Version = "1.0.0"

// Streams bundles the process I/O so tests can substitute buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

func (s Streams) withDefaults() Streams {
	if s.In == nil {
		s.In = os.Stdin
	}
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.Err == nil {
		s.Err = os.Stderr
	}
	return s
}

// App carries the resolved options and the collaborators every handler
// needs. It is built once per run after flags are parsed.
type App struct {
	opts   *config.Options
	client *client.Client
	out    *output.Formatter
	errOut *output.Formatter

	in     *bufio.Reader
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	log *log.Logger

	// spin starts a progress indicator and returns its stop function.
	spin func(message string) (stop func())
	// open launches a browser on url.
	open func(url string) error
}

// NewApp wires an App for opts.
func NewApp(opts *config.Options, streams Streams) *App {
	streams = streams.withDefaults()

	a := &App{
		opts: opts,
		client: client.NewClientWithConfig(&client.ClientConfig{
			BaseURL:   opts.Server,
			Timeout:   opts.Timeout,
			UserAgent: "aion-cli/" + Version,
		}),
		out:    output.New(streams.Out, opts.Format, opts.Color),
		errOut: output.New(streams.Err, output.FormatTable, opts.Color),
		in:     bufio.NewReader(streams.In),
		stdin:  streams.In,
		stdout: streams.Out,
		stderr: streams.Err,
		log:    newLogger(streams.Err, opts),
		open:   openBrowser,
	}
	a.spin = a.startSpinner
	return a
}

func newLogger(w io.Writer, opts *config.Options) *log.Logger {
	level := log.WarnLevel
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "aion",
		ReportTimestamp: false,
		Level:           level,
	})
	if !opts.Color {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}

// progress logs a verbose progress line.
func (a *App) progress(msg string, keyvals ...interface{}) {
	a.log.Debug(msg, keyvals...)
}

// withSpinner runs fn while a spinner shows message.
func (a *App) withSpinner(message string, fn func() error) error {
	stop := a.spin(message)
	defer stop()
	return fn()
}

// get issues a GET and converts non-2xx responses into *client.StatusError.
func (a *App) get(ctx context.Context, path string, query url.Values, action string) (*client.Response, error) {
	a.log.Debug("request", "method", "GET", "path", path)
	resp, err := a.client.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return resp, resp.Err(action)
}

// post issues a POST and converts non-2xx responses into *client.StatusError.
func (a *App) post(ctx context.Context, path string, body interface{}, action string) (*client.Response, error) {
	a.log.Debug("request", "method", "POST", "path", path)
	resp, err := a.client.Post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return resp, resp.Err(action)
}
