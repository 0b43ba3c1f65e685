// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/aion-cr/aion-cli/internal/output"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	DefaultServer  = "http://localhost:8080"
	DefaultFormat  = output.FormatTable
	DefaultRetries = 3
	DefaultTimeout = 30 * time.Second

	dirName        = ".aion"
	profileName    = "config.toml"
	historyName    = "history"
	defaultEnvFile = ".env"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options is the resolved configuration for one run.
type Options struct {
	Server      string
	Format      output.Format
	Verbose     bool
	Color       bool
	AutoConfirm bool

	// MaxRetries is accepted and reported but requests are never retried.
	MaxRetries int

	Timeout     time.Duration
	HistoryFile string
}

// Default returns the built-in options.
func Default() *Options {
	return &Options{
		Server:      DefaultServer,
		Format:      DefaultFormat,
		Color:       true,
		MaxRetries:  DefaultRetries,
		Timeout:     DefaultTimeout,
		HistoryFile: defaultHistoryFile(),
	}
}

// Profile mirrors ~/.aion/config.toml. Unset keys leave the lower layer alone.
type Profile struct {
	Server      string `toml:"server"`
	Format      string `toml:"format"`
	Color       *bool  `toml:"color"`
	Retries     *int   `toml:"retries"`
	Timeout     string `toml:"timeout"`
	HistoryFile string `toml:"history_file"`
}

// Overrides carries command line flags. Nil pointers mean "not given".
type Overrides struct {
	Server      *string
	Format      *string
	Retries     *int
	Verbose     bool
	NoColor     bool
	AutoConfirm bool
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns ~/.aion.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// ProfilePath returns ~/.aion/config.toml.
func ProfilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, profileName), nil
}

func defaultHistoryFile() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, historyName)
}

// =============================================================================
// LOADING
// =============================================================================

// Loader resolves Options from its sources. The zero value reads the real
// profile, .env file and process environment.
type Loader struct {
	// ProfilePath overrides ~/.aion/config.toml. "-" disables the profile.
	ProfilePath string
	// EnvFile overrides ".env". "-" disables dotenv loading.
	EnvFile string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Terminal reports whether stdout is a terminal. Color is switched off
	// for non-terminals unless FORCE_COLOR is set.
	Terminal bool
}

// Load applies every layer and validates the result.
func (l Loader) Load(flags Overrides) (*Options, error) {
	opts := Default()

	profile, err := l.readProfile()
	if err != nil {
		return nil, err
	}
	if err := opts.applyProfile(profile); err != nil {
		return nil, err
	}

	env, err := l.environment()
	if err != nil {
		return nil, err
	}
	if err := opts.applyEnv(env); err != nil {
		return nil, err
	}

	if err := opts.applyFlags(flags); err != nil {
		return nil, err
	}

	if opts.Color && !l.Terminal {
		if v, ok := env("FORCE_COLOR"); !ok || v == "" || v == "0" {
			opts.Color = false
		}
	}

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return opts, nil
}

func (l Loader) readProfile() (*Profile, error) {
	path := l.ProfilePath
	if path == "-" {
		return &Profile{}, nil
	}
	if path == "" {
		p, err := ProfilePath()
		if err != nil {
			return &Profile{}, nil
		}
		path = p
	}
	return LoadProfile(path)
}

// LoadProfile decodes a TOML profile. A missing file yields an empty profile.
func LoadProfile(path string) (*Profile, error) {
	p := &Profile{}
	if _, err := toml.DecodeFile(path, p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Profile{}, nil
		}
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return p, nil
}

// environment returns a lookup over the process environment backed by the
// optional .env file. Real variables win over .env entries.
func (l Loader) environment() (func(string) (string, bool), error) {
	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	dotenv := map[string]string{}
	if l.EnvFile != "-" {
		path := l.EnvFile
		if path == "" {
			path = defaultEnvFile
		}
		m, err := godotenv.Read(path)
		switch {
		case err == nil:
			dotenv = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

func (o *Options) applyProfile(p *Profile) error {
	if p.Server != "" {
		o.Server = p.Server
	}
	if p.Format != "" {
		f, err := output.ParseFormat(p.Format)
		if err != nil {
			return ValidationError{Field: "format", Message: err.Error()}
		}
		o.Format = f
	}
	if p.Color != nil {
		o.Color = *p.Color
	}
	if p.Retries != nil {
		o.MaxRetries = *p.Retries
	}
	if p.Timeout != "" {
		d, err := parseTimeout(p.Timeout)
		if err != nil {
			return ValidationError{Field: "timeout", Message: err.Error()}
		}
		o.Timeout = d
	}
	if p.HistoryFile != "" {
		o.HistoryFile = expandHome(p.HistoryFile)
	}
	return nil
}

func (o *Options) applyEnv(env func(string) (string, bool)) error {
	if v, ok := env("AION_SERVER"); ok && v != "" {
		o.Server = v
	}
	if v, ok := env("AION_FORMAT"); ok && v != "" {
		f, err := output.ParseFormat(v)
		if err != nil {
			return ValidationError{Field: "AION_FORMAT", Message: err.Error()}
		}
		o.Format = f
	}
	if v, ok := env("AION_RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ValidationError{Field: "AION_RETRIES", Message: fmt.Sprintf("not a number: %q", v)}
		}
		o.MaxRetries = n
	}
	if v, ok := env("AION_TIMEOUT"); ok && v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return ValidationError{Field: "AION_TIMEOUT", Message: err.Error()}
		}
		o.Timeout = d
	}
	if v, ok := env("AION_NO_COLOR"); ok && truthy(v) {
		o.Color = false
	}
	// https://no-color.org: any non-empty value disables color.
	if v, ok := env("NO_COLOR"); ok && v != "" {
		o.Color = false
	}
	return nil
}

func (o *Options) applyFlags(f Overrides) error {
	if f.Server != nil {
		o.Server = *f.Server
	}
	if f.Format != nil {
		format, err := output.ParseFormat(*f.Format)
		if err != nil {
			return ValidationError{Field: "format", Message: err.Error()}
		}
		o.Format = format
	}
	if f.Retries != nil {
		o.MaxRetries = *f.Retries
	}
	if f.NoColor {
		o.Color = false
	}
	o.Verbose = f.Verbose
	o.AutoConfirm = f.AutoConfirm
	return nil
}

// parseTimeout accepts a Go duration ("45s", "2m") or a bare number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("timeout must be positive, got %d", n)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the resolved options.
func (o *Options) Validate() error {
	var errs ValidateErrors

	if _, err := output.ParseFormat(string(o.Format)); err != nil {
		errs = append(errs, ValidationError{Field: "format", Message: err.Error()})
	}

	if strings.TrimSpace(o.Server) == "" {
		errs = append(errs, ValidationError{Field: "server", Message: "server URL cannot be empty"})
	} else if u, err := url.Parse(o.Server); err != nil {
		errs = append(errs, ValidationError{Field: "server", Message: fmt.Sprintf("invalid URL: %v", err)})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{Field: "server", Message: fmt.Sprintf("URL must use http or https scheme, got %q", u.Scheme)})
	} else if u.Host == "" {
		errs = append(errs, ValidationError{Field: "server", Message: "URL must include a host"})
	}

	if o.MaxRetries < 0 {
		errs = append(errs, ValidationError{Field: "retries", Message: fmt.Sprintf("must be >= 0, got %d", o.MaxRetries)})
	}

	if o.Timeout <= 0 {
		errs = append(errs, ValidationError{Field: "timeout", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
