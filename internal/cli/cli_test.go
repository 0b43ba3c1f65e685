// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/aion-cr/aion-cli/internal/client"
	"github.com/aion-cr/aion-cli/internal/config"
	"github.com/aion-cr/aion-cli/internal/output"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// fakeServer answers "METHOD /path" routes and records every request.
type fakeServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeServer(t *testing.T, routes map[string]http.HandlerFunc) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fs.mu.Lock()
		fs.requests = append(fs.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		fs.mu.Unlock()

		if h, ok := routes[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) Requests() []recordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]recordedRequest(nil), fs.requests...)
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// testLoader ignores the user's profile, .env file and environment.
func testLoader(terminal bool) config.Loader {
	return config.Loader{
		ProfilePath: "-",
		EnvFile:     "-",
		LookupEnv:   func(string) (string, bool) { return "", false },
		Terminal:    terminal,
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return runWithLoader(t, testLoader(false), stdin, args...)
}

func runWithLoader(t *testing.T, loader config.Loader, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	streams := Streams{In: strings.NewReader(stdin), Out: &stdout, Err: &stderr}
	code := run(context.Background(), args, streams, loader)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// deadServerURL returns the address of a server that is no longer listening.
func deadServerURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()
	return target
}

const statusBody = `{
	"status": "healthy",
	"version": "2.1.0",
	"uptime": "3d 4h",
	"active_agents": 5,
	"total_requests": 1200,
	"compliance_score": 0.95,
	"components": {"database": {"status": "healthy"}}
}`

// =============================================================================
// STATUS
// =============================================================================

func TestStatus_Table(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusOK, statusBody),
	})

	res := runCLI(t, "", "-s", srv.URL, "status")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "AION-CR System Status")
	assert.Contains(t, res.stdout, "System Status: healthy")
	assert.Contains(t, res.stdout, "Version: 2.1.0")
	assert.Contains(t, res.stdout, "Active Agents: 5")
	assert.Contains(t, res.stdout, "Total Requests: 1200")
	assert.Contains(t, res.stdout, "Compliance Score: 95.0%")
	assert.Contains(t, res.stdout, "  database: healthy")
	assert.NotContains(t, res.stdout, "\x1b[", "color must be off for non-terminal output")
	assert.Empty(t, res.stderr)
}

func TestStatus_ColorOnTerminal(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusOK, statusBody),
	})

	plain := runCLI(t, "", "-s", srv.URL, "status")
	colored := runWithLoader(t, testLoader(true), "", "-s", srv.URL, "status")

	require.Equal(t, ExitSuccess, colored.code, colored.stderr)
	assert.Contains(t, colored.stdout, "\x1b[")
	assert.Equal(t, plain.stdout, ansi.Strip(colored.stdout))
}

func TestStatus_NoColorFlag(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusOK, statusBody),
	})

	res := runWithLoader(t, testLoader(true), "", "--no-color", "-s", srv.URL, "status")

	require.Equal(t, ExitSuccess, res.code)
	assert.NotContains(t, res.stdout, "\x1b[")
}

func TestStatus_MissingFieldsTolerated(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusOK, `{}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "status")

	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Active Agents: 0")
	assert.Contains(t, res.stdout, "Compliance Score: 0.0%")
	assert.NotContains(t, res.stdout, "Component Status")
}

func TestStatus_JSONFormat(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusOK, `{"status":"healthy"}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "-f", "json", "status")

	require.Equal(t, ExitSuccess, res.code)
	assert.True(t, gjson.Valid(res.stdout), res.stdout)
	assert.Equal(t, "healthy", gjson.Get(res.stdout, "status").String())
}

func TestStatus_YAMLFormat(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusOK, `{"status":"healthy"}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "-f", "yaml", "status")

	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, "status: healthy\n", res.stdout)
}

func TestVerboseLogsToStderr(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusOK, statusBody),
	})

	res := runCLI(t, "", "-v", "-s", srv.URL, "status")

	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "Fetching system status")
	assert.Contains(t, res.stderr, "Command completed successfully")
	assert.NotContains(t, res.stdout, "Command completed successfully")
}

// =============================================================================
// AGENTS
// =============================================================================

const agentsBody = `[{
	"id": "0123456789abcdef",
	"name": "Gov",
	"agent_type": "ComplianceGovernor",
	"status": "active",
	"performance_metrics": {"decisions_made": 12, "accuracy_rate": 0.95, "autonomy_score": 0.5}
}]`

func TestAgentsList_Table(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents": reply(http.StatusOK, agentsBody),
	})

	res := runCLI(t, "", "-s", srv.URL, "agents", "list")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Autonomous Agents")
	assert.Contains(t, res.stdout, "01234567")
	assert.NotContains(t, res.stdout, "012345678", "ID is truncated to 8 characters")
	assert.Contains(t, res.stdout, "Gov")
	assert.Contains(t, res.stdout, "ComplianceGovernor")
	assert.Contains(t, res.stdout, "95.0%")
	assert.Contains(t, res.stdout, "50.0%")
}

func TestAgentsList_EmptyTable(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents": reply(http.StatusOK, `[]`),
	})

	res := runCLI(t, "", "-s", srv.URL, "agents", "list")

	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, "No agents found\n", res.stdout)
}

func TestAgentsList_EmptyJSON(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents": reply(http.StatusOK, `[]`),
	})

	res := runCLI(t, "", "-s", srv.URL, "-f", "json", "agents", "list")

	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, "[]\n", res.stdout)
}

func TestAgentsList_CSV(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents": reply(http.StatusOK, agentsBody),
	})

	res := runCLI(t, "", "-s", srv.URL, "-f", "csv", "agents", "list")

	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t,
		"id,name,type,status,decisions,accuracy,autonomy\n"+
			"0123456789abcdef,Gov,ComplianceGovernor,active,12,0.95,0.5\n",
		res.stdout)
}

func TestAgentsList_ServerError(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents": reply(http.StatusInternalServerError, "boom"),
	})

	res := runCLI(t, "", "-s", srv.URL, "agents", "list")

	assert.Equal(t, ExitGeneralError, res.code)
	assert.Equal(t, "Failed to list agents: boom\n", res.stderr)
	assert.Empty(t, res.stdout)
}

func TestAgentsList_ConnectionFailure(t *testing.T) {
	res := runCLI(t, "", "-s", deadServerURL(t), "agents", "list")

	assert.Equal(t, ExitGeneralError, res.code)
	assert.True(t, strings.HasPrefix(res.stderr, "Error: "), res.stderr)
}

func TestAgentsCreate_RequestBody(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/agents/create": reply(http.StatusOK, `{"agent_id":"a-1"}`),
	})

	res := runCLI(t, "", "-s", srv.URL,
		"agents", "create", "--name", "sentinel", "--type", "ThreatDetector", "--autonomous")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Agent created successfully with ID: a-1")
	assert.Contains(t, res.stdout, "MAXIMUM AUTONOMY")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	body := string(reqs[0].Body)
	assert.Equal(t, "sentinel", gjson.Get(body, "name").String())
	assert.Equal(t, "ThreatDetector", gjson.Get(body, "agent_type").String())
	assert.Equal(t, "Operational", gjson.Get(body, "privileges").String())
	assert.Equal(t, "AutonomousDecisionMaking", gjson.Get(body, "capabilities.0").String())
	assert.True(t, gjson.Get(body, "configuration.unrestricted_mode").Bool())
}

func TestAgentsCreate_UnknownIDFallback(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/agents/create": reply(http.StatusOK, `{}`),
	})

	res := runCLI(t, "", "-s", srv.URL,
		"agents", "create", "--name", "x", "--type", "ComplianceGovernor")

	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Agent created successfully with ID: unknown")
}

func TestAgentsCreate_InvalidEnumIsUsageError(t *testing.T) {
	srv := newFakeServer(t, nil)

	res := runCLI(t, "", "-s", srv.URL,
		"agents", "create", "--name", "x", "--type", "Bogus")

	assert.Equal(t, ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "must be one of")
	assert.Empty(t, srv.Requests())
}

func TestAgentsCreate_MissingRequiredFlag(t *testing.T) {
	srv := newFakeServer(t, nil)

	res := runCLI(t, "", "-s", srv.URL, "agents", "create", "--name", "x")

	assert.Equal(t, ExitUsageError, res.code)
	assert.Empty(t, srv.Requests())
}

func TestAgentStatus_MissingFields(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents/a-1/status": reply(http.StatusOK, `{}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "agents", "status", "a-1")

	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Agent Status: a-1")
	assert.Contains(t, res.stdout, "Name: Unknown")
	assert.NotContains(t, res.stdout, "Performance Metrics")
}

func TestAgentsExecute_Defaults(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/agents/a-1/execute": reply(http.StatusOK, `{"task_id":"t-9"}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "agents", "execute", "a-1", "--task", "scan")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Task ID: t-9")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Medium", gjson.GetBytes(reqs[0].Body, "priority").String())
}

// =============================================================================
// CONFIRMATION
// =============================================================================

func TestDeactivate_Confirmation(t *testing.T) {
	tests := []struct {
		name        string
		stdin       string
		args        []string
		wantRequest bool
	}{
		{name: "declined", stdin: "n\n"},
		{name: "empty line", stdin: "\n"},
		{name: "end of input", stdin: ""},
		{name: "confirmed", stdin: "y\n", wantRequest: true},
		{name: "confirmed uppercase", stdin: "YES\n", wantRequest: true},
		{name: "yes flag ignores stdin", stdin: "n\n", args: []string{"-y"}, wantRequest: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer(t, map[string]http.HandlerFunc{
				"POST /api/v1/agents/a-1/deactivate": reply(http.StatusOK, `{}`),
			})

			args := append([]string{"-s", srv.URL}, tt.args...)
			args = append(args, "agents", "deactivate", "a-1")
			res := runCLI(t, tt.stdin, args...)

			assert.Equal(t, ExitSuccess, res.code, res.stderr)
			if tt.wantRequest {
				assert.Len(t, srv.Requests(), 1)
				assert.Contains(t, res.stdout, "Agent a-1 deactivated successfully")
			} else {
				assert.Empty(t, srv.Requests())
				assert.Contains(t, res.stdout, "Operation cancelled")
			}
		})
	}
}

func TestDeployStop_PromptWording(t *testing.T) {
	srv := newFakeServer(t, nil)

	res := runCLI(t, "no\n", "-s", srv.URL, "deploy", "stop")

	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Are you sure you want to stop the deployment? [y/N]: ")
	assert.Empty(t, srv.Requests())
}

func TestConfigReset_Confirmed(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/config/reset": reply(http.StatusOK, `{}`),
	})

	res := runCLI(t, "y\n", "-s", srv.URL, "config", "reset")

	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Configuration reset to defaults")
	assert.Len(t, srv.Requests(), 1)
}

func TestIsAffirmative(t *testing.T) {
	for _, in := range []string{"y", "Y", "yes", " Yes\n", "yep"} {
		assert.True(t, isAffirmative(in), in)
	}
	for _, in := range []string{"", "n", "no", " ", "ok"} {
		assert.False(t, isAffirmative(in), in)
	}
}

// =============================================================================
// COMPLIANCE
// =============================================================================

func TestComplianceAssess(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/compliance/assess": reply(http.StatusOK, `{
			"compliance_score": 0.75,
			"violations": [{"description": "Missing DPIA", "severity": "High"}]
		}`),
	})

	res := runCLI(t, "", "-s", srv.URL,
		"compliance", "assess", "--entity", "acme", "--framework", "GDPR", "--comprehensive")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Compliance Score: 75.0% (MINOR_ISSUES)")
	assert.Contains(t, res.stdout, "Violations Found:")
	assert.Contains(t, res.stdout, "  1. Missing DPIA (Severity: High)")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	body := string(reqs[0].Body)
	assert.Equal(t, "acme", gjson.Get(body, "entity_id").String())
	assert.Equal(t, "comprehensive", gjson.Get(body, "assessment_type").String())
	assert.True(t, gjson.Get(body, "include_predictions").Bool())
}

func TestScoreBand(t *testing.T) {
	a := &App{out: output.New(io.Discard, output.FormatTable, false)}
	assert.Equal(t, "COMPLIANT", a.scoreBand(0.9))
	assert.Equal(t, "MINOR_ISSUES", a.scoreBand(0.7))
	assert.Equal(t, "NON_COMPLIANT", a.scoreBand(0.69))
}

func TestComplianceReport_WritesFileOnSuccess(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/compliance/report": reply(http.StatusOK, "%PDF-1.7"),
	})
	path := filepath.Join(t.TempDir(), "out.pdf")

	res := runCLI(t, "", "-s", srv.URL, "compliance", "report", "--output", path)

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Report saved to: "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestComplianceReport_NoFileOnFailure(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/compliance/report": reply(http.StatusBadGateway, "upstream down"),
	})
	path := filepath.Join(t.TempDir(), "out.pdf")

	res := runCLI(t, "", "-s", srv.URL, "compliance", "report", "--output", path)

	assert.Equal(t, ExitGeneralError, res.code)
	assert.Equal(t, "Failed to generate report: upstream down\n", res.stderr)
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestComplianceReport_JSONPrintsInsteadOfWriting(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/compliance/report": reply(http.StatusOK, `{"summary":"ok"}`),
	})
	path := filepath.Join(t.TempDir(), "report.json")

	res := runCLI(t, "", "-s", srv.URL, "compliance", "report", "--format", "json", "--output", path)

	require.Equal(t, ExitSuccess, res.code)
	assert.Equal(t, "ok", gjson.Get(res.stdout, "summary").String())
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestComplianceViolations_Query(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/compliance/violations": reply(http.StatusOK, `[]`),
	})

	res := runCLI(t, "", "-s", srv.URL, "compliance", "violations", "--severity", "High")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No violations found")
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "min_severity=High", reqs[0].Query)
}

// =============================================================================
// CONFLICTS
// =============================================================================

func TestConflictsDetect_YAMLRules(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/conflicts/detect": reply(http.StatusOK, `{
			"conflicts": [{
				"rule1": {"text": "Data must be retained for seven years"},
				"rule2": {"text": "Data must be deleted on request"},
				"severity": "High",
				"resolution_status": "pending"
			}]
		}`),
	})
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(rules, []byte("- id: r1\n  text: retain\n- id: r2\n  text: delete\n"), 0o644))

	res := runCLI(t, "", "-s", srv.URL, "conflicts", "detect", "--rules", rules)

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Conflicts found: 1")
	assert.Contains(t, res.stdout, "C001")
	assert.Contains(t, res.stdout, "Data must be retained for seven years...")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	body := string(reqs[0].Body)
	assert.Equal(t, "r1", gjson.Get(body, "rules.0.id").String())
	assert.Equal(t, "ml_optimization", gjson.Get(body, "detection_algorithm").String())
	assert.Equal(t, 0.7, gjson.Get(body, "confidence_threshold").Float())
}

func TestConflictsDetect_TruncatesByCharacter(t *testing.T) {
	long := strings.Repeat("規", 60)
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/conflicts/detect": reply(http.StatusOK, `{
			"conflicts": [{
				"rule1": {"text": "`+long+`"},
				"rule2": {"text": "short"},
				"severity": "Low",
				"resolution_status": "pending"
			}]
		}`),
	})
	rules := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(rules, []byte(`[]`), 0o644))

	res := runCLI(t, "", "-s", srv.URL, "conflicts", "detect", "--rules", rules)

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, strings.Repeat("規", 50)+"...")
	assert.NotContains(t, res.stdout, strings.Repeat("規", 51))
	assert.Contains(t, res.stdout, "short...")
}

func TestConflictsDetect_MissingRulesFile(t *testing.T) {
	srv := newFakeServer(t, nil)

	res := runCLI(t, "", "-s", srv.URL, "conflicts", "detect", "--rules", filepath.Join(t.TempDir(), "nope.json"))

	assert.Equal(t, ExitGeneralError, res.code)
	assert.True(t, strings.HasPrefix(res.stderr, "Error: "), res.stderr)
	assert.Empty(t, srv.Requests())
}

func TestConflictsGraph_ConnectionFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.svg")

	res := runCLI(t, "", "-s", deadServerURL(t), "conflicts", "graph", "--output", path)

	assert.Equal(t, ExitGeneralError, res.code)
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

// =============================================================================
// MONITOR AND DEPLOY
// =============================================================================

func TestMonitorHealth_Unhealthy(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /health": reply(http.StatusServiceUnavailable, `{"status":"degraded"}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "monitor", "health")

	assert.Equal(t, ExitGeneralError, res.code)
	assert.Equal(t, "Health Check Failed: System is unhealthy (HTTP 503 Service Unavailable)\n", res.stderr)
}

func TestMonitorLogs_Query(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/monitoring/logs": reply(http.StatusOK, "line one\nline two"),
	})

	res := runCLI(t, "", "-s", srv.URL, "monitor", "logs", "--level", "warn", "-n", "20", "-f")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Following logs...")
	assert.Contains(t, res.stdout, "line one\nline two")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "follow=true&level=warn&lines=20", reqs[0].Query)
}

func TestStartDashboard_OpensBrowser(t *testing.T) {
	opts, err := testLoader(false).Load(config.Overrides{})
	require.NoError(t, err)

	var stdout bytes.Buffer
	a := NewApp(opts, Streams{In: strings.NewReader(""), Out: &stdout, Err: io.Discard})
	var opened string
	a.open = func(target string) error {
		opened = target
		return errors.New("no browser")
	}

	require.NoError(t, a.startDashboard(8099))
	assert.Equal(t, "http://localhost:8099", opened)
	assert.Contains(t, stdout.String(), "Dashboard will be available at: http://localhost:8099")
}

func TestDeployScale_InvalidReplicas(t *testing.T) {
	srv := newFakeServer(t, nil)

	res := runCLI(t, "", "-s", srv.URL, "deploy", "scale", "many")

	assert.Equal(t, ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "invalid value 'many' for '<REPLICAS>'")
	assert.Empty(t, srv.Requests())
}

func TestDeployScale_RequestBody(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"POST /api/v1/deploy/scale": reply(http.StatusOK, `{}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "deploy", "scale", "7", "--auto")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Deployment scaled to 7 replicas")
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, int64(7), gjson.GetBytes(reqs[0].Body, "replicas").Int())
	assert.True(t, gjson.GetBytes(reqs[0].Body, "auto_scaling").Bool())
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigGet(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/config/get": reply(http.StatusOK, `{"value":"debug"}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "config", "get", "log_level")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Equal(t, "log_level: debug\n", res.stdout)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "key=log_level", reqs[0].Query)
}

// =============================================================================
// FALLBACKS AND EXIT CODES
// =============================================================================

func TestNewRootCommand_Tree(t *testing.T) {
	root := NewRootCommand(Streams{In: strings.NewReader(""), Out: io.Discard, Err: io.Discard})

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{
		"agents", "compliance", "conflicts", "ml", "monitor",
		"deploy", "config", "status", "interactive",
	}, names)

	for _, path := range [][]string{
		{"agents", "execute"},
		{"compliance", "violations"},
		{"conflicts", "graph"},
		{"ml", "models"},
		{"monitor", "logs"},
		{"deploy", "scale"},
		{"config", "reset"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[1], cmd.Name())
	}
	assert.Equal(t, Version, root.Version)
}

func TestRoot_NoArgs(t *testing.T) {
	res := runCLI(t, "")

	assert.Equal(t, ExitGeneralError, res.code)
	assert.Contains(t, res.stderr, "No valid subcommand provided")
	assert.Contains(t, res.stderr, "Run 'aion-cli --help' for usage.")
}

func TestRoot_UnknownWordSuggests(t *testing.T) {
	res := runCLI(t, "", "agnts")

	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "No valid subcommand provided")
	assert.Contains(t, res.stderr, "Did you mean 'agents'?")
}

func TestGroup_UnknownSubcommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"agents", "bogus"}, want: "No valid agents subcommand provided"},
		{args: []string{"ml"}, want: "No valid ML subcommand provided"},
		{args: []string{"deploy"}, want: "No valid deploy subcommand provided"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			res := runCLI(t, "", tt.args...)
			assert.Equal(t, ExitSuccess, res.code)
			assert.Contains(t, res.stderr, tt.want)
		})
	}
}

func TestGroup_UnknownSubcommandSuggests(t *testing.T) {
	res := runCLI(t, "", "agents", "lst")

	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "No valid agents subcommand provided")
	assert.Contains(t, res.stderr, "Did you mean 'list'?")
}

func TestRoot_InvalidFormat(t *testing.T) {
	res := runCLI(t, "", "-f", "xml", "status")

	assert.Equal(t, ExitUsageError, res.code)
	assert.Contains(t, res.stderr, "must be one of")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneralError, ExitCode(NewCommandError("status", errors.New("down"))))
	assert.Equal(t, ExitUsageError, ExitCode(NewUsageError("<N>", "x", "bad")))
	assert.Equal(t, ExitUsageError, ExitCode(NewCommandError("deploy scale", NewUsageError("<N>", "x", "bad"))))
	assert.Equal(t, ExitUsageError, ExitCode(errors.New("unknown flag: --bogus")))
	assert.Equal(t, 3, ExitCode(&exitError{code: 3}))
}

func TestNewCommandError_DoesNotRewrap(t *testing.T) {
	assert.Nil(t, NewCommandError("x", nil))

	inner := NewCommandError("agents list", errors.New("boom"))
	outer := NewCommandError("agents", inner)
	assert.Same(t, inner, outer)
}

func TestPrintError(t *testing.T) {
	f := output.New(io.Discard, output.FormatTable, false)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "status error",
			err:  NewCommandError("agents list", &client.StatusError{Action: "list agents", StatusCode: 500, Body: "boom"}),
			want: "Failed to list agents: boom\n",
		},
		{
			name: "unhealthy",
			err:  &UnhealthyError{StatusCode: http.StatusServiceUnavailable},
			want: "Health Check Failed: System is unhealthy (HTTP 503 Service Unavailable)\n",
		},
		{
			name: "generic",
			err:  errors.New("connection refused"),
			want: "Error: connection refused\n",
		},
		{
			name: "silent exit",
			err:  &exitError{code: 1},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			PrintError(&buf, f, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

// =============================================================================
// FILES
// =============================================================================

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "rules.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[ {"id": "r1"} ]`), 0o644))
	got, err := readDocument(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, `[ {"id": "r1"} ]`, string(got), "JSON is forwarded unchanged")

	yamlPath := filepath.Join(dir, "data.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("samples:\n  - text: hello\n    label: ok\n"), 0o644))
	got, err = readDocument(yamlPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"samples":[{"text":"hello","label":"ok"}]}`, string(got))

	badPath := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badPath, []byte("key: [unclosed\n"), 0o644))
	_, err = readDocument(badPath)
	assert.ErrorContains(t, err, "neither JSON nor YAML")
}

// =============================================================================
// INTERACTIVE
// =============================================================================

func TestInteractive_ScriptedSession(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents": reply(http.StatusOK, `[]`),
	})

	script := strings.Join([]string{
		"help",
		"",
		"agents",
		"agents list",
		"stauts",
		"exit",
		"status",
	}, "\n") + "\n"

	res := runCLI(t, script, "-s", srv.URL, "interactive")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "AION-CR Interactive Mode")
	assert.Contains(t, res.stdout, "aion> ")
	assert.Contains(t, res.stdout, "Available Commands:")
	assert.Contains(t, res.stdout, "agents list")
	assert.Contains(t, res.stdout, "Usage: agents list")
	assert.Contains(t, res.stdout, "No agents found")
	assert.Contains(t, res.stdout, "Unknown command: stauts")
	assert.Contains(t, res.stdout, "Did you mean 'status'?")
	assert.Contains(t, res.stdout, "Goodbye!")

	// Nothing after exit runs.
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/v1/agents", reqs[0].Path)
}

func TestInteractive_EndOfInput(t *testing.T) {
	res := runCLI(t, "", "interactive")

	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "AION-CR Interactive Mode")
}

func TestInteractive_CommandFailureContinues(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/status": reply(http.StatusInternalServerError, "db down"),
	})

	res := runCLI(t, "status\nquit\n", "-s", srv.URL, "interactive")

	require.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "Failed to get system status: db down")
	assert.Contains(t, res.stdout, "Goodbye!")
}

func TestAgentStatus_EscapesID(t *testing.T) {
	srv := newFakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/agents/a?b/status": reply(http.StatusOK, `{"status":"active"}`),
	})

	res := runCLI(t, "", "-s", srv.URL, "agents", "status", "a?b")

	require.Equal(t, ExitSuccess, res.code, res.stderr)
	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/v1/agents/a?b/status", reqs[0].Path)
	assert.Empty(t, reqs[0].Query)
}
