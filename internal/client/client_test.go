// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example.test/"})

	assert.Equal(t, "http://example.test", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.config.Timeout)
	assert.Equal(t, DefaultUserAgent, c.config.UserAgent)

	c = NewClientWithConfig(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestClient_PostSendsJSON(t *testing.T) {
	var gotBody map[string]interface{}
	var gotHeaders http.Header

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/agents/create", r.URL.Path)
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"agent_id":"a-1"}`))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	resp, err := c.Post(context.Background(), "/api/v1/agents/create", map[string]interface{}{"name": "gov"})
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"agent_id":"a-1"}`, resp.Text())
	assert.Equal(t, "gov", gotBody["name"])
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, DefaultUserAgent, gotHeaders.Get("User-Agent"))
	assert.Equal(t, resp.RequestID, gotHeaders.Get("X-Request-ID"))
	assert.NotEmpty(t, resp.RequestID)
}

func TestClient_GetEncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(r.URL.RawQuery))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	resp, err := c.Get(context.Background(), "/api/v1/monitoring/logs", url.Values{"level": {"warn"}, "lines": {"20"}})
	require.NoError(t, err)
	assert.Equal(t, "level=warn&lines=20", resp.Text())
}

func TestResponse_Err(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr string
	}{
		{name: "ok", status: 200},
		{name: "no content", status: 204},
		{name: "server error", status: 500, wantErr: "Failed to list agents: boom"},
		{name: "not found", status: 404, wantErr: "Failed to list agents: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Response{StatusCode: tt.status, Body: []byte("boom")}
			err := r.Err("list agents")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: base, Timeout: 2 * time.Second})
	_, err := c.Get(context.Background(), "/api/v1/status", nil)
	require.Error(t, err)
	assert.True(t, IsConnection(err))
	assert.False(t, IsTimeout(err))
	assert.Contains(t, err.Error(), "failed to connect to "+base)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Get(context.Background(), "/health", nil)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestClient_SingleAttempt(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	resp, err := c.Post(context.Background(), "/api/v1/deploy/stop", struct{}{})
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, 1, calls)
}
