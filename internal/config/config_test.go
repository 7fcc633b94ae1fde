//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 10, cfg.MaxAttempts)
	assert.Equal(t, 1, cfg.ResetCommandID)
	assert.Equal(t, AgentADKWeb, cfg.AgentBackend())
	assert.Equal(t, SessionRemote, cfg.Session.Backend)
	assert.Equal(t, LogConsole, cfg.LogFormat)
	assert.Error(t, cfg.Validate(), "app name is not set")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		"PROJECT_NUMBER":           "123",
		"LOCATION":                 "us-central1",
		"ENGINE_ID":                "456",
		"MAX_AI_AGENT_RETRIES":     "3",
		"RESET_SESSION_COMMAND_ID": "2",
		"DEBUG":                    "1",
		"BASE_URL":                 "https://addon.example.com",
		"SESSION_BACKEND":          SessionSQLite,
		"SESSION_DB":               "sessions.db",
		"SESSION_TTL":              "1h",
		"ASYNC_WORKERS":            "4",
		"AGENT_GOOGLE_AUTH":        "true",
		"LOG_FORMAT":               LogJSON,
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 2, cfg.ResetCommandID)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Agent.GoogleAuth)
	assert.Equal(t, "https://addon.example.com", cfg.BaseURL)
	assert.Equal(t, SessionSQLite, cfg.Session.Backend)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 4, cfg.AsyncWorkers)
	assert.Equal(t, LogJSON, cfg.LogFormat)
	assert.Equal(t, "projects/123/locations/us-central1/reasoningEngines/456", cfg.App())
	assert.Equal(t, AgentAgentEngine, cfg.AgentBackend())
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		"MAX_AI_AGENT_RETRIES": "ten",
		"DEBUG":                "maybe",
		"SESSION_TTL":          "forever",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_AI_AGENT_RETRIES")
	assert.Contains(t, err.Error(), "DEBUG")
	assert.Contains(t, err.Error(), "SESSION_TTL")
	assert.Equal(t, 10, cfg.MaxAttempts)
}

func TestAppName(t *testing.T) {
	cfg := Default()
	cfg.ProjectNumber, cfg.Location = "1", "eu"
	assert.Empty(t, cfg.ReasoningEngine())
	assert.Empty(t, cfg.App())

	cfg.AppName = "travel_concierge"
	assert.Equal(t, "travel_concierge", cfg.App())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.AppName = "travel"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }},
		{"negative workers", func(c *Config) { c.AsyncWorkers = -1 }},
		{"unknown agent", func(c *Config) { c.Agent.Backend = "grpc" }},
		{"missing agent url", func(c *Config) { c.Agent.URL = "" }},
		{"remote sessions need adkweb", func(c *Config) { c.Agent.Backend = AgentA2A }},
		{"sqlite without db", func(c *Config) { c.Session.Backend = SessionSQLite }},
		{"redis without url", func(c *Config) { c.Session.Backend = SessionRedis }},
		{"unknown session", func(c *Config) { c.Session.Backend = "firestore" }},
		{"negative ttl", func(c *Config) { c.Session.TTL = -time.Second }},
		{"agentengine without engine", func(c *Config) { c.Agent.Backend = AgentAgentEngine }},
		{"adkweb with engine name", func(c *Config) {
			c.AppName = ""
			c.ProjectNumber, c.Location, c.EngineID = "1", "us", "2"
			c.Agent.Backend = AgentADKWeb
		}},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }},
		{"unknown protocol", func(c *Config) { c.Telemetry.Protocol = "udp" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := valid()
	cfg.AppName = ""
	cfg.ProjectNumber, cfg.Location, cfg.EngineID = "1", "us", "2"
	cfg.Agent.URL = ""
	assert.Equal(t, AgentAgentEngine, cfg.AgentBackend())
	assert.NoError(t, cfg.Validate(), "remote sessions live in the engine")

	cfg = valid()
	cfg.Agent.Backend = AgentA2A
	cfg.Session.Backend = SessionRedis
	cfg.Session.RedisURL = "redis://localhost:6379"
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_name: travel_concierge
max_attempts: 5
listen_addr: ":9090"
agent:
  backend: a2a
  url: http://agent:8081
session:
  backend: memory
  ttl: 30m
telemetry:
  protocol: http
  endpoint: localhost:4318
`), 0o600))
	t.Setenv("MAX_AI_AGENT_RETRIES", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "travel_concierge", cfg.App())
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, AgentA2A, cfg.Agent.Backend)
	assert.Equal(t, "http://agent:8081", cfg.Agent.URL)
	assert.Equal(t, SessionMemory, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, ProtocolHTTP, cfg.Telemetry.Protocol)
	assert.Equal(t, "localhost:4318", cfg.Telemetry.Endpoint)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_attempts: [1"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
