//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package config loads the workspace agent configuration.
//
// Values come from an optional YAML file, then from environment variables
// which take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Agent backends.
const (
	AgentADKWeb      = "adkweb"
	AgentA2A         = "a2a"
	AgentAgentEngine = "agentengine"
)

// Session backends.
const (
	SessionRemote = "remote"
	SessionMemory = "memory"
	SessionSQLite = "sqlite"
	SessionRedis  = "redis"
)

// Log formats.
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// Telemetry protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http"
)

// Config is the configuration of the workspace agent.
type Config struct {
	// ProjectNumber, Location and EngineID name the reasoning engine hosting
	// the agent. They compose the app name unless AppName is set.
	ProjectNumber string `yaml:"project_number"`
	Location      string `yaml:"location"`
	EngineID      string `yaml:"engine_id"`
	AppName       string `yaml:"app_name"`

	// MaxAttempts bounds how many times a turn is sent before giving up.
	MaxAttempts    int    `yaml:"max_attempts"`
	BaseURL        string `yaml:"base_url"`
	ResetCommandID int    `yaml:"reset_command_id"`
	Debug          bool   `yaml:"debug"`
	LogFormat      string `yaml:"log_format"`
	ListenAddr     string `yaml:"listen_addr"`
	// AsyncWorkers is the size of the pool running Chat turns. Zero runs
	// them inside the request.
	AsyncWorkers int `yaml:"async_workers"`

	Agent     AgentConfig     `yaml:"agent"`
	Session   SessionConfig   `yaml:"session"`
	Chat      ChatConfig      `yaml:"chat"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AgentConfig selects the remote agent.
type AgentConfig struct {
	// Backend defaults to agentengine when the reasoning engine is
	// configured without an explicit app name, and to adkweb otherwise.
	Backend string `yaml:"backend"`
	// URL is the adkweb or a2a server. The agentengine backend ignores it.
	URL string `yaml:"url"`
	// EngineEndpoint overrides the regional Vertex AI endpoint of the
	// agentengine backend.
	EngineEndpoint string `yaml:"engine_endpoint"`
	// GoogleAuth authorises agent requests with Application Default
	// Credentials.
	GoogleAuth bool `yaml:"google_auth"`
}

// SessionConfig selects where user sessions live.
type SessionConfig struct {
	Backend  string        `yaml:"backend"`
	DB       string        `yaml:"db"`
	RedisURL string        `yaml:"redis_url"`
	TTL      time.Duration `yaml:"ttl"`
}

// ChatConfig configures the Chat API client.
type ChatConfig struct {
	// CredentialsFile is a service account key. Chat messages cannot be
	// posted without it.
	CredentialsFile string `yaml:"credentials_file"`
}

// TelemetryConfig configures OTLP export. Nothing is exported when Endpoint
// is empty.
type TelemetryConfig struct {
	Protocol string `yaml:"protocol"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		MaxAttempts:    10,
		ResetCommandID: 1,
		ListenAddr:     ":8080",
		LogFormat:      LogConsole,
		Agent: AgentConfig{
			URL: "http://localhost:8000",
		},
		Session: SessionConfig{
			Backend: SessionRemote,
		},
		Telemetry: TelemetryConfig{
			Protocol: ProtocolGRPC,
		},
	}
}

// Load reads path when it is not empty, applies the environment and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields with the environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"PROJECT_NUMBER":        &c.ProjectNumber,
		"LOCATION":              &c.Location,
		"ENGINE_ID":             &c.EngineID,
		"APP_NAME":              &c.AppName,
		"BASE_URL":              &c.BaseURL,
		"LISTEN_ADDR":           &c.ListenAddr,
		"LOG_FORMAT":            &c.LogFormat,
		"AGENT_BACKEND":         &c.Agent.Backend,
		"AGENT_URL":             &c.Agent.URL,
		"AGENT_ENGINE_ENDPOINT": &c.Agent.EngineEndpoint,
		"SESSION_BACKEND":       &c.Session.Backend,
		"SESSION_DB":            &c.Session.DB,
		"REDIS_URL":             &c.Session.RedisURL,
		"CHAT_CREDENTIALS":      &c.Chat.CredentialsFile,
		"OTEL_PROTOCOL":         &c.Telemetry.Protocol,
		"OTEL_ENDPOINT":         &c.Telemetry.Endpoint,
	}
	for name, field := range strs {
		if v, ok := lookup(name); ok {
			*field = v
		}
	}

	ints := map[string]*int{
		"MAX_AI_AGENT_RETRIES":     &c.MaxAttempts,
		"RESET_SESSION_COMMAND_ID": &c.ResetCommandID,
		"ASYNC_WORKERS":            &c.AsyncWorkers,
	}
	var errs []error
	for name, field := range ints {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		*field = n
	}

	bools := map[string]*bool{
		"DEBUG":             &c.Debug,
		"AGENT_GOOGLE_AUTH": &c.Agent.GoogleAuth,
	}
	for name, field := range bools {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		*field = b
	}

	if v, ok := lookup("SESSION_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("SESSION_TTL: %w", err))
		} else {
			c.Session.TTL = d
		}
	}
	return errors.Join(errs...)
}

// ReasoningEngine returns the resource name of the reasoning engine, or ""
// when it is not fully configured.
func (c *Config) ReasoningEngine() string {
	if c.ProjectNumber == "" || c.Location == "" || c.EngineID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", c.ProjectNumber, c.Location, c.EngineID)
}

// AgentBackend returns the configured agent backend or its default.
func (c *Config) AgentBackend() string {
	switch {
	case c.Agent.Backend != "":
		return c.Agent.Backend
	case c.AppName == "" && c.ReasoningEngine() != "":
		return AgentAgentEngine
	default:
		return AgentADKWeb
	}
}

// App returns the app name sessions and turns are scoped to.
func (c *Config) App() string {
	if c.AppName != "" {
		return c.AppName
	}
	return c.ReasoningEngine()
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.App() == "" {
		errs = append(errs, errors.New("app_name or project_number, location and engine_id are required"))
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts))
	}
	if c.AsyncWorkers < 0 {
		errs = append(errs, fmt.Errorf("async_workers must not be negative, got %d", c.AsyncWorkers))
	}

	switch c.LogFormat {
	case LogConsole, LogJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format: %q", c.LogFormat))
	}

	backend := c.AgentBackend()
	switch backend {
	case AgentADKWeb, AgentA2A:
		if c.Agent.URL == "" {
			errs = append(errs, errors.New("agent.url is required"))
		}
	case AgentAgentEngine:
		if c.ReasoningEngine() == "" {
			errs = append(errs, errors.New("project_number, location and engine_id are required for the agentengine backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid agent backend: %q", backend))
	}
	if backend == AgentADKWeb && c.AppName == "" && c.ReasoningEngine() != "" {
		errs = append(errs, fmt.Errorf("reasoning engine %s is served by the %q agent backend, or set app_name for %q",
			c.ReasoningEngine(), AgentAgentEngine, AgentADKWeb))
	}

	switch c.Session.Backend {
	case SessionRemote:
		if backend != AgentADKWeb && backend != AgentAgentEngine {
			errs = append(errs, fmt.Errorf("session backend %q requires agent backend %q or %q",
				SessionRemote, AgentADKWeb, AgentAgentEngine))
		}
	case SessionMemory:
	case SessionSQLite:
		if c.Session.DB == "" {
			errs = append(errs, errors.New("session.db is required for the sqlite backend"))
		}
	case SessionRedis:
		if c.Session.RedisURL == "" {
			errs = append(errs, errors.New("session.redis_url is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid session backend: %q", c.Session.Backend))
	}
	if c.Session.TTL < 0 {
		errs = append(errs, fmt.Errorf("session.ttl must not be negative, got %s", c.Session.TTL))
	}

	switch c.Telemetry.Protocol {
	case ProtocolGRPC, ProtocolHTTP:
	default:
		errs = append(errs, fmt.Errorf("invalid telemetry protocol: %q", c.Telemetry.Protocol))
	}
	return errors.Join(errs...)
}
