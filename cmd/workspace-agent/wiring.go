//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2/google"

	"trpc.group/trpc-go/trpc-workspace-agent-go/agent"
	"trpc.group/trpc-go/trpc-workspace-agent-go/agent/a2aagent"
	"trpc.group/trpc-go/trpc-workspace-agent-go/agent/adkweb"
	"trpc.group/trpc-go/trpc-workspace-agent-go/agent/agentengine"
	"trpc.group/trpc-go/trpc-workspace-agent-go/chat"
	"trpc.group/trpc-go/trpc-workspace-agent-go/internal/config"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render/travel"
	"trpc.group/trpc-go/trpc-workspace-agent-go/runner"
	"trpc.group/trpc-go/trpc-workspace-agent-go/server/addon"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session/inmemory"
	sessionredis "trpc.group/trpc-go/trpc-workspace-agent-go/session/redis"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session/sqlite"
	"trpc.group/trpc-go/trpc-workspace-agent-go/telemetry/metric"
	"trpc.group/trpc-go/trpc-workspace-agent-go/telemetry/trace"
)

const (
	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	a2aTimeout         = 2 * time.Minute
)

// app holds the components shared by the subcommands.
type app struct {
	cfg     *config.Config
	store   *session.Store
	client  agent.Client
	runner  *runner.Runner
	closers []func() error
}

// newApp wires the session backend, the agent client and the runner.
// Telemetry starts first so the runner picks up the real tracer and meter.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	log.Infof("agent %s at %s, %s sessions, app %s",
		cfg.AgentBackend(), agentLocation(cfg), cfg.Session.Backend, cfg.App())
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg
	if err := a.startTelemetry(ctx); err != nil {
		return err
	}
	httpClient, err := agentHTTPClient(ctx, cfg)
	if err != nil {
		return err
	}
	backend, err := a.newSessionBackend(httpClient)
	if err != nil {
		return err
	}
	a.store = session.NewStore(cfg.App(), backend)
	if a.client, err = newAgentClient(cfg, httpClient); err != nil {
		return err
	}
	a.runner = runner.New(a.store, a.client, runner.WithMaxAttempts(cfg.MaxAttempts))
	return nil
}

// Close releases everything newApp opened, last opened first.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *app) startTelemetry(ctx context.Context) error {
	t := a.cfg.Telemetry
	if t.Endpoint == "" {
		return nil
	}
	cleanTrace, err := trace.Start(ctx, trace.WithEndpoint(t.Endpoint), trace.WithProtocol(t.Protocol))
	if err != nil {
		return fmt.Errorf("start tracing: %w", err)
	}
	a.closers = append(a.closers, cleanTrace)
	cleanMetric, err := metric.Start(ctx, metric.WithEndpoint(t.Endpoint), metric.WithProtocol(t.Protocol))
	if err != nil {
		return fmt.Errorf("start metrics: %w", err)
	}
	a.closers = append(a.closers, cleanMetric)
	return nil
}

func (a *app) newSessionBackend(httpClient *http.Client) (session.Backend, error) {
	s := a.cfg.Session
	switch s.Backend {
	case config.SessionRemote:
		if a.cfg.AgentBackend() == config.AgentAgentEngine {
			return agentengine.NewSessionBackend(a.cfg.ReasoningEngine(), engineOptions(a.cfg, httpClient)...)
		}
		return adkweb.NewSessionBackend(a.cfg.Agent.URL, adkweb.WithHTTPClient(httpClient)), nil
	case config.SessionMemory:
		return inmemory.NewSessionService(inmemory.WithSessionTTL(s.TTL)), nil
	case config.SessionSQLite:
		svc, err := sqlite.NewSessionService(s.DB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, svc.Close)
		return svc, nil
	case config.SessionRedis:
		svc, err := sessionredis.NewService(
			sessionredis.WithRedisClientURL(s.RedisURL),
			sessionredis.WithClientName(a.cfg.App()),
			sessionredis.WithSessionTTL(s.TTL),
		)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, svc.Close)
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", s.Backend)
	}
}

func newAgentClient(cfg *config.Config, httpClient *http.Client) (agent.Client, error) {
	switch backend := cfg.AgentBackend(); backend {
	case config.AgentADKWeb:
		return adkweb.New(cfg.Agent.URL, cfg.App(), adkweb.WithHTTPClient(httpClient)), nil
	case config.AgentAgentEngine:
		return agentengine.New(cfg.ReasoningEngine(), engineOptions(cfg, httpClient)...)
	case config.AgentA2A:
		opts := []a2aagent.Option{
			a2aagent.WithAgentURL(cfg.Agent.URL),
			a2aagent.WithTimeout(a2aTimeout),
		}
		if cfg.Agent.GoogleAuth {
			opts = append(opts, a2aagent.WithHTTPClient(httpClient))
		}
		return a2aagent.New(opts...)
	default:
		return nil, fmt.Errorf("unknown agent backend %q", backend)
	}
}

func engineOptions(cfg *config.Config, httpClient *http.Client) []agentengine.Option {
	return []agentengine.Option{
		agentengine.WithHTTPClient(httpClient),
		agentengine.WithEndpoint(cfg.Agent.EngineEndpoint),
	}
}

func agentLocation(cfg *config.Config) string {
	if cfg.AgentBackend() == config.AgentAgentEngine {
		return cfg.ReasoningEngine()
	}
	return cfg.Agent.URL
}

// agentHTTPClient returns the client used for agent and remote session
// requests. Agent Engine always needs Application Default Credentials.
func agentHTTPClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	if !cfg.Agent.GoogleAuth && cfg.AgentBackend() != config.AgentAgentEngine {
		return http.DefaultClient, nil
	}
	c, err := google.DefaultClient(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("google default credentials: %w", err)
	}
	return c, nil
}

// newChatClient returns nil when no credentials are configured.
func newChatClient(ctx context.Context, cfg *config.Config) (*chat.Client, error) {
	if cfg.Chat.CredentialsFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(cfg.Chat.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read chat credentials: %w", err)
	}
	return chat.NewServiceAccountClient(ctx, data)
}

func rendererFactory(debug bool) addon.RendererFactory {
	return func(chat bool) render.Renderer {
		return travel.New(travel.WithChat(chat), travel.WithDebug(debug))
	}
}
