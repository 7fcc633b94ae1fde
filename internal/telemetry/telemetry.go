//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the names and helpers shared by the tracing and
// metrics packages.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Resource identity of the exported telemetry.
const (
	ServiceName      = "workspace-agent"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "google-workspace"
	InstrumentName   = "trpc.workspace.agent.go"
)

// SpanNameRunTurn names the span covering one user turn, retries included.
const SpanNameRunTurn = "workspace_agent.run_turn"

// OTLP exporter protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http"
)

// OTLP signals, as spelled in the exporter environment variables.
const (
	SignalTraces  = "TRACES"
	SignalMetrics = "METRICS"
)

// Attribute keys of turn spans and metrics.
const (
	KeyUser      attribute.Key = "workspace_agent.user"
	KeySessionID attribute.Key = "workspace_agent.session_id"
	KeyAttempts  attribute.Key = "workspace_agent.attempts"
	KeyOutcome   attribute.Key = "workspace_agent.outcome"
)

// Metric instrument names.
const (
	MetricTurnAttempts = "workspace_agent.turn.attempts"
	MetricTurnOutcomes = "workspace_agent.turn.outcomes"
)

// TraceRunTurn records the result of one turn on span.
func TraceRunTurn(span trace.Span, user, sessionID string, attempts int, outcome string) {
	span.SetAttributes(
		KeyUser.String(user),
		KeySessionID.String(sessionID),
		KeyAttempts.Int(attempts),
		KeyOutcome.String(outcome),
	)
}

// NewGRPCConn opens a plaintext connection to an OTLP collector. The
// connection is established lazily on first export.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: connect collector %s: %w", endpoint, err)
	}
	return conn, nil
}

// Endpoint returns the collector endpoint of signal from the standard
// OTEL_EXPORTER_OTLP_{signal}_ENDPOINT and OTEL_EXPORTER_OTLP_ENDPOINT
// variables, or the local default port of protocol.
func Endpoint(signal, protocol string) string {
	for _, name := range []string{"OTEL_EXPORTER_OTLP_" + signal + "_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"} {
		if endpoint := os.Getenv(name); endpoint != "" {
			return endpoint
		}
	}
	if protocol == ProtocolHTTP {
		return "localhost:4318"
	}
	return "localhost:4317"
}

// SplitEndpoint returns the host:port and path of endpoint. Endpoints
// without a scheme are taken as plain host:port.
func SplitEndpoint(endpoint string) (hostPort, urlPath string, err error) {
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", "", fmt.Errorf("telemetry: parse endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("telemetry: no host in endpoint %q", endpoint)
	}
	if u.Path == "/" {
		u.Path = ""
	}
	return u.Host, u.Path, nil
}

// NewResource describes the running service to the collector.
func NewResource(ctx context.Context, name, version string) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNamespace(ServiceNamespace),
			semconv.ServiceName(name),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}
	return res, nil
}
