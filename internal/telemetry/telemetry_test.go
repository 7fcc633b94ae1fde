//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTraceRunTurn(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	_, span := tp.Tracer("test").Start(context.Background(), SpanNameRunTurn)
	TraceRunTurn(span, "users/1", "s1", 2, "responded")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "users/1", attrs[KeyUser].AsString())
	assert.Equal(t, "s1", attrs[KeySessionID].AsString())
	assert.Equal(t, int64(2), attrs[KeyAttempts].AsInt64())
	assert.Equal(t, "responded", attrs[KeyOutcome].AsString())
}

// gRPC dials lazily, so even unreachable targets yield a connection.
func TestNewGRPCConn(t *testing.T) {
	conn, err := NewGRPCConn("localhost:4317")
	require.NoError(t, err)
	require.NotNil(t, conn)
	_ = conn.Close()
}

func TestEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "custom-trace:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "generic-endpoint:4317")
	assert.Equal(t, "custom-trace:4317", Endpoint(SignalTraces, ProtocolGRPC))
	assert.Equal(t, "generic-endpoint:4317", Endpoint(SignalMetrics, ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", Endpoint(SignalTraces, ProtocolGRPC))
	assert.Equal(t, "localhost:4318", Endpoint(SignalMetrics, ProtocolHTTP))
}

func TestSplitEndpoint(t *testing.T) {
	host, path, err := SplitEndpoint("http://localhost:3000/api/public/otel")
	require.NoError(t, err)
	assert.Equal(t, "localhost:3000", host)
	assert.Equal(t, "/api/public/otel", path)

	host, path, err = SplitEndpoint("collector:4318")
	require.NoError(t, err)
	assert.Equal(t, "collector:4318", host)
	assert.Empty(t, path)

	_, path, err = SplitEndpoint("https://collector:4318/")
	require.NoError(t, err)
	assert.Empty(t, path)

	_, _, err = SplitEndpoint("http://")
	assert.Error(t, err)
}

func TestNewResource(t *testing.T) {
	res, err := NewResource(context.Background(), "svc", "v1")
	require.NoError(t, err)
	attrs := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "svc", attrs["service.name"])
	assert.Equal(t, "v1", attrs["service.version"])
	assert.Equal(t, ServiceNamespace, attrs["service.namespace"])
}
