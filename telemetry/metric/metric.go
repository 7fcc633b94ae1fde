//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package metric exports turn counters over OTLP.
package metric

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	noopm "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	itelemetry "trpc.group/trpc-go/trpc-workspace-agent-go/internal/telemetry"
)

var (
	// Meter is the meter used for turn counters. It is a no-op until Start is called.
	Meter metric.Meter = noopm.Meter{}
)

// Start installs an OTLP meter provider and points Meter at it.
//
// OTEL_EXPORTER_OTLP_METRICS_ENDPOINT and OTEL_EXPORTER_OTLP_ENDPOINT are
// honoured when no endpoint option is given.
func Start(ctx context.Context, opts ...Option) (clean func() error, err error) {
	options := &options{
		serviceName:    itelemetry.ServiceName,
		serviceVersion: itelemetry.ServiceVersion,
		protocol:       itelemetry.ProtocolGRPC,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.endpoint == "" {
		options.endpoint = itelemetry.Endpoint(itelemetry.SignalMetrics, options.protocol)
	}

	res, err := itelemetry.NewResource(ctx, options.serviceName, options.serviceVersion)
	if err != nil {
		return nil, err
	}

	var exporter sdkmetric.Exporter
	switch options.protocol {
	case itelemetry.ProtocolHTTP:
		exporter, err = newHTTPExporter(ctx, options.endpoint)
	default:
		exporter, err = newGRPCExporter(ctx, options.endpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	Meter = otel.Meter(itelemetry.InstrumentName)

	return func() error {
		if err := mp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown MeterProvider: %w", err)
		}
		return nil
	}, nil
}

func newGRPCExporter(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
	conn, err := itelemetry.NewGRPCConn(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics connection: %w", err)
	}
	return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
}

func newHTTPExporter(ctx context.Context, endpoint string) (sdkmetric.Exporter, error) {
	hostPort, urlPath, err := itelemetry.SplitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	httpOpts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(hostPort),
		otlpmetrichttp.WithInsecure(),
	}
	if urlPath != "" {
		httpOpts = append(httpOpts, otlpmetrichttp.WithURLPath(urlPath))
	}
	return otlpmetrichttp.New(ctx, httpOpts...)
}

// Option configures Start.
type Option func(*options)

type options struct {
	endpoint       string
	protocol       string
	serviceName    string
	serviceVersion string
}

// WithEndpoint sets the collector endpoint. For gRPC it is "host:port"; for
// HTTP a full URL such as "http://localhost:4318/v1/metrics" is accepted too.
func WithEndpoint(endpoint string) Option {
	return func(opts *options) {
		opts.endpoint = endpoint
	}
}

// WithProtocol selects "grpc" (default) or "http".
func WithProtocol(protocol string) Option {
	return func(opts *options) {
		opts.protocol = protocol
	}
}

// WithServiceName overrides the reported service name.
func WithServiceName(name string) Option {
	return func(opts *options) {
		opts.serviceName = name
	}
}
