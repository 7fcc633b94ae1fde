//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package runner

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
)

// DefaultMaxAttempts bounds the attempts of a turn whose stream stays empty.
const DefaultMaxAttempts = 10

// Option is a function that configures a Runner.
type Option func(*options)

type options struct {
	maxAttempts int
	failureText string
	tracer      trace.Tracer
	meter       metric.Meter
}

func defaultOptions() options {
	return options{
		maxAttempts: DefaultMaxAttempts,
		failureText: sink.FailureText,
	}
}

// WithMaxAttempts sets how many times an empty stream is retried in total.
// Values below one are treated as one.
func WithMaxAttempts(n int) Option {
	return func(opts *options) {
		if n < 1 {
			n = 1
		}
		opts.maxAttempts = n
	}
}

// WithFailureText sets the final answer rendered when a turn fails.
func WithFailureText(text string) Option {
	return func(opts *options) {
		opts.failureText = text
	}
}

// WithTracer sets the tracer of turn spans. Defaults to trace.Tracer of the
// telemetry package at construction time.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) {
		opts.tracer = tracer
	}
}

// WithMeter sets the meter of turn counters. Defaults to metric.Meter of the
// telemetry package at construction time.
func WithMeter(meter metric.Meter) Option {
	return func(opts *options) {
		opts.meter = meter
	}
}
