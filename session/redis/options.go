//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package redis

import "time"

// ServiceOpts is the options for the redis session service.
type ServiceOpts struct {
	url        string
	clientName string
	sessionTTL time.Duration

	idGenerator func() string
	now         func() time.Time
}

// ServiceOpt is the option for the redis session service.
type ServiceOpt func(*ServiceOpts)

// WithRedisClientURL creates a redis client from URL and sets it to the service.
func WithRedisClientURL(url string) ServiceOpt {
	return func(opts *ServiceOpts) {
		opts.url = url
	}
}

// WithClientName sets the redis client name.
func WithClientName(name string) ServiceOpt {
	return func(opts *ServiceOpts) {
		opts.clientName = name
	}
}

// WithSessionTTL expires the sessions of a user ttl after the last session
// was created. Zero keeps them forever.
func WithSessionTTL(ttl time.Duration) ServiceOpt {
	return func(opts *ServiceOpts) {
		opts.sessionTTL = ttl
	}
}

// WithIDGenerator overrides the uuid based session id generator.
func WithIDGenerator(gen func() string) ServiceOpt {
	return func(opts *ServiceOpts) {
		if gen != nil {
			opts.idGenerator = gen
		}
	}
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) ServiceOpt {
	return func(opts *ServiceOpts) {
		if now != nil {
			opts.now = now
		}
	}
}
