//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package inmemory

import "time"

// serviceOpts is the options for session service.
type serviceOpts struct {
	// sessionTTL is how long a session stays listed after its creation.
	// Zero keeps sessions forever.
	sessionTTL time.Duration
	// idGenerator produces new session ids.
	idGenerator func() string
	// now is the clock used for timestamps and expiry.
	now func() time.Time
}

// ServiceOpt is the option for the in-memory session service.
type ServiceOpt func(*serviceOpts)

// WithSessionTTL sets how long a session remains usable after creation.
// Expired sessions are dropped lazily. If not set, sessions never expire.
func WithSessionTTL(ttl time.Duration) ServiceOpt {
	return func(opts *serviceOpts) {
		opts.sessionTTL = ttl
	}
}

// WithIDGenerator overrides the uuid based session id generator.
func WithIDGenerator(gen func() string) ServiceOpt {
	return func(opts *serviceOpts) {
		if gen != nil {
			opts.idGenerator = gen
		}
	}
}

// WithClock overrides the clock, mostly for tests.
func WithClock(now func() time.Time) ServiceOpt {
	return func(opts *serviceOpts) {
		if now != nil {
			opts.now = now
		}
	}
}
