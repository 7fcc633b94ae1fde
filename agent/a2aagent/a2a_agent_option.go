//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package a2aagent

import (
	"net/http"
	"time"

	"trpc.group/trpc-go/trpc-a2a-go/client"
)

// Option configures the Client.
type Option func(*Client)

// WithAgentURL sets the URL of the remote A2A agent. A URL without scheme
// is reached over plain http.
func WithAgentURL(url string) Option {
	return func(c *Client) { c.agentURL = url }
}

// WithName sets the author of events the agent does not attribute.
func WithName(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.name = name
		}
	}
}

// WithUserIDHeader renames the request header carrying the user id.
// Defaults to "X-User-ID".
func WithUserIDHeader(header string) Option {
	return func(c *Client) {
		if header != "" {
			c.userIDHeader = header
		}
	}
}

// WithTimeout bounds every request to the agent, streaming included.
func WithTimeout(d time.Duration) Option {
	return WithA2AClientExtraOptions(client.WithTimeout(d))
}

// WithHTTPClient sends agent requests through a copy of c, for instance one
// carrying Google credentials. Timeouts set by WithTimeout apply to the copy.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cp := *c
			cl.httpClient = &cp
		}
	}
}

// WithA2AClientExtraOptions passes options through to the A2A client.
func WithA2AClientExtraOptions(opts ...client.Option) Option {
	return func(c *Client) {
		c.extraA2AOptions = append(c.extraA2AOptions, opts...)
	}
}

// WithMessageConverter replaces how turn content becomes an A2A message.
// A nil converter keeps the default.
func WithMessageConverter(conv ContentA2AConverter) Option {
	return func(c *Client) {
		if conv != nil {
			c.a2aMessageConverter = conv
		}
	}
}

// WithEventConverter replaces how A2A stream results become turn events.
// A nil converter keeps the default.
func WithEventConverter(conv A2AEventConverter) Option {
	return func(c *Client) {
		if conv != nil {
			c.eventConverter = conv
		}
	}
}
