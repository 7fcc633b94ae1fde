//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package a2aagent provides a client for remote agents speaking the A2A protocol.
package a2aagent

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-a2a-go/client"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"
	"trpc.group/trpc-go/trpc-workspace-agent-go/agent"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
	ia2a "trpc.group/trpc-go/trpc-workspace-agent-go/internal/a2a"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
)

const defaultUserIDHeader = "X-User-ID"

var _ agent.Client = (*Client)(nil)

// Client streams turns to a remote A2A agent. The session id is sent as the
// A2A context id and the user id as a request header.
type Client struct {
	// options
	name                string
	agentURL            string              // URL of the remote A2A agent
	eventConverter      A2AEventConverter   // Converts A2A stream results to turn events
	a2aMessageConverter ContentA2AConverter // Converts user content to A2A messages
	extraA2AOptions     []client.Option     // Additional A2A client options
	userIDHeader        string              // HTTP header name to send UserID to A2A server
	httpClient          *http.Client        // Replaces the A2A client's own HTTP client when set

	a2aClient *client.A2AClient
}

// New creates a new Client.
func New(opts ...Option) (*Client, error) {
	c := &Client{
		name:                "agent",
		eventConverter:      &defaultA2AEventConverter{},
		a2aMessageConverter: &defaultContentA2AConverter{},
		userIDHeader:        defaultUserIDHeader,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.agentURL == "" {
		return nil, errors.New("a2aagent: agent URL not set")
	}
	c.agentURL = ia2a.BaseURL(c.agentURL)

	a2aOpts := c.extraA2AOptions
	if c.httpClient != nil {
		a2aOpts = append([]client.Option{client.WithHTTPClient(c.httpClient)}, a2aOpts...)
	}
	a2aClient, err := client.NewA2AClient(c.agentURL, a2aOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create A2A client for %s: %w", c.agentURL, err)
	}
	c.a2aClient = a2aClient
	return c, nil
}

// Info returns the configured agent name and URL.
func (c *Client) Info() agent.Info {
	return agent.Info{Name: c.name, Description: c.agentURL}
}

// Stream implements agent.Client.
func (c *Client) Stream(
	ctx context.Context,
	userID, sessionID string,
	content *genai.Content,
) iter.Seq2[*event.Event, error] {
	return func(yield func(*event.Event, error) bool) {
		msg, err := c.a2aMessageConverter.ConvertToA2AMessage(sessionID, content)
		if err != nil {
			yield(nil, fmt.Errorf("failed to construct A2A message: %w", err))
			return
		}

		// Stops the client's reader when the consumer leaves early.
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var requestOpts []client.RequestOption
		if userID != "" {
			requestOpts = append(requestOpts, client.WithRequestHeader(c.userIDHeader, userID))
		}
		streamChan, err := c.a2aClient.StreamMessage(ctx, protocol.SendMessageParams{Message: *msg}, requestOpts...)
		if err != nil {
			yield(nil, fmt.Errorf("A2A streaming request failed to %s: %w", c.agentURL, err))
			return
		}

		for streamEvent := range streamChan {
			evts, err := c.eventConverter.ConvertStreamingToEvents(streamEvent, c.name)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, e := range evts {
				if !yield(e, nil) {
					return
				}
			}
		}
		if err := ctx.Err(); err != nil {
			log.Debugf("A2A stream to %s ended: %v", c.agentURL, err)
			yield(nil, err)
		}
	}
}
