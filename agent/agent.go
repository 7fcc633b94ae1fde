//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package agent provides the remote agent client abstraction.
package agent

import (
	"context"
	"iter"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
)

// Info contains basic information about a remote agent.
type Info struct {
	Name        string
	Description string
}

// Client is the interface that all remote agent clients must implement.
type Client interface {
	// Stream sends content as the next user message of the session and
	// returns the events the agent emits in response.
	//
	// A sequence that ends without yielding anything means the agent produced
	// no events. Failures are yielded as a non-nil error, after which the
	// sequence stops.
	Stream(ctx context.Context, userID, sessionID string, content *genai.Content) iter.Seq2[*event.Event, error]
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, userID, sessionID string, content *genai.Content) iter.Seq2[*event.Event, error]

// Stream implements Client.
func (f ClientFunc) Stream(ctx context.Context, userID, sessionID string, content *genai.Content) iter.Seq2[*event.Event, error] {
	return f(ctx, userID, sessionID, content)
}

// Events returns a sequence that yields evts in order.
func Events(evts ...*event.Event) iter.Seq2[*event.Event, error] {
	return func(yield func(*event.Event, error) bool) {
		for _, e := range evts {
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Fail returns a sequence that yields evts and then err.
func Fail(err error, evts ...*event.Event) iter.Seq2[*event.Event, error] {
	return func(yield func(*event.Event, error) bool) {
		for _, e := range evts {
			if !yield(e, nil) {
				return
			}
		}
		yield(nil, err)
	}
}
