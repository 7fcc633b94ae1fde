//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package event provides the turn events emitted by a remote agent.
package event

import "fmt"

// TransferToAgent is the tool name the agent runtime uses to hand a turn
// over to a sub-agent. Calls to it carry no user-facing content.
const TransferToAgent = "transfer_to_agent"

// Kind identifies the variant of an Event.
type Kind int

// Event kinds. Exactly one applies to each event.
const (
	// KindInternal is an event without user-facing content.
	KindInternal Kind = iota
	// KindContent is a textual answer attributed to an author.
	KindContent
	// KindToolCallStart reports that a tool invocation has begun.
	KindToolCallStart
	// KindToolCallEnd reports that a tool invocation completed.
	KindToolCallEnd
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindContent:
		return "content"
	case KindToolCallStart:
		return "tool_call_start"
	case KindToolCallEnd:
		return "tool_call_end"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one unit emitted by the agent during a turn.
type Event struct {
	// Kind selects which of the fields below are meaningful.
	Kind Kind `json:"kind"`

	// Author is the agent or sub-agent the event is attributed to.
	Author string `json:"author,omitempty"`

	// Text is the answer text of a content event.
	Text string `json:"text,omitempty"`

	// CallID pairs a tool call start with its end within one turn.
	CallID string `json:"callId,omitempty"`

	// ToolName is the name of the invoked tool.
	ToolName string `json:"toolName,omitempty"`

	// Result is the structured result of a completed tool call.
	Result map[string]any `json:"result,omitempty"`
}

// Option is a function that can be used to configure the Event.
type Option func(*Event)

// WithText sets the answer text.
func WithText(text string) Option {
	return func(e *Event) {
		e.Text = text
	}
}

// WithCall sets the tool call id and name.
func WithCall(callID, toolName string) Option {
	return func(e *Event) {
		e.CallID = callID
		e.ToolName = toolName
	}
}

// WithResult sets the structured tool result.
func WithResult(result map[string]any) Option {
	return func(e *Event) {
		e.Result = result
	}
}

// New creates a new Event of the given kind.
func New(kind Kind, author string, opts ...Option) *Event {
	e := &Event{
		Kind:   kind,
		Author: author,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewContent creates a content event.
func NewContent(author, text string) *Event {
	return New(KindContent, author, WithText(text))
}

// NewToolCallStart creates a tool call start event.
func NewToolCallStart(author, callID, toolName string) *Event {
	return New(KindToolCallStart, author, WithCall(callID, toolName))
}

// NewToolCallEnd creates a tool call end event.
func NewToolCallEnd(author, callID, toolName string, result map[string]any) *Event {
	return New(KindToolCallEnd, author, WithCall(callID, toolName), WithResult(result))
}

// NewInternal creates an event that carries nothing for the end user.
func NewInternal(author string) *Event {
	return New(KindInternal, author)
}

// IsTransfer reports whether the event is a tool call to the agent
// transfer marker.
func (e *Event) IsTransfer() bool {
	return (e.Kind == KindToolCallStart || e.Kind == KindToolCallEnd) && e.ToolName == TransferToAgent
}
