//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package sink defines where the events of an agent turn are rendered.
package sink

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
)

const (
	// FailureText is the final answer shown when a turn fails.
	FailureText = "❌ Something went wrong"
	// DefaultAuthor is the author of answers not attributed to a sub-agent.
	DefaultAuthor = "Agent"
)

// ErrUnsupportedInput is returned by ExtractInput for inputs of the wrong type.
var ErrUnsupportedInput = errors.New("sink: unsupported input")

// Handle identifies a rendered tool call so that it can be updated later.
type Handle string

// Sink renders the events of one turn on a host surface.
//
// Implementations may be called from one goroutine at a time per turn.
type Sink interface {
	// ExtractInput converts the host input of a turn to agent content.
	ExtractInput(ctx context.Context, input any) (*genai.Content, error)

	// FinalAnswer renders an answer. success marks a regular answer and
	// failure the turn failure notice; neither means still in progress.
	FinalAnswer(ctx context.Context, author, text string, success, failure bool) error

	// FunctionCallingInitiation renders a started tool call and returns its handle.
	FunctionCallingInitiation(ctx context.Context, author, tool string) (Handle, error)

	// FunctionCallingCompletion renders the result of the call behind h.
	FunctionCallingCompletion(ctx context.Context, author, tool string, result map[string]any, h Handle) error

	// FunctionCallingFailure marks the call behind h as failed.
	FunctionCallingFailure(ctx context.Context, tool string, h Handle) error

	// IgnoredAuthors returns the tool names whose calls are not rendered.
	IgnoredAuthors() map[string]struct{}
}

// NewIgnoredSet builds the set returned by IgnoredAuthors.
func NewIgnoredSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// InitiationText is the body of a freshly started tool call.
func InitiationText(author string) string {
	return fmt.Sprintf("Working on **%s**'s request...", render.ReadableName(author))
}

// Heading is the "emoji name [✅]" line heading every rendered block. wrap
// surrounds the name, "**" for markdown bold or "*" for Chat bold.
func Heading(r render.Renderer, author, wrap string, success bool) string {
	h := r.AuthorEmoji(author) + " " + wrap + render.ReadableName(author) + wrap
	if success {
		h += " ✅"
	}
	return h
}

// TextContent returns the user content of a plain text input.
func TextContent(input any) (*genai.Content, error) {
	switch v := input.(type) {
	case string:
		return genai.NewContentFromText(v, genai.RoleUser), nil
	case *genai.Content:
		if v == nil {
			return nil, fmt.Errorf("%w: nil content", ErrUnsupportedInput)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, input)
	}
}
