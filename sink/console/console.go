//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package console provides a sink printing a turn as plain text lines.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
)

// Sink writes one line per render call to w.
type Sink struct {
	renderer render.Renderer

	mu    sync.Mutex
	w     io.Writer
	calls int
}

var _ sink.Sink = (*Sink)(nil)

// New creates a Sink writing to w.
func New(w io.Writer, renderer render.Renderer) *Sink {
	if renderer == nil {
		renderer = render.Basic{}
	}
	return &Sink{w: w, renderer: renderer}
}

// ExtractInput implements sink.Sink.
func (s *Sink) ExtractInput(_ context.Context, input any) (*genai.Content, error) {
	return sink.TextContent(input)
}

// FinalAnswer implements sink.Sink.
func (s *Sink) FinalAnswer(_ context.Context, author, text string, success, _ bool) error {
	return s.printf("%s\n%s\n\n", sink.Heading(s.renderer, author, "", success), text)
}

// FunctionCallingInitiation implements sink.Sink.
func (s *Sink) FunctionCallingInitiation(_ context.Context, author, tool string) (sink.Handle, error) {
	s.mu.Lock()
	s.calls++
	h := sink.Handle("call-" + strconv.Itoa(s.calls))
	s.mu.Unlock()
	line := strings.ReplaceAll(sink.InitiationText(author), "**", "")
	return h, s.printf("[%s] %s\n%s\n\n", h, sink.Heading(s.renderer, tool, "", false), line)
}

// FunctionCallingCompletion implements sink.Sink.
func (s *Sink) FunctionCallingCompletion(_ context.Context, _, tool string, result map[string]any, h sink.Handle) error {
	body, err := json.Marshal(result)
	if err != nil {
		body = []byte(fmt.Sprint(result))
	}
	return s.printf("[%s] %s\n%s\n\n", h, sink.Heading(s.renderer, tool, "", true), body)
}

// FunctionCallingFailure implements sink.Sink.
func (s *Sink) FunctionCallingFailure(_ context.Context, tool string, h sink.Handle) error {
	return s.printf("[%s] %s\n%s\n\n", h, sink.Heading(s.renderer, tool, "", false), sink.FailureText)
}

// IgnoredAuthors implements sink.Sink.
func (s *Sink) IgnoredAuthors() map[string]struct{} {
	return sink.NewIgnoredSet(s.renderer.IgnoredAuthors()...)
}

func (s *Sink) printf(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, format, args...)
	return err
}
