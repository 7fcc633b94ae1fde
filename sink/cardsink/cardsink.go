//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package cardsink provides a sink that accumulates a turn into add-on card
// sections, for hosts that render one card per request such as Gmail.
package cardsink

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
)

// ErrUnknownHandle is returned when a handle names no section.
var ErrUnknownHandle = errors.New("cardsink: unknown handle")

var listMarker = regexp.MustCompile(`(?m)^[ \t]*([*+-]|\d+\.)[ \t]+`)

// Sink collects the sections of one turn. A Sink is safe for concurrent use.
type Sink struct {
	renderer render.Renderer

	mu       sync.Mutex
	sections []card.Section
}

var _ sink.Sink = (*Sink)(nil)

// New creates an empty Sink drawing widgets with renderer.
func New(renderer render.Renderer) *Sink {
	if renderer == nil {
		renderer = render.Basic{}
	}
	return &Sink{renderer: renderer}
}

// ExtractInput accepts the plain text typed in the add-on form.
func (s *Sink) ExtractInput(_ context.Context, input any) (*genai.Content, error) {
	return sink.TextContent(input)
}

// FinalAnswer appends an answer section.
func (s *Sink) FinalAnswer(_ context.Context, author, text string, success, failure bool) error {
	s.add(s.buildSection(author, text, nil, success, failure))
	return nil
}

// FunctionCallingInitiation appends an in progress section for tool and
// returns its index as the handle.
func (s *Sink) FunctionCallingInitiation(_ context.Context, author, tool string) (sink.Handle, error) {
	idx := s.add(s.buildSection(tool, sink.InitiationText(author), nil, false, false))
	return sink.Handle(strconv.Itoa(idx)), nil
}

// FunctionCallingCompletion replaces the section behind h with the tool result.
func (s *Sink) FunctionCallingCompletion(_ context.Context, _, tool string, result map[string]any, h sink.Handle) error {
	widgets := s.renderer.ResponseWidgets(tool, result)
	return s.update(h, s.buildSection(tool, "", widgets, true, false))
}

// FunctionCallingFailure replaces the section behind h with the failure notice.
func (s *Sink) FunctionCallingFailure(_ context.Context, tool string, h sink.Handle) error {
	return s.update(h, s.buildSection(tool, sink.FailureText, nil, false, true))
}

// IgnoredAuthors implements sink.Sink.
func (s *Sink) IgnoredAuthors() map[string]struct{} {
	return sink.NewIgnoredSet(s.renderer.IgnoredAuthors()...)
}

// Sections returns the collected sections, most recent first.
func (s *Sink) Sections() []card.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]card.Section, len(s.sections))
	for i, sec := range s.sections {
		out[len(s.sections)-1-i] = sec
	}
	return out
}

// Len returns the number of collected sections.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sections)
}

func (s *Sink) add(sec card.Section) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Debugf("adding card section %d", len(s.sections))
	s.sections = append(s.sections, sec)
	return len(s.sections) - 1
}

func (s *Sink) update(h sink.Handle, sec card.Section) error {
	idx, err := strconv.Atoi(string(h))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownHandle, h)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.sections) {
		return fmt.Errorf("%w: %q", ErrUnknownHandle, h)
	}
	log.Debugf("updating card section %d", idx)
	s.sections[idx] = sec
	return nil
}

// buildSection renders the heading and text of author as HTML followed by
// widgets. Sections neither successful nor failed carry the status widget.
func (s *Sink) buildSection(author, text string, widgets []card.Widget, success, failure bool) card.Section {
	displayed := sink.Heading(s.renderer, author, "**", success)
	if text != "" {
		displayed += "\n\n" + text
	}
	html := render.MarkdownToHTML(substituteListings(displayed))
	all := []card.Widget{{TextParagraph: &card.TextParagraph{Text: strings.ReplaceAll(html, "\n", "\n\n")}}}
	all = append(all, widgets...)
	if !success && !failure {
		all = append(all, s.renderer.StatusWidgets(render.DefaultStatusText, render.DefaultStatusIcon)...)
	}
	return card.Section{Widgets: all}
}

// substituteListings replaces bulleted and numbered list markers with arrows.
func substituteListings(md string) string {
	return listMarker.ReplaceAllString(md, "-> ")
}
