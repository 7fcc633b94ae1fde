//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package event

import "google.golang.org/genai"

// FromContent flattens one agent runtime event into turn events.
//
// A leading text part becomes a content event. Function call parts become
// tool call starts; function response parts become tool call ends only when
// the content has no function calls. Content that yields none of those is
// reported as a single internal event, so the caller still observes that the
// runtime produced something.
func FromContent(author string, content *genai.Content) []*Event {
	if content == nil || len(content.Parts) == 0 {
		return []*Event{NewInternal(author)}
	}

	var events []*Event
	if first := content.Parts[0]; first != nil && first.Text != "" && !first.Thought {
		events = append(events, NewContent(author, first.Text))
	}

	var calls, responses []*Event
	for _, part := range content.Parts {
		if part == nil {
			continue
		}
		if fc := part.FunctionCall; fc != nil {
			calls = append(calls, NewToolCallStart(author, fc.ID, fc.Name))
		}
		if fr := part.FunctionResponse; fr != nil {
			responses = append(responses, NewToolCallEnd(author, fr.ID, fr.Name, fr.Response))
		}
	}
	if len(calls) > 0 {
		events = append(events, calls...)
	} else {
		events = append(events, responses...)
	}

	if len(events) == 0 {
		return []*Event{NewInternal(author)}
	}
	return events
}
