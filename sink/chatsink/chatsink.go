//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package chatsink provides a sink that streams a turn into Google Chat,
// one message per answer or tool call.
package chatsink

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
	"trpc.group/trpc-go/trpc-workspace-agent-go/chat"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
)

// Sink posts the events of a turn to one Chat space.
type Sink struct {
	svc      chat.MessageService
	space    string
	renderer render.Renderer
}

var _ sink.Sink = (*Sink)(nil)

// New creates a Sink posting to space through svc.
func New(svc chat.MessageService, space string, renderer render.Renderer) *Sink {
	if renderer == nil {
		renderer = render.Basic{}
	}
	return &Sink{svc: svc, space: space, renderer: renderer}
}

// Space returns the space the sink posts to.
func (s *Sink) Space() string {
	return s.space
}

// ExtractInput converts a Chat message to user content. Attachments are
// downloaded and sent inline. Plain strings are accepted too.
func (s *Sink) ExtractInput(ctx context.Context, input any) (*genai.Content, error) {
	var msg *chat.Message
	switch v := input.(type) {
	case *chat.Message:
		msg = v
	case chat.Message:
		msg = &v
	default:
		return sink.TextContent(input)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", sink.ErrUnsupportedInput)
	}

	parts := []*genai.Part{genai.NewPartFromText(msg.Text)}
	for _, a := range msg.Attachment {
		if a.AttachmentDataRef == nil || a.AttachmentDataRef.ResourceName == "" {
			continue
		}
		data, err := s.svc.DownloadAttachment(ctx, a.AttachmentDataRef.ResourceName)
		if err != nil {
			return nil, fmt.Errorf("download attachment %s: %w", a.ContentName, err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, a.ContentType))
	}
	return genai.NewContentFromParts(parts, genai.RoleUser), nil
}

// FinalAnswer posts an answer message.
func (s *Sink) FinalAnswer(ctx context.Context, author, text string, success, failure bool) error {
	_, err := s.svc.CreateMessage(ctx, s.space, s.buildMessage(author, text, nil, success, failure))
	return err
}

// FunctionCallingInitiation posts an in progress message for tool and
// returns the message name as the handle.
func (s *Sink) FunctionCallingInitiation(ctx context.Context, author, tool string) (sink.Handle, error) {
	name, err := s.svc.CreateMessage(ctx, s.space, s.buildMessage(tool, sink.InitiationText(author), nil, false, false))
	if err != nil {
		return "", err
	}
	return sink.Handle(name), nil
}

// FunctionCallingCompletion replaces the message behind h with the tool result.
func (s *Sink) FunctionCallingCompletion(ctx context.Context, _, tool string, result map[string]any, h sink.Handle) error {
	var cards []card.CardWithID
	if widgets := s.renderer.ResponseWidgets(tool, result); len(widgets) > 0 {
		cards = append(cards, card.CardWithID{
			CardID: "response",
			Card:   card.Card{Sections: []card.Section{{Widgets: widgets}}},
		})
	}
	return s.svc.UpdateMessage(ctx, string(h), s.buildMessage(tool, "", cards, true, false))
}

// FunctionCallingFailure replaces the message behind h with the failure notice.
func (s *Sink) FunctionCallingFailure(ctx context.Context, tool string, h sink.Handle) error {
	return s.svc.UpdateMessage(ctx, string(h), s.buildMessage(tool, sink.FailureText, nil, false, true))
}

// IgnoredAuthors implements sink.Sink.
func (s *Sink) IgnoredAuthors() map[string]struct{} {
	return sink.NewIgnoredSet(s.renderer.IgnoredAuthors()...)
}

func (s *Sink) buildMessage(author, text string, cards []card.CardWithID, success, failure bool) *chat.Message {
	msg := &chat.Message{Text: sink.Heading(s.renderer, author, "*", success)}
	if text != "" {
		msg.CardsV2 = append(msg.CardsV2, card.CardWithID{
			CardID: "text",
			Card: card.Card{Sections: []card.Section{{Widgets: []card.Widget{
				card.Text(strings.ReplaceAll(text, "\n", "\n\n"), card.SyntaxMarkdown),
			}}}},
		})
	}
	msg.CardsV2 = append(msg.CardsV2, cards...)
	if !success && !failure {
		msg.AccessoryWidgets = s.renderer.StatusWidgets(render.DefaultStatusText, render.DefaultStatusIcon)
	}
	return msg
}
