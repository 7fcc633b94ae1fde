//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package chatsink

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
	"trpc.group/trpc-go/trpc-workspace-agent-go/chat"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
)

type created struct {
	space string
	msg   *chat.Message
}

type fakeService struct {
	created     []created
	updated     map[string]*chat.Message
	attachments map[string][]byte
	err         error
}

func newFakeService() *fakeService {
	return &fakeService{updated: make(map[string]*chat.Message), attachments: make(map[string][]byte)}
}

func (f *fakeService) CreateMessage(_ context.Context, space string, msg *chat.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, created{space: space, msg: msg})
	return fmt.Sprintf("%s/messages/m%d", space, len(f.created)), nil
}

func (f *fakeService) UpdateMessage(_ context.Context, name string, msg *chat.Message) error {
	if f.err != nil {
		return f.err
	}
	f.updated[name] = msg
	return nil
}

func (f *fakeService) DownloadAttachment(_ context.Context, resourceName string) ([]byte, error) {
	data, ok := f.attachments[resourceName]
	if !ok {
		return nil, errors.New("no such attachment")
	}
	return data, nil
}

type widgetRenderer struct {
	render.Basic
	widgets []card.Widget
}

func (r widgetRenderer) ResponseWidgets(string, map[string]any) []card.Widget { return r.widgets }

func TestExtractInput(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService()
	svc.attachments["att/1"] = []byte{0x89, 'P', 'N', 'G'}
	s := New(svc, "spaces/AAA", nil)

	msg := &chat.Message{
		Text: "what is this place?",
		Attachment: []chat.Attachment{
			{ContentName: "photo.png", ContentType: "image/png", AttachmentDataRef: &chat.AttachmentDataRef{ResourceName: "att/1"}},
			{ContentName: "drive-file"},
		},
	}
	c, err := s.ExtractInput(ctx, msg)
	require.NoError(t, err)
	assert.Equal(t, string(genai.RoleUser), c.Role)
	require.Len(t, c.Parts, 2)
	assert.Equal(t, "what is this place?", c.Parts[0].Text)
	require.NotNil(t, c.Parts[1].InlineData)
	assert.Equal(t, "image/png", c.Parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, c.Parts[1].InlineData.Data)

	c, err = s.ExtractInput(ctx, chat.Message{Text: "hi"})
	require.NoError(t, err)
	assert.Len(t, c.Parts, 1)

	c, err = s.ExtractInput(ctx, "plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", c.Parts[0].Text)

	_, err = s.ExtractInput(ctx, (*chat.Message)(nil))
	assert.ErrorIs(t, err, sink.ErrUnsupportedInput)
}

func TestExtractInput_DownloadError(t *testing.T) {
	s := New(newFakeService(), "spaces/AAA", nil)
	_, err := s.ExtractInput(context.Background(), &chat.Message{
		Attachment: []chat.Attachment{{AttachmentDataRef: &chat.AttachmentDataRef{ResourceName: "missing"}}},
	})
	assert.Error(t, err)
}

func TestFinalAnswer(t *testing.T) {
	svc := newFakeService()
	s := New(svc, "spaces/AAA", nil)
	require.NoError(t, s.FinalAnswer(context.Background(), "Agent", "line one\nline two", true, false))

	require.Len(t, svc.created, 1)
	got := svc.created[0]
	assert.Equal(t, "spaces/AAA", got.space)
	assert.Equal(t, "🤖 *Agent* ✅", got.msg.Text)
	assert.Empty(t, got.msg.AccessoryWidgets)
	require.Len(t, got.msg.CardsV2, 1)
	p := got.msg.CardsV2[0].Card.Sections[0].Widgets[0].TextParagraph
	assert.Equal(t, "line one\n\nline two", p.Text)
	assert.Equal(t, card.SyntaxMarkdown, p.TextSyntax)
}

func TestFunctionCallLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService()
	widgets := []card.Widget{card.Text("Paris", card.SyntaxMarkdown)}
	s := New(svc, "spaces/AAA", widgetRenderer{widgets: widgets})

	h, err := s.FunctionCallingInitiation(ctx, "inspiration_agent", "place_agent")
	require.NoError(t, err)
	assert.Equal(t, sink.Handle("spaces/AAA/messages/m1"), h)

	started := svc.created[0].msg
	assert.Equal(t, "🤖 *Place Agent*", started.Text)
	require.Len(t, started.AccessoryWidgets, 1)
	assert.Equal(t, render.DefaultStatusText, started.AccessoryWidgets[0].ButtonList.Buttons[0].Text)
	assert.Equal(t, "Working on **Inspiration Agent**'s request...",
		started.CardsV2[0].Card.Sections[0].Widgets[0].TextParagraph.Text)

	require.NoError(t, s.FunctionCallingCompletion(ctx, "inspiration_agent", "place_agent", map[string]any{}, h))
	done := svc.updated[string(h)]
	require.NotNil(t, done)
	assert.Equal(t, "🤖 *Place Agent* ✅", done.Text)
	assert.Empty(t, done.AccessoryWidgets)
	require.Len(t, done.CardsV2, 1)
	assert.Equal(t, widgets, done.CardsV2[0].Card.Sections[0].Widgets)
}

func TestCompletionWithoutWidgets(t *testing.T) {
	svc := newFakeService()
	s := New(svc, "spaces/AAA", nil)
	require.NoError(t, s.FunctionCallingCompletion(context.Background(), "root", "search", nil, "spaces/AAA/messages/m9"))
	done := svc.updated["spaces/AAA/messages/m9"]
	require.NotNil(t, done)
	assert.Empty(t, done.CardsV2)
}

func TestFunctionCallingFailure(t *testing.T) {
	svc := newFakeService()
	s := New(svc, "spaces/AAA", nil)
	require.NoError(t, s.FunctionCallingFailure(context.Background(), "search", "spaces/AAA/messages/m1"))

	failed := svc.updated["spaces/AAA/messages/m1"]
	require.NotNil(t, failed)
	assert.Equal(t, "🤖 *Search*", failed.Text)
	assert.Empty(t, failed.AccessoryWidgets)
	assert.Equal(t, sink.FailureText, failed.CardsV2[0].Card.Sections[0].Widgets[0].TextParagraph.Text)
}

func TestServiceErrors(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService()
	svc.err = errors.New("quota")
	s := New(svc, "spaces/AAA", nil)

	_, err := s.FunctionCallingInitiation(ctx, "root", "search")
	assert.ErrorIs(t, err, svc.err)
	assert.ErrorIs(t, s.FinalAnswer(ctx, "Agent", "x", true, false), svc.err)
	assert.ErrorIs(t, s.FunctionCallingFailure(ctx, "search", "h"), svc.err)
	assert.Equal(t, "spaces/AAA", s.Space())
}
