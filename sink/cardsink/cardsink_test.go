//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package cardsink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
)

type stubRenderer struct {
	render.Basic
}

func (stubRenderer) ResponseWidgets(tool string, _ map[string]any) []card.Widget {
	return []card.Widget{card.Text("result of "+tool, "")}
}

func (stubRenderer) IgnoredAuthors() []string { return []string{"memorize"} }

func isStatus(w card.Widget) bool {
	return w.ButtonList != nil && len(w.ButtonList.Buttons) == 1 && w.ButtonList.Buttons[0].Disabled
}

func TestSubstituteListings(t *testing.T) {
	in := "Places:\n* Paris\n  - Lyon\n+ Nice\n1. Rome\n12. Milan\nno-list here"
	want := "Places:\n-> Paris\n-> Lyon\n-> Nice\n-> Rome\n-> Milan\nno-list here"
	assert.Equal(t, want, substituteListings(in))
}

func TestFinalAnswer(t *testing.T) {
	ctx := context.Background()
	s := New(render.Basic{})

	require.NoError(t, s.FinalAnswer(ctx, "Agent", "Hello **there**", true, false))
	secs := s.Sections()
	require.Len(t, secs, 1)
	require.Len(t, secs[0].Widgets, 1)
	text := secs[0].Widgets[0].TextParagraph.Text
	assert.Contains(t, text, "🤖 <strong>Agent</strong> ✅")
	assert.Contains(t, text, "Hello <strong>there</strong>")
	assert.Contains(t, text, "</p>\n\n<p>")
}

func TestFinalAnswer_Failure(t *testing.T) {
	s := New(nil)
	require.NoError(t, s.FinalAnswer(context.Background(), sink.DefaultAuthor, sink.FailureText, false, true))
	secs := s.Sections()
	require.Len(t, secs, 1)
	require.Len(t, secs[0].Widgets, 1)
	assert.NotContains(t, secs[0].Widgets[0].TextParagraph.Text, "✅")
	assert.Contains(t, secs[0].Widgets[0].TextParagraph.Text, sink.FailureText)
}

func TestFunctionCallLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New(stubRenderer{})

	h, err := s.FunctionCallingInitiation(ctx, "inspiration_agent", "poi_agent")
	require.NoError(t, err)
	assert.Equal(t, sink.Handle("0"), h)

	secs := s.Sections()
	require.Len(t, secs, 1)
	require.Len(t, secs[0].Widgets, 2)
	assert.Contains(t, secs[0].Widgets[0].TextParagraph.Text, "<strong>Poi Agent</strong>")
	assert.Contains(t, secs[0].Widgets[0].TextParagraph.Text, "Working on <strong>Inspiration Agent</strong>")
	assert.True(t, isStatus(secs[0].Widgets[1]))

	require.NoError(t, s.FinalAnswer(ctx, "poi_agent", "Here you go", true, false))
	require.NoError(t, s.FunctionCallingCompletion(ctx, "inspiration_agent", "poi_agent", map[string]any{"ok": true}, h))

	secs = s.Sections()
	require.Len(t, secs, 2)
	// Most recent first: the completed call was added first.
	done := secs[1]
	require.Len(t, done.Widgets, 2)
	assert.Contains(t, done.Widgets[0].TextParagraph.Text, "Poi Agent</strong> ✅")
	assert.Equal(t, "result of poi_agent", done.Widgets[1].TextParagraph.Text)
	assert.Contains(t, secs[0].Widgets[0].TextParagraph.Text, "Here you go")
}

func TestFunctionCallingFailure(t *testing.T) {
	ctx := context.Background()
	s := New(render.Basic{})
	h, err := s.FunctionCallingInitiation(ctx, "root", "search")
	require.NoError(t, err)
	require.NoError(t, s.FunctionCallingFailure(ctx, "search", h))

	secs := s.Sections()
	require.Len(t, secs, 1)
	require.Len(t, secs[0].Widgets, 1)
	assert.Contains(t, secs[0].Widgets[0].TextParagraph.Text, sink.FailureText)
}

func TestUnknownHandle(t *testing.T) {
	ctx := context.Background()
	s := New(render.Basic{})
	assert.ErrorIs(t, s.FunctionCallingFailure(ctx, "search", "0"), ErrUnknownHandle)
	assert.ErrorIs(t, s.FunctionCallingFailure(ctx, "search", "nope"), ErrUnknownHandle)
	assert.ErrorIs(t, s.FunctionCallingCompletion(ctx, "a", "search", nil, "-1"), ErrUnknownHandle)
	assert.Zero(t, s.Len())
}

func TestExtractInputAndIgnored(t *testing.T) {
	s := New(stubRenderer{})
	c, err := s.ExtractInput(context.Background(), "plan a trip")
	require.NoError(t, err)
	assert.Equal(t, "plan a trip", c.Parts[0].Text)

	_, err = s.ExtractInput(context.Background(), 1)
	assert.ErrorIs(t, err, sink.ErrUnsupportedInput)

	assert.Contains(t, s.IgnoredAuthors(), "memorize")
}
