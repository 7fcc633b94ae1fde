//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package a2aagent

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
)

func textPart(s string) protocol.Part {
	return &protocol.TextPart{Kind: protocol.KindText, Text: s}
}

func dataPart(typ string, data map[string]any) protocol.Part {
	return &protocol.DataPart{
		Kind:     protocol.KindData,
		Data:     data,
		Metadata: map[string]any{"adk_type": typ},
	}
}

func TestConvertToA2AMessage(t *testing.T) {
	conv := &defaultContentA2AConverter{}
	content := &genai.Content{Role: string(genai.RoleUser), Parts: []*genai.Part{
		{Text: "hello"},
		{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
	}}

	msg, err := conv.ConvertToA2AMessage("s1", content)
	require.NoError(t, err)
	assert.Equal(t, protocol.MessageRoleUser, msg.Role)
	require.NotNil(t, msg.ContextID)
	assert.Equal(t, "s1", *msg.ContextID)
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, protocol.KindText, msg.Parts[0].GetKind())
	assert.Equal(t, "hello", textOf(msg.Parts[0]))
	assert.Equal(t, protocol.KindFile, msg.Parts[1].GetKind())
}

func TestConvertToA2AMessage_Empty(t *testing.T) {
	msg, err := (&defaultContentA2AConverter{}).ConvertToA2AMessage("", nil)
	require.NoError(t, err)
	assert.Nil(t, msg.ContextID)
	require.Len(t, msg.Parts, 1)
	assert.Equal(t, "", textOf(msg.Parts[0]))
}

func TestConvertStreamingToEvents(t *testing.T) {
	conv := &defaultA2AEventConverter{}

	failedStatus := &protocol.TaskStatusUpdateEvent{}
	failedStatus.Status.State = protocol.TaskStateFailed
	failedStatus.Status.Message = &protocol.Message{Parts: []protocol.Part{textPart("quota exceeded")}}

	workingStatus := &protocol.TaskStatusUpdateEvent{}
	workingStatus.Status.State = protocol.TaskStateWorking

	failedTask := &protocol.Task{}
	failedTask.Status.State = protocol.TaskStateFailed

	tests := []struct {
		name    string
		result  protocol.StreamingMessageResult
		want    []*event.Event
		wantErr string
	}{
		{
			name:   "text message",
			result: &protocol.Message{Parts: []protocol.Part{textPart("Hello, "), textPart("world")}},
			want:   []*event.Event{event.NewContent("remote", "Hello, world")},
		},
		{
			name: "author from metadata",
			result: &protocol.Message{
				Parts:    []protocol.Part{textPart("Paris")},
				Metadata: map[string]any{"adk_author": "place_agent"},
			},
			want: []*event.Event{event.NewContent("place_agent", "Paris")},
		},
		{
			name: "function call",
			result: &protocol.Message{Parts: []protocol.Part{
				dataPart("function_call", map[string]any{"id": "c1", "name": "search", "args": map[string]any{"q": "x"}}),
			}},
			want: []*event.Event{event.NewToolCallStart("remote", "c1", "search")},
		},
		{
			name: "function response",
			result: &protocol.TaskArtifactUpdateEvent{Artifact: protocol.Artifact{Parts: []protocol.Part{
				dataPart("function_response", map[string]any{"id": "c1", "name": "search", "response": `{"ok":true}`}),
			}}},
			want: []*event.Event{event.NewToolCallEnd("remote", "c1", "search", map[string]any{"ok": true})},
		},
		{
			name: "task artifacts",
			result: &protocol.Task{Artifacts: []protocol.Artifact{
				{Parts: []protocol.Part{textPart("Done.")}},
			}},
			want: []*event.Event{event.NewContent("remote", "Done.")},
		},
		{
			name:   "status without message",
			result: workingStatus,
			want:   []*event.Event{event.NewInternal("remote")},
		},
		{
			name:    "failed status",
			result:  failedStatus,
			wantErr: "A2A task failed: quota exceeded",
		},
		{
			name:    "failed task",
			result:  failedTask,
			wantErr: "A2A task failed",
		},
		{
			name:   "nil result",
			result: nil,
			want:   []*event.Event{event.NewInternal("remote")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ConvertStreamingToEvents(protocol.StreamingMessageEvent{Result: tt.result}, "remote")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResponseMap(t *testing.T) {
	assert.Nil(t, responseMap(nil))
	assert.Equal(t, map[string]any{"a": 1}, responseMap(map[string]any{"a": 1}))
	assert.Equal(t, map[string]any{"a": float64(1)}, responseMap(`{"a":1}`))
	assert.Equal(t, map[string]any{"result": "plain"}, responseMap("plain"))
	assert.Equal(t, map[string]any{"result": 3}, responseMap(3))
}

func TestNew(t *testing.T) {
	_, err := New()
	assert.Error(t, err)

	c, err := New(WithAgentURL(" localhost:8080 "), WithName("travel"), WithUserIDHeader("X-Chat-User"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.agentURL)
	assert.Equal(t, "X-Chat-User", c.userIDHeader)
	assert.Equal(t, "travel", c.Info().Name)
}

type stubConverter struct{}

func (stubConverter) ConvertToA2AMessage(string, *genai.Content) (*protocol.Message, error) {
	return nil, nil
}

func (stubConverter) ConvertStreamingToEvents(protocol.StreamingMessageEvent, string) ([]*event.Event, error) {
	return nil, nil
}

func TestOptions(t *testing.T) {
	c, err := New(
		WithAgentURL("https://agent.example.com/"),
		WithName(""),
		WithUserIDHeader(""),
		WithTimeout(time.Second),
		WithMessageConverter(stubConverter{}),
		WithEventConverter(nil),
	)
	require.NoError(t, err)
	assert.Equal(t, "https://agent.example.com", c.agentURL)
	assert.Equal(t, "agent", c.name)
	assert.Equal(t, defaultUserIDHeader, c.userIDHeader)
	assert.Len(t, c.extraA2AOptions, 1)
	assert.Equal(t, stubConverter{}, c.a2aMessageConverter)
	assert.IsType(t, &defaultA2AEventConverter{}, c.eventConverter)
}

func TestWithHTTPClient(t *testing.T) {
	shared := &http.Client{}
	c, err := New(WithAgentURL("localhost:8080"), WithHTTPClient(shared), WithTimeout(time.Minute))
	require.NoError(t, err)
	require.NotNil(t, c.httpClient)
	assert.NotSame(t, shared, c.httpClient)
	assert.Zero(t, shared.Timeout)

	c, err = New(WithAgentURL("localhost:8080"), WithHTTPClient(nil))
	require.NoError(t, err)
	assert.Nil(t, c.httpClient)
}
