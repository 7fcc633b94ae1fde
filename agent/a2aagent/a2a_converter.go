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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-a2a-go/protocol"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
	ia2a "trpc.group/trpc-go/trpc-workspace-agent-go/internal/a2a"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
)

// A2AEventConverter defines an interface for converting A2A protocol types to turn events.
type A2AEventConverter interface {
	// ConvertStreamingToEvents converts a streaming A2A result to turn events.
	ConvertStreamingToEvents(result protocol.StreamingMessageEvent, agentName string) ([]*event.Event, error)
}

// ContentA2AConverter defines an interface for converting user content to A2A protocol messages.
type ContentA2AConverter interface {
	// ConvertToA2AMessage converts the content of a session turn to an A2A protocol Message.
	ConvertToA2AMessage(sessionID string, content *genai.Content) (*protocol.Message, error)
}

type defaultContentA2AConverter struct{}

// ConvertToA2AMessage converts text parts to TextParts and inline data to
// FileParts. The session id becomes the message context id.
func (d *defaultContentA2AConverter) ConvertToA2AMessage(
	sessionID string,
	content *genai.Content,
) (*protocol.Message, error) {
	var parts []protocol.Part
	if content != nil {
		for _, p := range content.Parts {
			if p == nil {
				continue
			}
			if p.Text != "" {
				parts = append(parts, protocol.NewTextPart(p.Text))
			}
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				name := p.InlineData.DisplayName
				if name == "" {
					name = "file"
				}
				parts = append(parts, protocol.NewFilePartWithBytes(
					name,
					p.InlineData.MIMEType,
					base64.StdEncoding.EncodeToString(p.InlineData.Data),
				))
			}
		}
	}

	// If no content, create an empty text part to ensure message is not empty
	if len(parts) == 0 {
		parts = append(parts, protocol.NewTextPart(""))
	}
	message := protocol.NewMessage(protocol.MessageRoleUser, parts)
	if sessionID != "" {
		message.ContextID = &sessionID
	}
	return &message, nil
}

type defaultA2AEventConverter struct{}

// ConvertStreamingToEvents flattens one stream result. A failed task is
// reported as an error carrying the status message text.
func (d *defaultA2AEventConverter) ConvertStreamingToEvents(
	result protocol.StreamingMessageEvent,
	agentName string,
) ([]*event.Event, error) {
	var msg *protocol.Message
	switch v := result.Result.(type) {
	case nil:
		return []*event.Event{event.NewInternal(agentName)}, nil
	case *protocol.Message:
		msg = v
	case *protocol.Task:
		if v.Status.State == protocol.TaskStateFailed {
			return nil, taskFailedError(v.Status.Message)
		}
		msg = convertTaskToMessage(v)
	case *protocol.TaskStatusUpdateEvent:
		if v.Status.State == protocol.TaskStateFailed {
			return nil, taskFailedError(v.Status.Message)
		}
		msg = convertTaskStatusToMessage(v)
	case *protocol.TaskArtifactUpdateEvent:
		msg = convertTaskArtifactToMessage(v)
	default:
		log.Infof("unexpected event type: %T", result.Result)
		return []*event.Event{event.NewInternal(agentName)}, nil
	}
	author := agentName
	if a, ok := msg.Metadata[ia2a.MessageMetadataAuthorKey].(string); ok && a != "" {
		author = a
	}
	return event.FromContent(author, messageToContent(msg)), nil
}

// messageToContent maps A2A parts onto a genai content so that the turn
// event flattening rules apply to both agent backends alike.
func messageToContent(msg *protocol.Message) *genai.Content {
	var (
		text  strings.Builder
		parts []*genai.Part
	)
	for _, part := range msg.Parts {
		switch part.GetKind() {
		case protocol.KindText:
			text.WriteString(textOf(part))
		case protocol.KindData:
			if p := dataPartToGenAI(part); p != nil {
				parts = append(parts, p)
			}
		}
	}
	if text.Len() > 0 {
		parts = append([]*genai.Part{{Text: text.String()}}, parts...)
	}
	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Role: string(genai.RoleModel), Parts: parts}
}

func dataPartToGenAI(part protocol.Part) *genai.Part {
	var d *protocol.DataPart
	if p, ok := part.(*protocol.DataPart); ok {
		d = p
	} else if p, ok := part.(protocol.DataPart); ok {
		d = &p
	} else {
		return nil
	}
	data, ok := d.Data.(map[string]any)
	if !ok {
		log.Warnf("DataPart data is not a map: %T", d.Data)
		return nil
	}
	id, _ := data[ia2a.ToolCallFieldID].(string)
	name, _ := data[ia2a.ToolCallFieldName].(string)

	switch typ := ia2a.DataPartType(d.Metadata); typ {
	case ia2a.DataPartMetadataTypeFunctionCall:
		args, _ := data[ia2a.ToolCallFieldArgs].(map[string]any)
		return &genai.Part{FunctionCall: &genai.FunctionCall{ID: id, Name: name, Args: args}}
	case ia2a.DataPartMetadataTypeFunctionResp:
		return &genai.Part{FunctionResponse: &genai.FunctionResponse{
			ID:       id,
			Name:     name,
			Response: responseMap(data[ia2a.ToolCallFieldResponse]),
		}}
	default:
		log.Debugf("unknown DataPart type: %s", typ)
		return nil
	}
}

// responseMap normalises a tool response to an object. Strings holding a
// JSON object are decoded; other values are wrapped under "result".
func responseMap(v any) map[string]any {
	switch r := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return r
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(r), &m); err == nil {
			return m
		}
		return map[string]any{"result": r}
	default:
		return map[string]any{"result": r}
	}
}

func taskFailedError(msg *protocol.Message) error {
	if msg == nil {
		return fmt.Errorf("A2A task failed")
	}
	var text strings.Builder
	for _, part := range msg.Parts {
		if part.GetKind() == protocol.KindText {
			text.WriteString(textOf(part))
		}
	}
	return fmt.Errorf("A2A task failed: %s", text.String())
}

func textOf(part protocol.Part) string {
	switch p := part.(type) {
	case *protocol.TextPart:
		return p.Text
	case protocol.TextPart:
		return p.Text
	default:
		log.Warnf("unexpected part type: %T", part)
		return ""
	}
}

// convertTaskToMessage converts a Task to a Message
func convertTaskToMessage(task *protocol.Task) *protocol.Message {
	var parts []protocol.Part
	for _, artifact := range task.Artifacts {
		parts = append(parts, artifact.Parts...)
	}
	return &protocol.Message{
		Role:     protocol.MessageRoleAgent,
		Parts:    parts,
		Metadata: task.Metadata,
	}
}

// convertTaskStatusToMessage converts a TaskStatusUpdateEvent to a Message
func convertTaskStatusToMessage(event *protocol.TaskStatusUpdateEvent) *protocol.Message {
	msg := &protocol.Message{
		Role:     protocol.MessageRoleAgent,
		Metadata: event.Metadata,
	}
	if event.Status.Message != nil {
		msg.Parts = event.Status.Message.Parts
		if event.Status.Message.Metadata != nil {
			msg.Metadata = event.Status.Message.Metadata
		}
	}
	return msg
}

// convertTaskArtifactToMessage converts a TaskArtifactUpdateEvent to a Message
func convertTaskArtifactToMessage(event *protocol.TaskArtifactUpdateEvent) *protocol.Message {
	return &protocol.Message{
		Role:     protocol.MessageRoleAgent,
		Parts:    event.Artifact.Parts,
		Metadata: event.Metadata,
	}
}
