//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package agentengine

import "google.golang.org/genai"

// QueryRequest is the body of a reasoning engine :streamQuery call.
type QueryRequest struct {
	ClassMethod string     `json:"class_method"`
	Input       QueryInput `json:"input"`
}

// QueryInput holds the arguments of the ADK app's stream_query method.
type QueryInput struct {
	UserID    string         `json:"user_id"`
	SessionID string         `json:"session_id"`
	Message   *genai.Content `json:"message"`
}

// EngineEvent is one event streamed by a deployed ADK app. The app dumps
// events with snake case field names.
type EngineEvent struct {
	ID           string         `json:"id,omitempty"`
	InvocationID string         `json:"invocation_id,omitempty"`
	Author       string         `json:"author,omitempty"`
	Content      *EngineContent `json:"content,omitempty"`
	Partial      bool           `json:"partial,omitempty"`
	ErrorCode    string         `json:"error_code,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	// Error is set instead of an event when the platform fails mid-stream.
	Error *Status `json:"error,omitempty"`
}

// EngineContent is the content of an EngineEvent.
type EngineContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []EnginePart `json:"parts,omitempty"`
}

// EnginePart is one part of an EngineContent.
type EnginePart struct {
	Text             string                  `json:"text,omitempty"`
	Thought          bool                    `json:"thought,omitempty"`
	FunctionCall     *EngineFunctionCall     `json:"function_call,omitempty"`
	FunctionResponse *EngineFunctionResponse `json:"function_response,omitempty"`
}

// EngineFunctionCall is a tool call requested by the agent.
type EngineFunctionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// EngineFunctionResponse is the result of a tool call.
type EngineFunctionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response,omitempty"`
}

// genai converts c to the content type of the turn events.
func (c *EngineContent) genai() *genai.Content {
	if c == nil {
		return nil
	}
	out := &genai.Content{Role: c.Role}
	for _, p := range c.Parts {
		part := &genai.Part{Text: p.Text, Thought: p.Thought}
		if fc := p.FunctionCall; fc != nil {
			part.FunctionCall = &genai.FunctionCall{ID: fc.ID, Name: fc.Name, Args: fc.Args}
		}
		if fr := p.FunctionResponse; fr != nil {
			part.FunctionResponse = &genai.FunctionResponse{ID: fr.ID, Name: fr.Name, Response: fr.Response}
		}
		out.Parts = append(out.Parts, part)
	}
	return out
}

// Status is a Google API error status.
type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// EngineSession is a session of the Vertex AI session service.
type EngineSession struct {
	// Name is "{engine}/sessions/{id}".
	Name       string `json:"name"`
	UserID     string `json:"userId"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// ListSessionsResponse is a page of sessions.
type ListSessionsResponse struct {
	Sessions      []EngineSession `json:"sessions"`
	NextPageToken string          `json:"nextPageToken,omitempty"`
}

// Operation is the long-running operation returned by session creation.
// Its name is "{engine}/sessions/{id}/operations/{op}".
type Operation struct {
	Name  string  `json:"name"`
	Done  bool    `json:"done,omitempty"`
	Error *Status `json:"error,omitempty"`
}
