//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package adkweb

import "google.golang.org/genai"

// ADKSession mirrors the session object of the ADK API server.
// Field names follow the camel-case convention of the server.
type ADKSession struct {
	ID             string         `json:"id"`
	AppName        string         `json:"appName"`
	UserID         string         `json:"userId"`
	State          map[string]any `json:"state,omitempty"`
	LastUpdateTime float64        `json:"lastUpdateTime,omitempty"`
}

// AgentRunRequest mirrors the FastAPI schema of /run and /run_sse.
type AgentRunRequest struct {
	AppName    string         `json:"appName"`
	UserID     string         `json:"userId"`
	SessionID  string         `json:"sessionId"`
	NewMessage *genai.Content `json:"newMessage"`
	Streaming  bool           `json:"streaming"`
}

// ADKEvent is one event streamed by the ADK API server.
type ADKEvent struct {
	ID           string         `json:"id,omitempty"`
	InvocationID string         `json:"invocationId,omitempty"`
	Author       string         `json:"author,omitempty"`
	Content      *genai.Content `json:"content,omitempty"`
	Partial      bool           `json:"partial,omitempty"`
	TurnComplete bool           `json:"turnComplete,omitempty"`
	ErrorCode    string         `json:"errorCode,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	// Error is set instead of an event when the server fails mid-stream.
	Error string `json:"error,omitempty"`
}
