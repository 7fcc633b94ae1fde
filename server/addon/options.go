//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package addon

import (
	"fmt"
	"strings"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-workspace-agent-go/chat"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
)

// DefaultResetCommandID is the Chat command id that resets the session.
const DefaultResetCommandID = 1

// RendererFactory returns the renderer of a surface. chat is true for Chat
// messages and false for add-on cards.
type RendererFactory func(chat bool) render.Renderer

// Option configures the Server instance.
type Option func(*Server)

// WithChatService sets the Chat API used by Chat turns. Chat message events
// fail without it.
func WithChatService(svc chat.MessageService) Option {
	return func(s *Server) { s.chatSvc = svc }
}

// WithDirectMessageFinder sets how the "Open Chat" button finds the direct
// message space of a user. Without it the button is omitted.
func WithDirectMessageFinder(f chat.DirectMessageFinder) Option {
	return func(s *Server) { s.dmFinder = f }
}

// WithRendererFactory sets the renderers of both surfaces.
func WithRendererFactory(f RendererFactory) Option {
	return func(s *Server) { s.renderers = f }
}

// WithPool runs Chat turns on pool and acknowledges the event immediately.
// Without a pool Chat turns run before the response is written.
func WithPool(pool *ants.Pool) Option {
	return func(s *Server) { s.pool = pool }
}

// WithBaseURL sets the public URL of the add-on used by card buttons.
// Defaults to the URL of the incoming request.
func WithBaseURL(u string) Option {
	return func(s *Server) { s.baseURL = u }
}

// WithResetCommandID sets the Chat command id that resets the session.
func WithResetCommandID(id int) Option {
	return func(s *Server) { s.resetCommandID = id }
}

// NewPool creates a non-blocking pool for WithPool.
func NewPool(size int) (*ants.Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be greater than 0, got %d", size)
	}
	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create turn pool: %w", err)
	}
	return pool, nil
}

func defaultRenderers(bool) render.Renderer {
	return render.Basic{}
}

func actionURL(base, query string) string {
	if strings.Contains(base, "?") {
		return base + "&" + query
	}
	return base + "?" + query
}
