//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package console

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink"
)

func TestConsoleSink(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	s := New(&buf, nil)

	h, err := s.FunctionCallingInitiation(ctx, "root_agent", "search")
	require.NoError(t, err)
	assert.Equal(t, sink.Handle("call-1"), h)
	require.NoError(t, s.FunctionCallingCompletion(ctx, "root_agent", "search", map[string]any{"hits": 2}, h))
	require.NoError(t, s.FinalAnswer(ctx, "root_agent", "All done.", true, false))

	h2, err := s.FunctionCallingInitiation(ctx, "root_agent", "map_tool")
	require.NoError(t, err)
	require.NoError(t, s.FunctionCallingFailure(ctx, "map_tool", h2))

	out := buf.String()
	assert.Contains(t, out, "[call-1] 🤖 Search\nWorking on Root Agent's request...")
	assert.Contains(t, out, "[call-1] 🤖 Search ✅\n{\"hits\":2}")
	assert.Contains(t, out, "🤖 Root Agent ✅\nAll done.")
	assert.Contains(t, out, "[call-2] 🤖 Map Tool\n"+sink.FailureText)
	assert.Empty(t, s.IgnoredAuthors())
}

func TestConsoleSink_ExtractInput(t *testing.T) {
	s := New(&bytes.Buffer{}, nil)
	c, err := s.ExtractInput(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", c.Parts[0].Text)
}
