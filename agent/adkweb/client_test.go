//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package adkweb

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
)

func collect(seq iter.Seq2[*event.Event, error]) ([]*event.Event, error) {
	var out []*event.Event
	for e, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}

func sseServer(t *testing.T, lines ...string) (*httptest.Server, *AgentRunRequest) {
	t.Helper()
	got := &AgentRunRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/run_sse", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			fmt.Fprintf(w, "data: %s\n\n", l)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestClient_Stream(t *testing.T) {
	srv, got := sseServer(t,
		`{"author":"root","content":{"role":"model","parts":[{"functionCall":{"id":"1","name":"search","args":{"q":"x"}}}]}}`,
		`{"author":"root","partial":true,"content":{"role":"model","parts":[{"text":"Do"}]}}`,
		`{"author":"root","content":{"role":"user","parts":[{"functionResponse":{"id":"1","name":"search","response":{"ok":true}}}]}}`,
		`{"author":"root","content":{"role":"model","parts":[{"text":"Done."}]}}`,
		`{"author":"root"}`,
	)
	c := New(srv.URL, "travel", WithStreaming(true))

	evts, err := collect(c.Stream(context.Background(), "42", "s1", genai.NewContentFromText("hi", genai.RoleUser)))
	require.NoError(t, err)
	assert.Equal(t, []*event.Event{
		event.NewToolCallStart("root", "1", "search"),
		event.NewToolCallEnd("root", "1", "search", map[string]any{"ok": true}),
		event.NewContent("root", "Done."),
		event.NewInternal("root"),
	}, evts)

	assert.Equal(t, "travel", got.AppName)
	assert.Equal(t, "42", got.UserID)
	assert.Equal(t, "s1", got.SessionID)
	assert.True(t, got.Streaming)
	require.NotNil(t, got.NewMessage)
	assert.Equal(t, "hi", got.NewMessage.Parts[0].Text)
}

func TestClient_EmptyStream(t *testing.T) {
	srv, _ := sseServer(t)
	evts, err := collect(New(srv.URL, "travel").Stream(context.Background(), "42", "s1", nil))
	require.NoError(t, err)
	assert.Empty(t, evts)
}

func TestClient_StreamErrors(t *testing.T) {
	t.Run("error field", func(t *testing.T) {
		srv, _ := sseServer(t,
			`{"author":"root","content":{"parts":[{"text":"partial answer"}]}}`,
			`{"error":"boom"}`,
		)
		evts, err := collect(New(srv.URL, "travel").Stream(context.Background(), "42", "s1", nil))
		assert.ErrorIs(t, err, ErrStreamFailed)
		assert.Len(t, evts, 1)
	})
	t.Run("error code", func(t *testing.T) {
		srv, _ := sseServer(t, `{"errorCode":"SAFETY","errorMessage":"blocked"}`)
		_, err := collect(New(srv.URL, "travel").Stream(context.Background(), "42", "s1", nil))
		assert.ErrorIs(t, err, ErrStreamFailed)
		assert.Contains(t, err.Error(), "blocked")
	})
	t.Run("bad json", func(t *testing.T) {
		srv, _ := sseServer(t, `{not json`)
		_, err := collect(New(srv.URL, "travel").Stream(context.Background(), "42", "s1", nil))
		assert.ErrorContains(t, err, "decode event")
	})
	t.Run("http status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such app", http.StatusNotFound)
		}))
		defer srv.Close()
		_, err := collect(New(srv.URL, "travel").Stream(context.Background(), "42", "s1", nil))
		assert.ErrorContains(t, err, "status 404")
		assert.ErrorContains(t, err, "no such app")
	})
	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		_, err := collect(New(srv.URL, "travel").Stream(context.Background(), "42", "s1", nil))
		assert.Error(t, err)
	})
}

func TestClient_ConsumerBreak(t *testing.T) {
	srv, _ := sseServer(t,
		`{"author":"root","content":{"parts":[{"text":"one"}]}}`,
		`{"author":"root","content":{"parts":[{"text":"two"}]}}`,
	)
	n := 0
	for _, err := range New(srv.URL, "travel").Stream(context.Background(), "42", "s1", nil) {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)
}
