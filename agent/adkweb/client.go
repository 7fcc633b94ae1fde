//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package adkweb provides a client for agents served by an ADK API server,
// covering both the run_sse event stream and the session routes.
package adkweb

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/agent"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
	ia2a "trpc.group/trpc-go/trpc-workspace-agent-go/internal/a2a"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
)

const (
	ssePrefix       = "data:"
	maxSSELineBytes = 10 << 20
	maxErrBodyBytes = 4 << 10
)

// ErrStreamFailed is wrapped by errors reported inside the event stream.
var ErrStreamFailed = errors.New("adkweb: agent stream failed")

var _ agent.Client = (*Client)(nil)

// Client streams turns to an app hosted on an ADK API server.
type Client struct {
	baseURL    string
	appName    string
	httpClient *http.Client
	streaming  bool
}

// Option configures a Client or SessionBackend.
type Option func(*options)

type options struct {
	httpClient *http.Client
	streaming  bool
}

// WithHTTPClient sets the HTTP client, for instance one carrying OAuth2
// credentials.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithStreaming asks the server for token-level partial events. Partial
// events are skipped by the client; only complete events are reported.
func WithStreaming(streaming bool) Option {
	return func(o *options) {
		o.streaming = streaming
	}
}

func newOptions(opts []Option) options {
	o := options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a Client for appName on the server at baseURL.
func New(baseURL, appName string, opts ...Option) *Client {
	o := newOptions(opts)
	return &Client{
		baseURL:    ia2a.BaseURL(baseURL),
		appName:    appName,
		httpClient: o.httpClient,
		streaming:  o.streaming,
	}
}

// Stream implements agent.Client.
func (c *Client) Stream(
	ctx context.Context,
	userID, sessionID string,
	content *genai.Content,
) iter.Seq2[*event.Event, error] {
	return func(yield func(*event.Event, error) bool) {
		body, err := json.Marshal(AgentRunRequest{
			AppName:    c.appName,
			UserID:     userID,
			SessionID:  sessionID,
			NewMessage: content,
			Streaming:  c.streaming,
		})
		if err != nil {
			yield(nil, fmt.Errorf("marshal run request: %w", err))
			return
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run_sse", bytes.NewReader(body))
		if err != nil {
			yield(nil, fmt.Errorf("build run request: %w", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			yield(nil, fmt.Errorf("run_sse request: %w", err))
			return
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			yield(nil, err)
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), maxSSELineBytes)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, ssePrefix) {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, ssePrefix))
			if data == "" {
				continue
			}
			var ev ADKEvent
			if err := json.Unmarshal([]byte(data), &ev); err != nil {
				yield(nil, fmt.Errorf("decode event: %w", err))
				return
			}
			if err := eventError(&ev); err != nil {
				yield(nil, err)
				return
			}
			if ev.Partial {
				continue
			}
			for _, e := range event.FromContent(ev.Author, ev.Content) {
				if !yield(e, nil) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("read event stream: %w", err))
			return
		}
		log.Debugf("run_sse finished for session %s", sessionID)
	}
}

func eventError(ev *ADKEvent) error {
	if ev.Error != "" {
		return fmt.Errorf("%w: %s", ErrStreamFailed, ev.Error)
	}
	if ev.ErrorCode != "" {
		return fmt.Errorf("%w: %s: %s", ErrStreamFailed, ev.ErrorCode, ev.ErrorMessage)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))
	return fmt.Errorf("%s %s: status %d: %s",
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
}
