//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package agentengine provides a client for ADK apps deployed on Vertex AI
// Agent Engine, covering the streamQuery method and the session service of
// a reasoning engine.
package agentengine

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
	"time"

	"google.golang.org/genai"
	"trpc.group/trpc-go/trpc-workspace-agent-go/agent"
	"trpc.group/trpc-go/trpc-workspace-agent-go/event"
	ia2a "trpc.group/trpc-go/trpc-workspace-agent-go/internal/a2a"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
)

const (
	streamQueryMethod = "stream_query"
	ssePrefix         = "data:"
	maxLineBytes      = 10 << 20
	maxErrBodyBytes   = 4 << 10

	defaultPollInterval = time.Second
	defaultMaxPolls     = 30
)

// ErrStreamFailed is wrapped by errors reported inside the event stream.
var ErrStreamFailed = errors.New("agentengine: agent stream failed")

var _ agent.Client = (*Client)(nil)

// Option configures a Client or SessionBackend.
type Option func(*options)

type options struct {
	httpClient   *http.Client
	endpoint     string
	pollInterval time.Duration
	maxPolls     int
}

// WithHTTPClient sets the HTTP client. Vertex AI needs one carrying Google
// credentials, such as the client of golang.org/x/oauth2/google.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithEndpoint overrides the regional API endpoint
// "https://{location}-aiplatform.googleapis.com".
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = ia2a.BaseURL(endpoint)
		}
	}
}

// WithPollInterval sets how often session creation polls its operation.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.pollInterval = d
		}
	}
}

// engineAPI is the REST surface shared by the client and the session
// backend.
type engineAPI struct {
	engine     string
	endpoint   string
	httpClient *http.Client
	opts       options
}

func newEngineAPI(engine string, opts []Option) (*engineAPI, error) {
	loc, err := Location(engine)
	if err != nil {
		return nil, err
	}
	o := options{
		httpClient:   http.DefaultClient,
		endpoint:     fmt.Sprintf("https://%s-aiplatform.googleapis.com", loc),
		pollInterval: defaultPollInterval,
		maxPolls:     defaultMaxPolls,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &engineAPI{engine: engine, endpoint: o.endpoint, httpClient: o.httpClient, opts: o}, nil
}

// Location returns the location of a reasoning engine resource name
// "projects/{p}/locations/{l}/reasoningEngines/{id}".
func Location(engine string) (string, error) {
	parts := strings.Split(engine, "/")
	if len(parts) != 6 || parts[0] != "projects" || parts[2] != "locations" ||
		parts[4] != "reasoningEngines" || parts[1] == "" || parts[3] == "" || parts[5] == "" {
		return "", fmt.Errorf("agentengine: invalid reasoning engine name %q", engine)
	}
	return parts[3], nil
}

// Client streams turns to an ADK app deployed on Agent Engine.
type Client struct {
	api *engineAPI
}

// New creates a Client for the reasoning engine named engine.
func New(engine string, opts ...Option) (*Client, error) {
	api, err := newEngineAPI(engine, opts)
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Info returns the engine name and its endpoint.
func (c *Client) Info() agent.Info {
	return agent.Info{Name: c.api.engine, Description: c.api.endpoint}
}

// Stream implements agent.Client.
func (c *Client) Stream(
	ctx context.Context,
	userID, sessionID string,
	content *genai.Content,
) iter.Seq2[*event.Event, error] {
	return func(yield func(*event.Event, error) bool) {
		body, err := json.Marshal(QueryRequest{
			ClassMethod: streamQueryMethod,
			Input:       QueryInput{UserID: userID, SessionID: sessionID, Message: content},
		})
		if err != nil {
			yield(nil, fmt.Errorf("marshal stream query: %w", err))
			return
		}
		u := c.api.endpoint + "/v1/" + c.api.engine + ":streamQuery?alt=sse"
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
		if err != nil {
			yield(nil, fmt.Errorf("build stream query: %w", err))
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.api.httpClient.Do(req)
		if err != nil {
			yield(nil, fmt.Errorf("stream query: %w", err))
			return
		}
		defer resp.Body.Close()
		if err := checkStatus(resp); err != nil {
			yield(nil, err)
			return
		}

		// Events arrive as SSE data lines, or as bare JSON lines when the
		// platform ignores alt=sse.
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			line = strings.TrimSpace(strings.TrimPrefix(line, ssePrefix))
			if !strings.HasPrefix(line, "{") {
				continue
			}
			var ev EngineEvent
			if err := json.Unmarshal([]byte(line), &ev); err != nil {
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
			for _, e := range event.FromContent(ev.Author, ev.Content.genai()) {
				if !yield(e, nil) {
					return
				}
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("read event stream: %w", err))
			return
		}
		log.Debugf("stream query finished for session %s", sessionID)
	}
}

func eventError(ev *EngineEvent) error {
	switch {
	case ev.Error != nil:
		return fmt.Errorf("%w: %d %s", ErrStreamFailed, ev.Error.Code, ev.Error.Message)
	case ev.ErrorCode != "":
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
