//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
)

const (
	// DefaultBaseURL is the Google Chat REST endpoint.
	DefaultBaseURL = "https://chat.googleapis.com/v1"
	// BotScope is the OAuth2 scope of Chat app authentication.
	BotScope = "https://www.googleapis.com/auth/chat.bot"

	maxErrBodyBytes = 4 << 10
)

// MessageService creates and updates Chat messages on behalf of the app.
type MessageService interface {
	// CreateMessage posts msg to space and returns the message resource name.
	CreateMessage(ctx context.Context, space string, msg *Message) (string, error)
	// UpdateMessage replaces every field of the message called name.
	UpdateMessage(ctx context.Context, name string, msg *Message) error
	// DownloadAttachment returns the bytes of an uploaded attachment.
	DownloadAttachment(ctx context.Context, resourceName string) ([]byte, error)
}

// DirectMessageFinder finds the direct message space between the app and a user.
type DirectMessageFinder interface {
	FindDirectMessage(ctx context.Context, user string) (string, error)
}

var (
	_ MessageService      = (*Client)(nil)
	_ DirectMessageFinder = (*Client)(nil)
)

// Client is a minimal Google Chat REST client.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// NewClient creates a Client using httpClient for every call. The client
// must attach credentials itself.
func NewClient(httpClient *http.Client, opts ...ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{httpClient: httpClient, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewServiceAccountClient creates a Client authenticated as the Chat app
// with the given service account key.
func NewServiceAccountClient(ctx context.Context, credentialsJSON []byte, opts ...ClientOption) (*Client, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, BotScope)
	if err != nil {
		return nil, fmt.Errorf("load chat credentials: %w", err)
	}
	return NewClient(oauth2.NewClient(ctx, creds.TokenSource), opts...), nil
}

// CreateMessage implements MessageService.
func (c *Client) CreateMessage(ctx context.Context, space string, msg *Message) (string, error) {
	var out Message
	if err := c.do(ctx, http.MethodPost, "/"+resourcePath(space)+"/messages", nil, msg, &out); err != nil {
		return "", err
	}
	log.Debugf("created message %s in %s", out.Name, space)
	return out.Name, nil
}

// UpdateMessage implements MessageService.
func (c *Client) UpdateMessage(ctx context.Context, name string, msg *Message) error {
	q := url.Values{"updateMask": {"*"}}
	return c.do(ctx, http.MethodPatch, "/"+resourcePath(name), q, msg, nil)
}

// DownloadAttachment implements MessageService.
func (c *Client) DownloadAttachment(ctx context.Context, resourceName string) ([]byte, error) {
	q := url.Values{"alt": {"media"}}
	req, err := c.newRequest(ctx, http.MethodGet, "/media/"+resourcePath(resourceName), q, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", resourceName, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", resourceName, err)
	}
	return data, nil
}

// FindDirectMessage implements DirectMessageFinder.
func (c *Client) FindDirectMessage(ctx context.Context, user string) (string, error) {
	var out Space
	q := url.Values{"name": {user}}
	if err := c.do(ctx, http.MethodGet, "/spaces:findDirectMessage", q, nil, &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, q url.Values, in any) (*http.Request, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	req, err := c.newRequest(ctx, method, path, q, in)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// resourcePath escapes each segment of a resource name.
func resourcePath(name string) string {
	segs := strings.Split(strings.Trim(name, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBodyBytes))
	return fmt.Errorf("chat %s %s: status %d: %s",
		resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
}
