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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ia2a "trpc.group/trpc-go/trpc-workspace-agent-go/internal/a2a"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
)

var _ session.Backend = (*SessionBackend)(nil)

// SessionBackend stores sessions on the ADK API server that hosts the agent.
type SessionBackend struct {
	baseURL    string
	httpClient *http.Client
}

// NewSessionBackend creates a SessionBackend for the server at baseURL.
func NewSessionBackend(baseURL string, opts ...Option) *SessionBackend {
	o := newOptions(opts)
	return &SessionBackend{
		baseURL:    ia2a.BaseURL(baseURL),
		httpClient: o.httpClient,
	}
}

// ListSessions lists the sessions of a user in server order.
func (b *SessionBackend) ListSessions(ctx context.Context, userKey session.UserKey) ([]*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	var out []ADKSession
	if err := b.do(ctx, http.MethodGet, b.sessionsPath(userKey), nil, &out); err != nil {
		return nil, err
	}
	sessions := make([]*session.Session, 0, len(out))
	for i := range out {
		sessions = append(sessions, toSession(&out[i], userKey))
	}
	return sessions, nil
}

// CreateSession creates a new session for a user.
func (b *SessionBackend) CreateSession(ctx context.Context, userKey session.UserKey) (*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	var out ADKSession
	if err := b.do(ctx, http.MethodPost, b.sessionsPath(userKey), struct{}{}, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("create session: server returned no session id")
	}
	return toSession(&out, userKey), nil
}

// DeleteSession deletes a session.
func (b *SessionBackend) DeleteSession(ctx context.Context, key session.Key) error {
	if err := key.CheckSessionKey(); err != nil {
		return err
	}
	path := b.sessionsPath(key.User()) +
		"/" + url.PathEscape(key.SessionID)
	return b.do(ctx, http.MethodDelete, path, nil, nil)
}

func (b *SessionBackend) sessionsPath(userKey session.UserKey) string {
	return fmt.Sprintf("/apps/%s/users/%s/sessions",
		url.PathEscape(userKey.AppName), url.PathEscape(userKey.UserID))
}

func (b *SessionBackend) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound && method == http.MethodDelete {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, path)
	}
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

func toSession(s *ADKSession, userKey session.UserKey) *session.Session {
	sess := &session.Session{
		ID:      s.ID,
		AppName: userKey.AppName,
		UserID:  userKey.UserID,
	}
	if s.LastUpdateTime > 0 {
		sec := int64(s.LastUpdateTime)
		nsec := int64((s.LastUpdateTime - float64(sec)) * float64(time.Second))
		sess.UpdatedAt = time.Unix(sec, nsec).UTC()
	}
	return sess
}
