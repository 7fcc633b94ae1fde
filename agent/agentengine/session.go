//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package agentengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
)

// sessionsVersion is the API version serving reasoning engine sessions.
const sessionsVersion = "v1beta1"

var _ session.Backend = (*SessionBackend)(nil)

// SessionBackend stores sessions in the session service of a reasoning
// engine. The app name of the keys is ignored: every session belongs to
// the engine.
type SessionBackend struct {
	api *engineAPI
}

// NewSessionBackend creates a SessionBackend for the reasoning engine named
// engine.
func NewSessionBackend(engine string, opts ...Option) (*SessionBackend, error) {
	api, err := newEngineAPI(engine, opts)
	if err != nil {
		return nil, err
	}
	return &SessionBackend{api: api}, nil
}

// ListSessions lists the sessions of a user, oldest first.
func (b *SessionBackend) ListSessions(ctx context.Context, userKey session.UserKey) ([]*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	var sessions []*session.Session
	pageToken := ""
	for {
		q := url.Values{"filter": {fmt.Sprintf("user_id=%q", userKey.UserID)}}
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		var page ListSessionsResponse
		if err := b.do(ctx, http.MethodGet, b.sessionsPath()+"?"+q.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for i := range page.Sessions {
			if s := &page.Sessions[i]; s.UserID == userKey.UserID {
				sessions = append(sessions, toSession(s, userKey))
			}
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// CreateSession creates a session and waits for its operation to finish.
func (b *SessionBackend) CreateSession(ctx context.Context, userKey session.UserKey) (*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	var op Operation
	body := map[string]string{"userId": userKey.UserID}
	if err := b.do(ctx, http.MethodPost, b.sessionsPath(), body, &op); err != nil {
		return nil, err
	}
	id, err := sessionIDFromOperation(op.Name)
	if err != nil {
		return nil, err
	}
	if err := b.wait(ctx, op); err != nil {
		return nil, fmt.Errorf("create session %s: %w", id, err)
	}
	now := time.Now().UTC()
	return &session.Session{
		ID:        id,
		AppName:   userKey.AppName,
		UserID:    userKey.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// DeleteSession deletes a session. The deletion operation is not awaited.
func (b *SessionBackend) DeleteSession(ctx context.Context, key session.Key) error {
	if err := key.CheckSessionKey(); err != nil {
		return err
	}
	return b.do(ctx, http.MethodDelete, b.sessionsPath()+"/"+url.PathEscape(key.SessionID), nil, nil)
}

func (b *SessionBackend) wait(ctx context.Context, op Operation) error {
	for polls := 0; ; polls++ {
		if op.Error != nil {
			return fmt.Errorf("operation %s: %d %s", op.Name, op.Error.Code, op.Error.Message)
		}
		if op.Done {
			return nil
		}
		if polls >= b.api.opts.maxPolls {
			return fmt.Errorf("operation %s not done after %d polls", op.Name, polls)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.api.opts.pollInterval):
		}
		log.Debugf("polling operation %s", op.Name)
		if err := b.do(ctx, http.MethodGet, "/"+sessionsVersion+"/"+op.Name, nil, &op); err != nil {
			return err
		}
	}
}

func (b *SessionBackend) sessionsPath() string {
	return "/" + sessionsVersion + "/" + b.api.engine + "/sessions"
}

func (b *SessionBackend) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, b.api.endpoint+path, &body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := b.api.httpClient.Do(req)
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

// sessionIDFromOperation extracts {id} from
// "{engine}/sessions/{id}/operations/{op}".
func sessionIDFromOperation(name string) (string, error) {
	parts := strings.Split(name, "/")
	if len(parts) < 4 || parts[len(parts)-2] != "operations" || parts[len(parts)-4] != "sessions" {
		return "", fmt.Errorf("agentengine: unexpected operation name %q", name)
	}
	return parts[len(parts)-3], nil
}

func toSession(s *EngineSession, userKey session.UserKey) *session.Session {
	sess := &session.Session{
		ID:      s.Name[strings.LastIndex(s.Name, "/")+1:],
		AppName: userKey.AppName,
		UserID:  s.UserID,
	}
	if t, err := time.Parse(time.RFC3339Nano, s.CreateTime); err == nil {
		sess.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, s.UpdateTime); err == nil {
		sess.UpdatedAt = t
	}
	return sess
}
