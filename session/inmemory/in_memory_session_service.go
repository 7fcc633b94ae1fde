//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides in-memory session backend implementation.
package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
)

var _ session.Backend = (*SessionService)(nil)

// appSessions holds the sessions of one app, keyed by user id and kept in
// creation order.
type appSessions struct {
	mu       sync.RWMutex
	sessions map[string][]*session.Session
}

func newAppSessions() *appSessions {
	return &appSessions{sessions: make(map[string][]*session.Session)}
}

// SessionService provides an in-memory implementation of session.Backend.
type SessionService struct {
	mu   sync.RWMutex
	apps map[string]*appSessions
	opts serviceOpts
}

// NewSessionService creates a new in-memory session service.
func NewSessionService(options ...ServiceOpt) *SessionService {
	opts := serviceOpts{
		idGenerator: func() string { return uuid.New().String() },
		now:         time.Now,
	}
	for _, option := range options {
		option(&opts)
	}
	return &SessionService{
		apps: make(map[string]*appSessions),
		opts: opts,
	}
}

func (s *SessionService) getAppSessions(appName string) (*appSessions, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[appName]
	return app, ok
}

func (s *SessionService) getOrCreateAppSessions(appName string) *appSessions {
	s.mu.RLock()
	app, ok := s.apps[appName]
	if ok {
		s.mu.RUnlock()
		return app
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if app, ok = s.apps[appName]; ok {
		return app
	}
	app = newAppSessions()
	s.apps[appName] = app
	return app
}

// ListSessions lists the live sessions of a user, oldest first.
func (s *SessionService) ListSessions(ctx context.Context, userKey session.UserKey) ([]*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	app, ok := s.getAppSessions(userKey.AppName)
	if !ok {
		return []*session.Session{}, nil
	}

	app.mu.RLock()
	defer app.mu.RUnlock()
	now := s.opts.now()
	out := make([]*session.Session, 0, len(app.sessions[userKey.UserID]))
	for _, sess := range app.sessions[userKey.UserID] {
		if s.expired(sess, now) {
			continue
		}
		cp := *sess
		out = append(out, &cp)
	}
	return out, nil
}

// CreateSession creates a new session for a user.
func (s *SessionService) CreateSession(ctx context.Context, userKey session.UserKey) (*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	app := s.getOrCreateAppSessions(userKey.AppName)

	now := s.opts.now()
	sess := &session.Session{
		ID:        s.opts.idGenerator(),
		AppName:   userKey.AppName,
		UserID:    userKey.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	app.mu.Lock()
	defer app.mu.Unlock()
	live := app.sessions[userKey.UserID][:0]
	for _, existing := range app.sessions[userKey.UserID] {
		if !s.expired(existing, now) {
			live = append(live, existing)
		}
	}
	app.sessions[userKey.UserID] = append(live, sess)

	cp := *sess
	return &cp, nil
}

// DeleteSession deletes a session.
func (s *SessionService) DeleteSession(ctx context.Context, key session.Key) error {
	if err := key.CheckSessionKey(); err != nil {
		return err
	}
	app, ok := s.getAppSessions(key.AppName)
	if !ok {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, key.SessionID)
	}

	app.mu.Lock()
	defer app.mu.Unlock()
	list := app.sessions[key.UserID]
	for i, sess := range list {
		if sess.ID != key.SessionID {
			continue
		}
		app.sessions[key.UserID] = append(list[:i:i], list[i+1:]...)
		if len(app.sessions[key.UserID]) == 0 {
			delete(app.sessions, key.UserID)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", session.ErrSessionNotFound, key.SessionID)
}

func (s *SessionService) expired(sess *session.Session, now time.Time) bool {
	return s.opts.sessionTTL > 0 && now.Sub(sess.CreatedAt) > s.opts.sessionTTL
}
