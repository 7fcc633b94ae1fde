//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package session provides the user to agent session mapping.
package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrAppNameRequired is returned for keys without an app name.
	ErrAppNameRequired = errors.New("session: app name is required")
	// ErrUserIDRequired is returned for keys without a user id.
	ErrUserIDRequired = errors.New("session: user id is required")
	// ErrSessionIDRequired is returned for keys without a session id.
	ErrSessionIDRequired = errors.New("session: session id is required")
	// ErrSessionNotFound is returned by backends deleting an unknown session.
	ErrSessionNotFound = errors.New("session: not found")
)

// UsersPrefix is the resource name prefix of Chat users.
const UsersPrefix = "users/"

// UserPseudoID returns the id a backend stores for a Chat user resource name.
func UserPseudoID(user string) string {
	return strings.TrimPrefix(user, UsersPrefix)
}

// Session is a conversation with the remote agent scoped to one app and user.
// Only the identity is kept; the conversation itself lives in the agent.
type Session struct {
	ID        string    `json:"id"`
	AppName   string    `json:"appName"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Backend stores sessions. Store keeps at most one of them per user.
type Backend interface {
	// ListSessions lists all sessions of a user, oldest first.
	ListSessions(ctx context.Context, userKey UserKey) ([]*Session, error)
	// CreateSession creates a new session for a user.
	CreateSession(ctx context.Context, userKey UserKey) (*Session, error)
	// DeleteSession deletes a session. Unknown sessions yield
	// ErrSessionNotFound where the backend can tell.
	DeleteSession(ctx context.Context, key Key) error
}

// UserKey addresses the sessions of one user of an app.
type UserKey struct {
	AppName string
	UserID  string
}

// CheckUserKey reports the first missing field of the key.
func (k UserKey) CheckUserKey() error {
	switch {
	case k.AppName == "":
		return ErrAppNameRequired
	case k.UserID == "":
		return ErrUserIDRequired
	}
	return nil
}

// Key addresses a single session.
type Key struct {
	AppName   string
	UserID    string
	SessionID string
}

// User returns the key of the session owner.
func (k Key) User() UserKey {
	return UserKey{AppName: k.AppName, UserID: k.UserID}
}

// CheckUserKey reports the first missing owner field of the key.
func (k Key) CheckUserKey() error {
	return k.User().CheckUserKey()
}

// CheckSessionKey reports the first missing field of the key.
func (k Key) CheckSessionKey() error {
	if err := k.CheckUserKey(); err != nil {
		return err
	}
	if k.SessionID == "" {
		return ErrSessionIDRequired
	}
	return nil
}
