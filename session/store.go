//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package session

import (
	"context"
	"fmt"

	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
)

// Store maps users to their agent session on top of a Backend.
//
// Store takes no locks: two concurrent GetOrCreate calls for a user without
// a session may both create one. Later lookups return the first listed.
type Store struct {
	appName string
	backend Backend
}

// NewStore creates a Store for appName.
func NewStore(appName string, backend Backend) *Store {
	return &Store{appName: appName, backend: backend}
}

// AppName returns the app the store is scoped to.
func (s *Store) AppName() string {
	return s.appName
}

// Get returns the current session id of user. The bool is false when the
// user has no session.
func (s *Store) Get(ctx context.Context, user string) (string, bool, error) {
	key := s.userKey(user)
	if err := key.CheckUserKey(); err != nil {
		return "", false, err
	}
	sessions, err := s.backend.ListSessions(ctx, key)
	if err != nil {
		return "", false, fmt.Errorf("list sessions of %s: %w", user, err)
	}
	if len(sessions) == 0 {
		return "", false, nil
	}
	return sessions[0].ID, true, nil
}

// GetOrCreate returns the current session id of user, creating a session
// when none exists.
func (s *Store) GetOrCreate(ctx context.Context, user string) (string, error) {
	id, ok, err := s.Get(ctx, user)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}
	sess, err := s.backend.CreateSession(ctx, s.userKey(user))
	if err != nil {
		return "", fmt.Errorf("create session of %s: %w", user, err)
	}
	log.Debugf("created session %s for %s", sess.ID, user)
	return sess.ID, nil
}

// Delete removes the current session of user. A user without a session is
// not an error.
func (s *Store) Delete(ctx context.Context, user string) error {
	id, ok, err := s.Get(ctx, user)
	if err != nil {
		return err
	}
	if !ok {
		log.Infof("no session to delete for %s", user)
		return nil
	}
	key := Key{AppName: s.appName, UserID: UserPseudoID(user), SessionID: id}
	if err := s.backend.DeleteSession(ctx, key); err != nil {
		return fmt.Errorf("delete session %s of %s: %w", id, user, err)
	}
	log.Debugf("deleted session %s for %s", id, user)
	return nil
}

func (s *Store) userKey(user string) UserKey {
	return UserKey{AppName: s.appName, UserID: UserPseudoID(user)}
}
