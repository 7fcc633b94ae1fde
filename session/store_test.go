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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	sessions  map[string][]*Session
	created   int
	deleted   []Key
	listErr   error
	createErr error
	deleteErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sessions: make(map[string][]*Session)}
}

func (f *fakeBackend) ListSessions(_ context.Context, key UserKey) ([]*Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.sessions[key.UserID], nil
}

func (f *fakeBackend) CreateSession(_ context.Context, key UserKey) (*Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	sess := &Session{ID: fmt.Sprintf("s%d", f.created), AppName: key.AppName, UserID: key.UserID}
	f.sessions[key.UserID] = append(f.sessions[key.UserID], sess)
	return sess, nil
}

func (f *fakeBackend) DeleteSession(_ context.Context, key Key) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	list := f.sessions[key.UserID]
	for i, s := range list {
		if s.ID == key.SessionID {
			f.sessions[key.UserID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	return nil
}

func TestUserPseudoID(t *testing.T) {
	assert.Equal(t, "123", UserPseudoID("users/123"))
	assert.Equal(t, "123", UserPseudoID("123"))
	assert.Equal(t, "", UserPseudoID(""))
}

func TestKeyChecks(t *testing.T) {
	k := Key{}
	assert.ErrorIs(t, k.CheckSessionKey(), ErrAppNameRequired)
	k.AppName = "app"
	assert.ErrorIs(t, k.CheckSessionKey(), ErrUserIDRequired)
	k.UserID = "u"
	assert.ErrorIs(t, k.CheckSessionKey(), ErrSessionIDRequired)
	assert.NoError(t, k.CheckUserKey())
	k.SessionID = "s"
	assert.NoError(t, k.CheckSessionKey())

	uk := UserKey{AppName: "app"}
	assert.ErrorIs(t, uk.CheckUserKey(), ErrUserIDRequired)
	assert.Equal(t, uk, Key{AppName: "app", SessionID: "s"}.User())
}

func TestStore_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	s := NewStore("app", b)
	assert.Equal(t, "app", s.AppName())

	id, err := s.GetOrCreate(ctx, "users/42")
	require.NoError(t, err)
	assert.Equal(t, "s1", id)

	again, err := s.GetOrCreate(ctx, "users/42")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, b.created)

	// Backends key on the pseudo id.
	require.Len(t, b.sessions["42"], 1)
}

func TestStore_FirstListedWins(t *testing.T) {
	b := newFakeBackend()
	b.sessions["42"] = []*Session{{ID: "old"}, {ID: "new"}}
	s := NewStore("app", b)

	id, err := s.GetOrCreate(context.Background(), "users/42")
	require.NoError(t, err)
	assert.Equal(t, "old", id)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	s := NewStore("app", b)

	// Nothing to delete is not an error.
	require.NoError(t, s.Delete(ctx, "users/42"))
	assert.Empty(t, b.deleted)

	id, err := s.GetOrCreate(ctx, "users/42")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "users/42"))
	require.Len(t, b.deleted, 1)
	assert.Equal(t, Key{AppName: "app", UserID: "42", SessionID: id}, b.deleted[0])

	_, ok, err := s.Get(ctx, "users/42")
	require.NoError(t, err)
	assert.False(t, ok)

	next, err := s.GetOrCreate(ctx, "users/42")
	require.NoError(t, err)
	assert.NotEqual(t, id, next)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	b := newFakeBackend()
	b.listErr = boom
	_, err := NewStore("app", b).GetOrCreate(ctx, "users/1")
	assert.ErrorIs(t, err, boom)

	b = newFakeBackend()
	b.createErr = boom
	_, err = NewStore("app", b).GetOrCreate(ctx, "users/1")
	assert.ErrorIs(t, err, boom)

	b = newFakeBackend()
	b.sessions["1"] = []*Session{{ID: "s"}}
	b.deleteErr = boom
	assert.ErrorIs(t, NewStore("app", b).Delete(ctx, "users/1"), boom)

	_, err = NewStore("", newFakeBackend()).GetOrCreate(ctx, "users/1")
	assert.ErrorIs(t, err, ErrAppNameRequired)
	_, err = NewStore("app", newFakeBackend()).GetOrCreate(ctx, "")
	assert.ErrorIs(t, err, ErrUserIDRequired)
}
