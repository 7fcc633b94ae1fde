//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package redis provides the redis session backend.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
	storage "trpc.group/trpc-go/trpc-workspace-agent-go/storage/redis"
)

var _ session.Backend = (*Service)(nil)

// Service is the redis session backend.
// Storage structure:
//
//	Sessions: appName + userID -> hash [sessionID -> Session(json)].
type Service struct {
	opts        ServiceOpts
	redisClient redis.UniversalClient
}

// NewService creates a new redis session service.
func NewService(options ...ServiceOpt) (*Service, error) {
	opts := ServiceOpts{
		idGenerator: func() string { return uuid.New().String() },
		now:         time.Now,
	}
	for _, option := range options {
		option(&opts)
	}
	if opts.url == "" {
		return nil, errors.New("redis url is required")
	}

	builderOpts := []storage.ClientBuilderOpt{storage.WithClientBuilderURL(opts.url)}
	if opts.clientName != "" {
		builderOpts = append(builderOpts, storage.WithClientName(opts.clientName))
	}
	redisClient, err := storage.GetClientBuilder()(builderOpts...)
	if err != nil {
		return nil, fmt.Errorf("create redis client from url failed: %w", err)
	}
	return &Service{opts: opts, redisClient: redisClient}, nil
}

// ListSessions lists the sessions of a user, oldest first.
func (s *Service) ListSessions(ctx context.Context, userKey session.UserKey) ([]*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	entries, err := s.redisClient.HGetAll(ctx, getSessionKey(userKey)).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("redis session service list sessions failed: %w", err)
	}

	sessions := make([]*session.Session, 0, len(entries))
	for id, raw := range entries {
		sess := &session.Session{}
		if err := json.Unmarshal([]byte(raw), sess); err != nil {
			return nil, fmt.Errorf("unmarshal session %s failed: %w", id, err)
		}
		sessions = append(sessions, sess)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// CreateSession creates a new session for a user.
func (s *Service) CreateSession(ctx context.Context, userKey session.UserKey) (*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	now := s.opts.now()
	sess := &session.Session{
		ID:        s.opts.idGenerator(),
		AppName:   userKey.AppName,
		UserID:    userKey.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	bytes, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session failed: %w", err)
	}

	key := getSessionKey(userKey)
	pipe := s.redisClient.TxPipeline()
	pipe.HSet(ctx, key, sess.ID, bytes)
	if s.opts.sessionTTL > 0 {
		pipe.Expire(ctx, key, s.opts.sessionTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("store session failed: %w", err)
	}
	return sess, nil
}

// DeleteSession deletes a session.
func (s *Service) DeleteSession(ctx context.Context, key session.Key) error {
	if err := key.CheckSessionKey(); err != nil {
		return err
	}
	userKey := key.User()
	n, err := s.redisClient.HDel(ctx, getSessionKey(userKey), key.SessionID).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("delete session failed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, key.SessionID)
	}
	return nil
}

// Close closes the redis client.
func (s *Service) Close() error {
	return s.redisClient.Close()
}

func getSessionKey(key session.UserKey) string {
	return fmt.Sprintf("sess:{%s}:%s", key.AppName, key.UserID)
}
