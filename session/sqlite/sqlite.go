//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package sqlite provides a persistent session backend on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
)

var _ session.Backend = (*SessionService)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	app_name   TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	session_id TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (app_name, user_id, session_id)
)`

// SessionService stores the user to session index in a SQLite database.
type SessionService struct {
	db          *sql.DB
	idGenerator func() string
	now         func() time.Time
}

// Option configures a SessionService.
type Option func(*SessionService)

// WithIDGenerator overrides the uuid based session id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *SessionService) {
		if gen != nil {
			s.idGenerator = gen
		}
	}
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SessionService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSessionService opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway database.
func NewSessionService(path string, opts ...Option) (*SessionService, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers and keeps ":memory:" databases
	// shared across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	s := &SessionService{
		db:          db,
		idGenerator: func() string { return uuid.New().String() },
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListSessions lists the sessions of a user, oldest first.
func (s *SessionService) ListSessions(ctx context.Context, userKey session.UserKey) ([]*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, created_at, updated_at FROM sessions
		 WHERE app_name = ? AND user_id = ?
		 ORDER BY created_at, rowid`,
		userKey.AppName, userKey.UserID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	sessions := []*session.Session{}
	for rows.Next() {
		var (
			id               string
			created, updated int64
		)
		if err := rows.Scan(&id, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		sessions = append(sessions, &session.Session{
			ID:        id,
			AppName:   userKey.AppName,
			UserID:    userKey.UserID,
			CreatedAt: time.Unix(0, created).UTC(),
			UpdatedAt: time.Unix(0, updated).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return sessions, nil
}

// CreateSession creates a new session for a user.
func (s *SessionService) CreateSession(ctx context.Context, userKey session.UserKey) (*session.Session, error) {
	if err := userKey.CheckUserKey(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &session.Session{
		ID:        s.idGenerator(),
		AppName:   userKey.AppName,
		UserID:    userKey.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (app_name, user_id, session_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.AppName, sess.UserID, sess.ID, now.UnixNano(), now.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return sess, nil
}

// DeleteSession deletes a session.
func (s *SessionService) DeleteSession(ctx context.Context, key session.Key) error {
	if err := key.CheckSessionKey(); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE app_name = ? AND user_id = ? AND session_id = ?`,
		key.AppName, key.UserID, key.SessionID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", session.ErrSessionNotFound, key.SessionID)
	}
	return nil
}

// Close closes the underlying database.
func (s *SessionService) Close() error {
	return s.db.Close()
}
