//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package a2a holds the wire conventions shared by the remote agent clients.
package a2a

import (
	"net/url"
	"strings"
)

// BaseURL prepares a configured agent address for path concatenation. A
// missing scheme defaults to http and trailing slashes are dropped.
//
//   - "localhost:8080/" -> "http://localhost:8080"
//   - "https://agent.example.com/api/" -> "https://agent.example.com/api"
func BaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/")
}
