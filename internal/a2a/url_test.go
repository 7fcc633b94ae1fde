//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package a2a

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseURL(t *testing.T) {
	tests := map[string]string{
		"":                                "",
		"   ":                             "",
		"http://example.com":              "http://example.com",
		"https://example.com/":            "https://example.com",
		"https://agent.example.com/api//": "https://agent.example.com/api",
		"grpc://service:9090":             "grpc://service:9090",
		"localhost:8080":                  "http://localhost:8080",
		" localhost:8080/ ":               "http://localhost:8080",
		"10.0.0.1:8000":                   "http://10.0.0.1:8000",
		"agent.internal":                  "http://agent.internal",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseURL(in), "input %q", in)
	}
}
