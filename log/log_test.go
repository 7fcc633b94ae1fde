//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	cases := []struct {
		in       string
		expected zapcore.Level
	}{
		{LevelDebug, zapcore.DebugLevel},
		{LevelInfo, zapcore.InfoLevel},
		{LevelWarn, zapcore.WarnLevel},
		{LevelError, zapcore.ErrorLevel},
		{LevelFatal, zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
	}
	for _, c := range cases {
		SetLevel(c.in)
		assert.Equal(t, c.expected, zapLevel.Level(), "SetLevel(%q)", c.in)
	}
}

func TestEnabled(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel(LevelWarn)
	assert.False(t, Enabled(LevelDebug))
	assert.False(t, Enabled(LevelInfo))
	assert.True(t, Enabled(LevelWarn))
	assert.True(t, Enabled(LevelError))

	SetLevel(LevelDebug)
	assert.True(t, Enabled(LevelDebug))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newZapLogger(&buf, FormatJSON)
	l.Warnf("turn of %s", "users/1")
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARNING", entry["severity"])
	assert.Equal(t, "turn of users/1", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newZapLogger(&buf, "unknown")
	l.Infof("hello %d", 1)
	require.NoError(t, l.Sync())
	assert.Contains(t, buf.String(), "hello 1")
	assert.NotContains(t, buf.String(), "{")
}

func TestPackageFunctionsForwardToDefault(t *testing.T) {
	rec := &recordingLogger{}
	old := Default
	Default = rec
	defer func() { Default = old }()

	Debugf("d %d", 1)
	Infof("i %d", 2)
	Warnf("w %d", 3)
	Errorf("e %d", 4)

	assert.Equal(t, []string{"d %d", "i %d", "w %d", "e %d"}, rec.calls)
}

func TestSetFormat(t *testing.T) {
	old := Default
	defer func() { Default = old }()

	SetFormat(FormatJSON)
	assert.NotSame(t, old, Default)
}

// recordingLogger captures the format of every call.
type recordingLogger struct {
	calls []string
}

func (r *recordingLogger) Debugf(format string, _ ...any) { r.calls = append(r.calls, format) }
func (r *recordingLogger) Infof(format string, _ ...any)  { r.calls = append(r.calls, format) }
func (r *recordingLogger) Warnf(format string, _ ...any)  { r.calls = append(r.calls, format) }
func (r *recordingLogger) Errorf(format string, _ ...any) { r.calls = append(r.calls, format) }
func (r *recordingLogger) Fatalf(format string, _ ...any) { r.calls = append(r.calls, format) }
