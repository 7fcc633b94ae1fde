//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package render decides how agent activity looks on Workspace surfaces.
package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
)

// Defaults of the in-progress status widget.
const (
	DefaultStatusText = "In progress..."
	DefaultStatusIcon = "progress_activity"

	// DefaultEmoji is shown for authors without a dedicated emoji.
	DefaultEmoji = "🤖"
)

// Renderer maps agent authors and tool results to card widgets.
type Renderer interface {
	// AuthorEmoji returns the emoji shown next to author.
	AuthorEmoji(author string) string
	// StatusWidgets returns the widgets shown while a tool call is running.
	StatusWidgets(text, materialIcon string) []card.Widget
	// ResponseWidgets returns the widgets describing a completed tool call.
	ResponseWidgets(tool string, response map[string]any) []card.Widget
	// IgnoredAuthors lists tool names whose calls are never rendered.
	IgnoredAuthors() []string
}

// Basic renders every author with the default emoji and tool results
// without widgets.
type Basic struct{}

var _ Renderer = Basic{}

// AuthorEmoji implements Renderer.
func (Basic) AuthorEmoji(string) string { return DefaultEmoji }

// StatusWidgets implements Renderer.
func (Basic) StatusWidgets(text, materialIcon string) []card.Widget {
	return StatusButton(text, materialIcon)
}

// ResponseWidgets implements Renderer.
func (Basic) ResponseWidgets(string, map[string]any) []card.Widget { return nil }

// IgnoredAuthors implements Renderer.
func (Basic) IgnoredAuthors() []string { return nil }

// StatusButton returns a disabled button list showing text and a material
// icon. Empty arguments fall back to the defaults.
func StatusButton(text, materialIcon string) []card.Widget {
	if text == "" {
		text = DefaultStatusText
	}
	if materialIcon == "" {
		materialIcon = DefaultStatusIcon
	}
	return []card.Widget{card.Buttons(card.Button{
		Text:     text,
		Icon:     &card.Icon{MaterialIcon: &card.MaterialIcon{Name: materialIcon}},
		OnClick:  &card.OnClick{OpenLink: &card.OpenLink{URL: "https://google.com"}},
		Disabled: true,
	})}
}

// ReadableName turns a snake_case agent or tool name into Title Case words.
func ReadableName(name string) string {
	// Casers keep state and must not be shared between goroutines.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

var md = goldmark.New()

// MarkdownToHTML renders markdown to HTML for surfaces without markdown
// support. Input that fails to render is returned unchanged.
func MarkdownToHTML(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return strings.TrimRight(buf.String(), "\n")
}
