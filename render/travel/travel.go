//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package travel renders the travel concierge agent and its sub-agents.
package travel

import (
	"fmt"
	"net/url"
	"regexp"

	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
	"trpc.group/trpc-go/trpc-workspace-agent-go/render"
)

// Tool and sub-agent names of the travel concierge.
const (
	InspirationAgent      = "inspiration_agent"
	PlaceAgent            = "place_agent"
	POIAgent              = "poi_agent"
	MapTool               = "map_tool"
	PlanningAgent         = "planning_agent"
	Memorize              = "memorize"
	GoogleSearchGrounding = "google_search_grounding"
)

var emojis = map[string]string{
	InspirationAgent: "ℹ️",
	PlaceAgent:       "📍",
	POIAgent:         "🗼",
	MapTool:          "🗺️",
	PlanningAgent:    "📅",
	Memorize:         "🧠",
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

var _ render.Renderer = (*Renderer)(nil)

// Renderer renders travel concierge results. Carousels are only produced
// for Chat, whose cards support them.
type Renderer struct {
	chat  bool
	debug bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithChat selects Chat rendering: markdown paragraphs and carousels.
func WithChat(chat bool) Option {
	return func(r *Renderer) { r.chat = chat }
}

// WithDebug renders every tool, including the memorize bookkeeping tool.
func WithDebug(debug bool) Option {
	return func(r *Renderer) { r.debug = debug }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AuthorEmoji implements render.Renderer.
func (r *Renderer) AuthorEmoji(author string) string {
	if e, ok := emojis[author]; ok {
		return e
	}
	return render.DefaultEmoji
}

// StatusWidgets implements render.Renderer.
func (r *Renderer) StatusWidgets(text, materialIcon string) []card.Widget {
	return render.StatusButton(text, materialIcon)
}

// IgnoredAuthors implements render.Renderer.
func (r *Renderer) IgnoredAuthors() []string {
	if r.debug {
		return nil
	}
	return []string{Memorize}
}

// ResponseWidgets implements render.Renderer.
func (r *Renderer) ResponseWidgets(tool string, response map[string]any) []card.Widget {
	log.Debugf("response from agent %s: %v", tool, response)
	switch tool {
	case POIAgent:
		if r.chat {
			return r.placeWidgets(objects(response["places"]))
		}
	case PlaceAgent:
		if r.chat {
			return r.destinationWidgets(objects(response["places"]))
		}
	case MapTool:
		if r.chat {
			return r.locationWidgets(objects(response["places"]))
		}
	case GoogleSearchGrounding:
		return sourceWidgets(str(response["result"]))
	case Memorize:
		return r.memorizeWidgets(str(response["status"]))
	}
	return nil
}

func (r *Renderer) text(text string) card.Widget {
	if r.chat {
		return card.Text(text, card.SyntaxMarkdown)
	}
	return card.Text(render.MarkdownToHTML(text), "")
}

func (r *Renderer) memorizeWidgets(status string) []card.Widget {
	if status == "" {
		return nil
	}
	return []card.Widget{r.text(status)}
}

func (r *Renderer) destinationWidgets(destinations []map[string]any) []card.Widget {
	if len(destinations) == 0 {
		return nil
	}
	cards := make([]card.CarouselCard, 0, len(destinations))
	for _, d := range destinations {
		var widgets []card.Widget
		if img := str(d["image"]); img != "" {
			widgets = append(widgets, card.Widget{Image: &card.Image{ImageURL: img}})
		}
		widgets = append(widgets, r.text(fmt.Sprintf("**%s, %s**", strOr(d["name"], "Unknown"), strOr(d["country"], "Unknown"))))
		cards = append(cards, card.CarouselCard{Widgets: widgets})
	}
	return []card.Widget{{Carousel: &card.Carousel{CarouselCards: cards}}}
}

func (r *Renderer) placeWidgets(places []map[string]any) []card.Widget {
	if len(places) == 0 {
		return nil
	}
	cards := make([]card.CarouselCard, 0, len(places))
	for _, p := range places {
		var widgets []card.Widget
		if img := str(p["image_url"]); img != "" {
			widgets = append(widgets, card.Widget{Image: &card.Image{ImageURL: img}})
		}
		widgets = append(widgets, r.text(fmt.Sprintf("**%s**", str(p["place_name"]))))
		cards = append(cards, card.CarouselCard{Widgets: widgets})
	}
	return []card.Widget{{Carousel: &card.Carousel{CarouselCards: cards}}}
}

func (r *Renderer) locationWidgets(places []map[string]any) []card.Widget {
	if len(places) == 0 {
		return nil
	}
	cards := make([]card.CarouselCard, 0, len(places))
	for _, p := range places {
		name := str(p["place_name"])
		mapsURL := fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s,%s",
			url.QueryEscape(name), url.QueryEscape(str(p["address"])))
		cards = append(cards, card.CarouselCard{
			Widgets:       []card.Widget{r.text(fmt.Sprintf("**%s**", name))},
			FooterWidgets: []card.Widget{card.Buttons(card.LinkButton("Open Maps", mapsURL))},
		})
	}
	return []card.Widget{{Carousel: &card.Carousel{CarouselCards: cards}}}
}

func sourceWidgets(text string) []card.Widget {
	urls := urlPattern.FindAllString(text, -1)
	if len(urls) == 0 {
		return nil
	}
	buttons := make([]card.Button, 0, len(urls))
	for _, u := range urls {
		label := u
		if parsed, err := url.Parse(u); err == nil && parsed.Host != "" {
			label = parsed.Host
		}
		buttons = append(buttons, card.LinkButton(label, u))
	}
	return []card.Widget{card.Buttons(buttons...)}
}

func objects(v any) []map[string]any {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func strOr(v any, fallback string) string {
	if s := str(v); s != "" {
		return s
	}
	return fallback
}
