//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package addon provides the HTTP endpoint of a Google Workspace add-on
// backed by a remote agent.
package addon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
	"trpc.group/trpc-go/trpc-workspace-agent-go/chat"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
	"trpc.group/trpc-go/trpc-workspace-agent-go/runner"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink/cardsink"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink/chatsink"
)

// Texts shown by the add-on.
const (
	ResetChatText  = "OK, let's start from the beginning, what can I help you with?"
	ResetCardText  = "Alright, let's start from the beginning."
	EmptyInputText = "No answer because the message you sent was empty 😥"

	// MessagePrefix introduces the form message sent to the agent.
	MessagePrefix = "USER MESSAGE TO ANSWER: "

	spacesPrefix  = "spaces/"
	chatIconURL   = "https://www.gstatic.com/images/branding/productlogos/chat_2023q4/v2/192px.svg"
	maxEventBytes = 10 << 20
)

const unknownActionText = "Error: Unknown action"

// Server handles add-on events.
type Server struct {
	runner *runner.Runner
	store  *session.Store
	router *mux.Router

	chatSvc        chat.MessageService
	dmFinder       chat.DirectMessageFinder
	renderers      RendererFactory
	pool           *ants.Pool
	baseURL        string
	resetCommandID int
}

// New creates a Server running turns with r and resetting sessions in store.
func New(r *runner.Runner, store *session.Store, opts ...Option) *Server {
	s := &Server{
		runner:         r,
		store:          store,
		router:         mux.NewRouter(),
		renderers:      defaultRenderers,
		resetCommandID: DefaultResetCommandID,
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/", s.handleEvent).Methods(http.MethodPost)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		http.Error(w, "read event: "+err.Error(), http.StatusBadRequest)
		return
	}
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		http.Error(w, "decode event: "+err.Error(), http.StatusBadRequest)
		return
	}
	logEvent(body)

	switch {
	case ev.Chat != nil:
		s.handleChat(w, r, ev.Chat)
	case ev.AuthorizationEventObject != nil:
		s.handleHostApp(w, r, &ev)
	default:
		http.Error(w, unknownActionText, http.StatusBadRequest)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, ev *ChatEvent) {
	if ev.User == nil || ev.User.Name == "" {
		http.Error(w, "chat event without user", http.StatusBadRequest)
		return
	}
	user := ev.User.Name

	switch {
	case ev.MessagePayload != nil:
		p := ev.MessagePayload
		if p.Space == nil || p.Message == nil {
			http.Error(w, "message payload without space or message", http.StatusBadRequest)
			return
		}
		if s.chatSvc == nil {
			http.Error(w, "chat service not configured", http.StatusInternalServerError)
			return
		}
		sk := chatsink.New(s.chatSvc, p.Space.Name, s.renderers(true))
		s.runChatTurn(r.Context(), user, p.Message, sk)
		s.writeJSON(w, struct{}{})
	case ev.AppCommandPayload != nil:
		if ev.AppCommandPayload.AppCommandMetadata.AppCommandID != s.resetCommandID {
			log.Infof("ignoring command %d of %s", ev.AppCommandPayload.AppCommandMetadata.AppCommandID, user)
			s.writeJSON(w, struct{}{})
			return
		}
		if err := s.store.Delete(r.Context(), user); err != nil {
			log.Errorf("reset session of %s: %v", user, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var resp DataActionResponse
		resp.HostAppDataAction.ChatDataAction.CreateMessageAction.Message = chat.Message{Text: ResetChatText}
		s.writeJSON(w, resp)
	default:
		http.Error(w, unknownActionText, http.StatusBadRequest)
	}
}

// runChatTurn runs the turn on the pool when one is configured. Turns are
// never cancelled once started, so they run on a context detached from the
// request: Chat drops slow requests and the sink posts over REST anyway.
func (s *Server) runChatTurn(ctx context.Context, user string, msg *chat.Message, sk *chatsink.Sink) {
	detached := context.WithoutCancel(ctx)
	run := func() {
		res := s.runner.RunTurn(detached, user, msg, sk)
		log.Infof("chat turn of %s in %s: %s after %d attempts", user, sk.Space(), res.Outcome, res.Attempts)
	}
	if s.pool == nil {
		run()
		return
	}
	if err := s.pool.Submit(run); err != nil {
		log.Warnf("turn pool unavailable, running inline: %v", err)
		run()
	}
}

func (s *Server) handleHostApp(w http.ResponseWriter, r *http.Request, ev *Event) {
	user, err := userFromIDToken(ev.AuthorizationEventObject.UserIDToken)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Debugf("user found: %s", user)
	ctx := r.Context()
	query := r.URL.Query()

	var top []card.Widget
	reset := query.Has("reset")
	if reset {
		if err := s.store.Delete(ctx, user); err != nil {
			log.Errorf("reset session of %s: %v", user, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		top = append(top, card.Text(ResetCardText, ""))
	}

	var answers []card.Section
	send := query.Has("send")
	if send {
		answers = []card.Section{{Widgets: []card.Widget{card.Text(EmptyInputText, "")}}}
		if msg := ev.CommonEventObject.stringInput("message"); strings.TrimSpace(msg) != "" {
			sk := cardsink.New(s.renderers(false))
			res := s.runner.RunTurn(ctx, user, MessagePrefix+msg, sk)
			log.Infof("card turn of %s: %s after %d attempts", user, res.Outcome, res.Attempts)
			if sk.Len() > 0 {
				answers = sk.Sections()
			}
		}
	}

	c := s.buildCard(ctx, r, user, top, answers)
	if reset || send {
		s.writeJSON(w, ActionResponse{Action: Action{Navigations: []Navigation{{UpdateCard: c}}}})
		return
	}
	s.writeJSON(w, c)
}

func (s *Server) buildCard(ctx context.Context, r *http.Request, user string, top []card.Widget, answers []card.Section) *card.Card {
	base := s.baseURL
	if base == "" {
		base = requestURL(r)
	}

	widgets := append(top,
		card.Widget{TextInput: &card.TextInput{Name: "message", Label: "Message", Type: card.InputMultipleLine}},
		decoratedButton(card.Button{
			Text:    "Send",
			Type:    card.ButtonFilled,
			Icon:    &card.Icon{MaterialIcon: &card.MaterialIcon{Name: "send"}},
			OnClick: &card.OnClick{Action: &card.Action{Function: actionURL(base, "send=true")}},
		}),
		decoratedButton(card.Button{
			Text:    "Reset session",
			Type:    card.ButtonOutlined,
			Icon:    &card.Icon{MaterialIcon: &card.MaterialIcon{Name: "cleaning_services"}},
			OnClick: &card.OnClick{Action: &card.Action{Function: actionURL(base, "reset=true")}},
		}),
	)
	if space := s.directMessage(ctx, user); space != "" {
		b := card.LinkButton("Open Chat", "https://chat.google.com/dm/"+strings.TrimPrefix(space, spacesPrefix))
		b.Type = card.ButtonOutlined
		b.Icon = &card.Icon{IconURL: chatIconURL}
		widgets = append(widgets, decoratedButton(b))
	}
	return &card.Card{Sections: append([]card.Section{{Widgets: widgets}}, answers...)}
}

func (s *Server) directMessage(ctx context.Context, user string) string {
	if s.dmFinder == nil {
		return ""
	}
	space, err := s.dmFinder.FindDirectMessage(ctx, user)
	if err != nil {
		log.Warnf("find direct message of %s: %v", user, err)
		return ""
	}
	return space
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("write response: %v", err)
	}
}

// userFromIDToken returns the Chat user named by the subject of an add-on
// user id token. The signature is not verified.
func userFromIDToken(token string) (string, error) {
	if token == "" {
		return "", errors.New("missing user id token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("parse user id token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("user id token without subject")
	}
	return session.UsersPrefix + sub, nil
}

func decoratedButton(b card.Button) card.Widget {
	return card.Widget{DecoratedText: &card.DecoratedText{Button: &b}}
}

func requestURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && !strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.URL.Path
}

// logEvent logs the raw event at debug level without its tokens.
func logEvent(body []byte) {
	if !log.Enabled(log.LevelDebug) {
		return
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return
	}
	delete(raw, "authorizationEventObject")
	log.Debugf("event received: %v", raw)
}
