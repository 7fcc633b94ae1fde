//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package addon

import (
	"trpc.group/trpc-go/trpc-workspace-agent-go/card"
	"trpc.group/trpc-go/trpc-workspace-agent-go/chat"
)

// Event is a Google Workspace add-on event. Chat is set for Chat events;
// other host apps send the common and authorization objects.
type Event struct {
	Chat                     *ChatEvent                `json:"chat,omitempty"`
	CommonEventObject        *CommonEventObject        `json:"commonEventObject,omitempty"`
	AuthorizationEventObject *AuthorizationEventObject `json:"authorizationEventObject,omitempty"`
}

// ChatEvent is the Chat part of an add-on event.
type ChatEvent struct {
	User              *chat.User         `json:"user,omitempty"`
	MessagePayload    *MessagePayload    `json:"messagePayload,omitempty"`
	AppCommandPayload *AppCommandPayload `json:"appCommandPayload,omitempty"`
}

// MessagePayload is sent when a user messages the app.
type MessagePayload struct {
	Space   *chat.Space   `json:"space,omitempty"`
	Message *chat.Message `json:"message,omitempty"`
}

// AppCommandPayload is sent when a user runs a slash or quick command.
type AppCommandPayload struct {
	Space              *chat.Space        `json:"space,omitempty"`
	Message            *chat.Message      `json:"message,omitempty"`
	AppCommandMetadata AppCommandMetadata `json:"appCommandMetadata"`
}

// AppCommandMetadata identifies the command.
type AppCommandMetadata struct {
	AppCommandID   int    `json:"appCommandId"`
	AppCommandType string `json:"appCommandType,omitempty"`
}

// CommonEventObject carries the host app and form inputs.
type CommonEventObject struct {
	HostApp    string               `json:"hostApp,omitempty"`
	FormInputs map[string]FormInput `json:"formInputs,omitempty"`
}

// FormInput is the value of one form widget.
type FormInput struct {
	StringInputs *StringInputs `json:"stringInputs,omitempty"`
}

// StringInputs holds the values of a text or selection input.
type StringInputs struct {
	Value []string `json:"value"`
}

// AuthorizationEventObject carries the tokens of the user.
type AuthorizationEventObject struct {
	UserIDToken    string `json:"userIdToken,omitempty"`
	UserOAuthToken string `json:"userOAuthToken,omitempty"`
	SystemIDToken  string `json:"systemIdToken,omitempty"`
}

// stringInput returns the first value of the named form input.
func (c *CommonEventObject) stringInput(name string) string {
	if c == nil {
		return ""
	}
	in, ok := c.FormInputs[name]
	if !ok || in.StringInputs == nil || len(in.StringInputs.Value) == 0 {
		return ""
	}
	return in.StringInputs.Value[0]
}

// DataActionResponse answers a Chat event with a new message.
type DataActionResponse struct {
	HostAppDataAction HostAppDataAction `json:"hostAppDataAction"`
}

// HostAppDataAction is the Chat specific action.
type HostAppDataAction struct {
	ChatDataAction ChatDataAction `json:"chatDataAction"`
}

// ChatDataAction creates a message.
type ChatDataAction struct {
	CreateMessageAction CreateMessageAction `json:"createMessageAction"`
}

// CreateMessageAction holds the message to create.
type CreateMessageAction struct {
	Message chat.Message `json:"message"`
}

// ActionResponse replaces the displayed add-on card.
type ActionResponse struct {
	Action Action `json:"action"`
}

// Action lists card navigations.
type Action struct {
	Navigations []Navigation `json:"navigations"`
}

// Navigation updates the current card.
type Navigation struct {
	UpdateCard *card.Card `json:"updateCard,omitempty"`
}
