//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package chat provides the Google Chat message types and REST client.
package chat

import "trpc.group/trpc-go/trpc-workspace-agent-go/card"

// Message is a Google Chat message.
type Message struct {
	Name             string            `json:"name,omitempty"`
	Text             string            `json:"text,omitempty"`
	ArgumentText     string            `json:"argumentText,omitempty"`
	CardsV2          []card.CardWithID `json:"cardsV2,omitempty"`
	AccessoryWidgets []card.Widget     `json:"accessoryWidgets,omitempty"`
	Attachment       []Attachment      `json:"attachment,omitempty"`
	Sender           *User             `json:"sender,omitempty"`
	Space            *Space            `json:"space,omitempty"`
}

// Attachment is a file attached to a message.
type Attachment struct {
	Name              string             `json:"name,omitempty"`
	ContentName       string             `json:"contentName,omitempty"`
	ContentType       string             `json:"contentType,omitempty"`
	AttachmentDataRef *AttachmentDataRef `json:"attachmentDataRef,omitempty"`
}

// AttachmentDataRef references the uploaded attachment bytes.
type AttachmentDataRef struct {
	ResourceName string `json:"resourceName,omitempty"`
}

// Space is a Chat space or direct message.
type Space struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// User is a Chat user.
type User struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}
