//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

// Package card provides the subset of the Google Workspace card schema
// emitted by the add-on handlers.
package card

// Text syntaxes of a TextParagraph.
const (
	SyntaxMarkdown = "MARKDOWN"
	SyntaxHTML     = "HTML"
)

// Button types.
const (
	ButtonFilled   = "FILLED"
	ButtonOutlined = "OUTLINED"
)

// TextInput types.
const (
	InputSingleLine   = "SINGLE_LINE"
	InputMultipleLine = "MULTIPLE_LINE"
)

// Widget is one element of a card section. Exactly one field is set.
type Widget struct {
	TextParagraph *TextParagraph `json:"textParagraph,omitempty"`
	ButtonList    *ButtonList    `json:"buttonList,omitempty"`
	Image         *Image         `json:"image,omitempty"`
	Carousel      *Carousel      `json:"carousel,omitempty"`
	TextInput     *TextInput     `json:"textInput,omitempty"`
	DecoratedText *DecoratedText `json:"decoratedText,omitempty"`
}

// TextParagraph is a paragraph of formatted text.
type TextParagraph struct {
	Text       string `json:"text"`
	TextSyntax string `json:"textSyntax,omitempty"`
}

// ButtonList is a row of buttons.
type ButtonList struct {
	Buttons []Button `json:"buttons"`
}

// Button is a clickable button.
type Button struct {
	Text     string   `json:"text,omitempty"`
	Icon     *Icon    `json:"icon,omitempty"`
	Type     string   `json:"type,omitempty"`
	OnClick  *OnClick `json:"onClick,omitempty"`
	Disabled bool     `json:"disabled,omitempty"`
}

// Icon is a built-in or material icon.
type Icon struct {
	MaterialIcon *MaterialIcon `json:"materialIcon,omitempty"`
	IconURL      string        `json:"iconUrl,omitempty"`
}

// MaterialIcon names a Google Material icon.
type MaterialIcon struct {
	Name string `json:"name"`
}

// OnClick is the click behaviour of a widget.
type OnClick struct {
	OpenLink *OpenLink `json:"openLink,omitempty"`
	Action   *Action   `json:"action,omitempty"`
}

// OpenLink opens a URL.
type OpenLink struct {
	URL string `json:"url"`
}

// Action calls back the add-on.
type Action struct {
	Function string `json:"function"`
}

// Image is an image widget.
type Image struct {
	ImageURL string   `json:"imageUrl"`
	AltText  string   `json:"altText,omitempty"`
	OnClick  *OnClick `json:"onClick,omitempty"`
}

// Carousel is a horizontally scrolling list of nested cards.
type Carousel struct {
	CarouselCards []CarouselCard `json:"carouselCards"`
}

// CarouselCard is one entry of a Carousel.
type CarouselCard struct {
	Widgets       []Widget `json:"widgets,omitempty"`
	FooterWidgets []Widget `json:"footerWidgets,omitempty"`
}

// TextInput is a text field.
type TextInput struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

// DecoratedText is text with optional labels and a trailing button.
type DecoratedText struct {
	TopLabel    string  `json:"topLabel,omitempty"`
	Text        string  `json:"text,omitempty"`
	BottomLabel string  `json:"bottomLabel,omitempty"`
	WrapText    bool    `json:"wrapText,omitempty"`
	Button      *Button `json:"button,omitempty"`
}

// Section is a titled group of widgets.
type Section struct {
	Header      string   `json:"header,omitempty"`
	Collapsible bool     `json:"collapsible,omitempty"`
	Widgets     []Widget `json:"widgets"`
}

// Header is the header of a card.
type Header struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Card is a card made of sections.
type Card struct {
	Header   *Header   `json:"header,omitempty"`
	Sections []Section `json:"sections"`
}

// CardWithID is a card addressable within a message.
type CardWithID struct {
	CardID string `json:"cardId,omitempty"`
	Card   Card   `json:"card"`
}

// Text returns a widget holding a paragraph with the given syntax.
func Text(text, syntax string) Widget {
	return Widget{TextParagraph: &TextParagraph{Text: text, TextSyntax: syntax}}
}

// LinkButton returns a button opening url.
func LinkButton(text, url string) Button {
	return Button{Text: text, OnClick: &OnClick{OpenLink: &OpenLink{URL: url}}}
}

// ActionButton returns a button calling back function.
func ActionButton(text, function, typ string) Button {
	return Button{Text: text, Type: typ, OnClick: &OnClick{Action: &Action{Function: function}}}
}

// Buttons returns a widget holding a button list.
func Buttons(buttons ...Button) Widget {
	return Widget{ButtonList: &ButtonList{Buttons: buttons}}
}
