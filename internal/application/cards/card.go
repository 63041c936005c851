// Package cards builds the Adaptive Cards the bot sends. Builders are pure:
// the caller supplies the clock and the viewer's time zone.
package cards

import (
	"time"

	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
)

const (
	ContentType          = "application/vnd.microsoft.card.adaptive"
	ThumbnailContentType = "application/vnd.microsoft.card.thumbnail"

	cardType    = "AdaptiveCard"
	cardSchema  = "http://adaptivecards.io/schemas/adaptive-card.json"
	cardVersion = "1.2"
)

// UIContext carries what a builder needs about the viewer and the app.
type UIContext struct {
	// LocalOffset is the viewer's UTC offset; nil renders dates in UTC.
	LocalOffset   *time.Duration
	AppBaseURI    string
	ManifestAppID string
	Now           time.Time
}

// Card is an Adaptive Card document.
type Card struct {
	Type    string    `json:"type"`
	Schema  string    `json:"$schema,omitempty"`
	Version string    `json:"version"`
	Body    []Element `json:"body,omitempty"`
	Actions []Action  `json:"actions,omitempty"`
}

// Element covers the body elements used by the bot. Fields that do not
// apply to an element type stay empty and are omitted.
type Element struct {
	Type                string    `json:"type"`
	ID                  string    `json:"id,omitempty"`
	Text                string    `json:"text,omitempty"`
	Wrap                bool      `json:"wrap,omitempty"`
	Weight              string    `json:"weight,omitempty"`
	Size                string    `json:"size,omitempty"`
	Color               string    `json:"color,omitempty"`
	IsSubtle            bool      `json:"isSubtle,omitempty"`
	MaxLines            int       `json:"maxLines,omitempty"`
	HorizontalAlignment string    `json:"horizontalAlignment,omitempty"`
	Spacing             string    `json:"spacing,omitempty"`
	Placeholder         string    `json:"placeholder,omitempty"`
	IsMultiline         bool      `json:"isMultiline,omitempty"`
	MaxLength           int       `json:"maxLength,omitempty"`
	Value               string    `json:"value,omitempty"`
	Style               string    `json:"style,omitempty"`
	IsMultiSelect       bool      `json:"isMultiSelect,omitempty"`
	Choices             []Choice  `json:"choices,omitempty"`
	Facts               []Fact    `json:"facts,omitempty"`
	Columns             []Element `json:"columns,omitempty"`
	Items               []Element `json:"items,omitempty"`
	Width               string    `json:"width,omitempty"`
	URL                 string    `json:"url,omitempty"`
	AltText             string    `json:"altText,omitempty"`
	PixelWidth          string    `json:"pixelWidth,omitempty"`
}

type Choice struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type Fact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Action is a card button.
type Action struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Data  any    `json:"data,omitempty"`
	Card  *Card  `json:"card,omitempty"`
}

// TeamsMessageBack makes a submit action post a visible message in the chat.
type TeamsMessageBack struct {
	Type        string `json:"type"`
	DisplayText string `json:"displayText,omitempty"`
	Text        string `json:"text"`
}

func newCard(body []Element, actions ...Action) Card {
	return Card{
		Type:    cardType,
		Schema:  cardSchema,
		Version: cardVersion,
		Body:    body,
		Actions: actions,
	}
}

// ToAttachment wraps a card for an outgoing activity.
func ToAttachment(c Card) botframework.Attachment {
	return botframework.Attachment{ContentType: ContentType, Content: c}
}

func textBlock(text string) Element {
	return Element{Type: "TextBlock", Text: text, Wrap: true}
}

func heading(text string) Element {
	return Element{Type: "TextBlock", Text: text, Wrap: true, Weight: "Bolder", Size: "Large"}
}

func errorText(show bool, text string) Element {
	if !show {
		text = ""
	}
	return Element{Type: "TextBlock", Text: text, Wrap: true, Color: "Attention", Spacing: "None"}
}

func textInput(id, placeholder, value string, multiline bool, maxLength int) Element {
	return Element{
		Type:        "Input.Text",
		ID:          id,
		Placeholder: placeholder,
		Value:       value,
		IsMultiline: multiline,
		MaxLength:   maxLength,
	}
}

func factSet(facts ...Fact) Element {
	return Element{Type: "FactSet", Facts: facts}
}

func submit(title string, data any) Action {
	return Action{Type: "Action.Submit", Title: title, Data: data}
}

func openURL(title, url string) Action {
	return Action{Type: "Action.OpenUrl", Title: title, URL: url}
}

func showCard(title string, card Card) Action {
	return Action{Type: "Action.ShowCard", Title: title, Card: &card}
}
