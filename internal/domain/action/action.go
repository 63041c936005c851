// Package action parses card submit payloads into typed variants.
package action

import (
	"encoding/json"
	"strings"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

// Kind discriminates the payload variants.
type Kind string

const (
	KindRespond        Kind = "Respond"
	KindAddRespond     Kind = "AddRespond"
	KindUpdateResponse Kind = "UpdateResponse"
	KindAskAnExpert    Kind = "AskAnExpert"
	KindShareFeedback  Kind = "ShareFeedback"
	KindChangeLanguage Kind = "ChangeLanguage"
)

// Values of the add/append choice on the expert card.
const (
	ChoiceAddToKnowledgeBase    = "Add"
	ChoiceAppendToKnowledgeBase = "Append"
)

// Payload is one parsed submit action.
type Payload interface {
	Kind() Kind
}

// TicketResponse is submitted by an expert from the ticket card.
type TicketResponse struct {
	Action            Kind   `json:"action"`
	TicketID          string `json:"ticketId"`
	Answer            string `json:"answer,omitempty"`
	AnswerForRespond  string `json:"answerForRespond,omitempty"`
	AddorAppendAction string `json:"addorAppendAction,omitempty"`
}

func (p *TicketResponse) Kind() Kind { return p.Action }

// ResponseText is the answer typed by the expert for the chosen action.
func (p *TicketResponse) ResponseText() string {
	if p.Action == KindRespond {
		return strings.TrimSpace(p.AnswerForRespond)
	}
	return strings.TrimSpace(p.Answer)
}

// WritesToKnowledgeBase reports whether the expert asked to add or append the answer to the knowledge base.
// UpdateResponse always rewrites the knowledge base pair.
func (p *TicketResponse) WritesToKnowledgeBase() bool {
	if p.Action == KindUpdateResponse {
		return true
	}
	for _, choice := range strings.Split(p.AddorAppendAction, ",") {
		switch strings.TrimSpace(choice) {
		case ChoiceAddToKnowledgeBase, ChoiceAppendToKnowledgeBase:
			return true
		}
	}
	return false
}

// AskAnExpert is sent both by the response card button, which asks for the
// escalation form, and by the form itself. Submitted is set only by the form.
type AskAnExpert struct {
	Submitted             bool   `json:"submitted,omitempty"`
	Title                 string `json:"title"`
	Description           string `json:"description"`
	UserQuestion          string `json:"userQuestion"`
	KnowledgeBaseAnswer   string `json:"knowledgeBaseAnswer"`
	KnowledgeBaseQuestion string `json:"knowledgeBaseQuestion"`
}

func (p *AskAnExpert) Kind() Kind { return KindAskAnExpert }

// Rating is the user's verdict on a bot answer.
type Rating string

const (
	RatingHelpful          Rating = "Helpful"
	RatingNeedsImprovement Rating = "NeedsImprovement"
	RatingNotHelpful       Rating = "NotHelpful"
)

// ParseRating accepts the rating names case-insensitively.
func ParseRating(s string) (Rating, bool) {
	for _, r := range []Rating{RatingHelpful, RatingNeedsImprovement, RatingNotHelpful} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

// ShareFeedback is submitted by a user rating an answer. Like AskAnExpert,
// Submitted tells the filled form apart from the button that opens it.
type ShareFeedback struct {
	Submitted             bool   `json:"submitted,omitempty"`
	Rating                string `json:"rating"`
	Description           string `json:"description"`
	UserQuestion          string `json:"userQuestion"`
	KnowledgeBaseAnswer   string `json:"knowledgeBaseAnswer"`
	KnowledgeBaseQuestion string `json:"knowledgeBaseQuestion,omitempty"`
	TicketID              string `json:"ticketId,omitempty"`
}

func (p *ShareFeedback) Kind() Kind { return KindShareFeedback }

// ChangeLanguage is submitted from the language selection card.
type ChangeLanguage struct {
	LanguageCode string `json:"languageCode"`
}

func (p *ChangeLanguage) Kind() Kind { return KindChangeLanguage }

type envelope struct {
	Action Kind `json:"action"`
	MSTeams struct {
		Text string `json:"text"`
	} `json:"msteams"`
}

// Parse decodes a submit payload once into its typed variant. The
// discriminator is the "action" field, falling back to msteams.text.
func Parse(raw json.RawMessage) (Payload, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.NewValidationError("malformed action payload", err.Error())
	}

	kind := env.Action
	if kind == "" {
		kind = Kind(strings.ReplaceAll(strings.TrimSpace(env.MSTeams.Text), " ", ""))
	}

	var p Payload
	switch strings.ToLower(string(kind)) {
	case strings.ToLower(string(KindRespond)), strings.ToLower(string(KindAddRespond)), strings.ToLower(string(KindUpdateResponse)):
		tr := &TicketResponse{}
		if err := json.Unmarshal(raw, tr); err != nil {
			return nil, errors.NewValidationError("malformed ticket response", err.Error())
		}
		tr.Action = canonicalKind(kind)
		p = tr
	case strings.ToLower(string(KindAskAnExpert)):
		p = &AskAnExpert{}
	case strings.ToLower(string(KindShareFeedback)):
		p = &ShareFeedback{}
	case strings.ToLower(string(KindChangeLanguage)):
		p = &ChangeLanguage{}
	default:
		return nil, errors.NewValidationError("unknown action", string(kind))
	}

	if _, ok := p.(*TicketResponse); !ok {
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, errors.NewValidationError("malformed action payload", err.Error())
		}
	}
	return p, nil
}

func canonicalKind(k Kind) Kind {
	for _, known := range []Kind{KindRespond, KindAddRespond, KindUpdateResponse} {
		if strings.EqualFold(string(k), string(known)) {
			return known
		}
	}
	return k
}
