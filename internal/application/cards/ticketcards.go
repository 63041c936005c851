package cards

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/faqplusplus/faqplusplus/internal/domain/action"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
)

var previewPolicy = bluemonday.StrictPolicy()

// StatusForExpert is the status line shown to the expert team.
func StatusForExpert(t *ticket.Ticket) string {
	if t.IsAnswered() {
		if t.AssignedToName() != "" {
			return fmt.Sprintf(textAnsweredByFormat, t.AssignedToName())
		}
		return textAnswered
	}
	return textUnanswered
}

// StatusForUser is the status line shown to the requester.
func StatusForUser(t *ticket.Ticket) string {
	if t.IsAnswered() {
		return textAnswered
	}
	return textUnanswered
}

// SMETicketCard is the card posted to the expert team for a ticket. payload
// carries what the expert typed when the card is re-rendered after a failed
// submit; showErrors marks the empty answer fields.
func SMETicketCard(t *ticket.Ticket, ui UIContext, payload *action.TicketResponse, showErrors bool) Card {
	if payload == nil {
		payload = &action.TicketResponse{}
	}

	statusColor := "Attention"
	if t.IsAnswered() {
		statusColor = "Good"
	}

	body := []Element{
		heading(fmt.Sprintf("%s: %s", t.TicketID(), t.Title())),
	}
	if t.KnowledgeBaseQuestion() != "" {
		body = append(body, textBlock(t.KnowledgeBaseQuestion()))
	} else {
		body = append(body, Element{
			Type: "ColumnSet",
			Columns: []Element{
				{Type: "Column", Width: "auto", Items: []Element{{Type: "Image", URL: infoIconURL(ui.AppBaseURI), AltText: "info", PixelWidth: "16px"}}},
				{Type: "Column", Width: "stretch", Items: []Element{{Type: "TextBlock", Text: textNoKnowledgeBaseMatch, Wrap: true, Color: "Attention"}}},
			},
		})
	}

	body = append(body,
		Element{Type: "TextBlock", Text: fmt.Sprintf("**%s:** %s", textStatus, StatusForExpert(t)), Wrap: true, Color: statusColor},
	)
	if t.Description() != "" {
		body = append(body, Element{Type: "TextBlock", Text: Truncate(t.Description(), DescriptionMaxDisplayLength), Wrap: true, MaxLines: 3, IsSubtle: true})
	}
	facts := []Fact{
		{Title: textAskedBy, Value: t.RequesterName()},
		{Title: textDate, Value: FormatDate(t.DateCreated(), ui.LocalOffset)},
	}
	if t.UserQuestion() != "" {
		facts = append(facts, Fact{Title: textQuestionAsked, Value: t.UserQuestion()})
	}
	body = append(body, factSet(facts...))
	if t.KnowledgeBaseAnswer() != "" {
		body = append(body,
			Element{Type: "TextBlock", Text: textExistingAnswer, Weight: "Bolder", Wrap: true},
			textBlock(Truncate(t.KnowledgeBaseAnswer(), KnowledgeBaseAnswerMaxDisplayLength)),
		)
	}
	if t.IsAnswered() {
		body = append(body,
			Element{Type: "TextBlock", Text: textAnswered, Weight: "Bolder", Wrap: true},
			textBlock(t.AnswerBySME()),
		)
	}

	var actions []Action
	if !t.IsAnswered() {
		actions = append(actions, showCard(textRespond, respondCard(t, payload, showErrors)))
	}
	if t.IsAnswered() || t.KnowledgeBaseAnswer() != "" {
		actions = append(actions, showCard(textUpdateExisting, updateCard(t, payload, showErrors)))
	}
	actions = append(actions, openURL(
		fmt.Sprintf(textChatWithFormat, firstName(t)),
		ChatLink(t.RequesterUserPrincipalName(), fmt.Sprintf(textChatMessageFormat, firstName(t), t.Title())),
	))

	return newCard(body, actions...)
}

// respondCard answers an unanswered ticket. Without a knowledge base answer
// the expert may add a new pair; otherwise they may append to the existing one.
func respondCard(t *ticket.Ticket, payload *action.TicketResponse, showErrors bool) Card {
	if t.KnowledgeBaseAnswer() == "" {
		return newCard([]Element{
			textInput("answer", textAnswerPlaceholder, payload.Answer, true, AnswerMaxLength),
			errorText(showErrors && strings.TrimSpace(payload.Answer) == "", textAnswerRequired),
			knowledgeBaseChoice(action.ChoiceAddToKnowledgeBase, textAddToKnowledgeBase),
		}, submit(textSendAnswer, map[string]any{
			"action":   action.KindAddRespond,
			"ticketId": t.TicketID(),
		}))
	}
	return newCard([]Element{
		textInput("answerForRespond", textAnswerPlaceholder, payload.AnswerForRespond, true, AnswerMaxLength),
		errorText(showErrors && strings.TrimSpace(payload.AnswerForRespond) == "", textAnswerRequired),
		knowledgeBaseChoice(action.ChoiceAppendToKnowledgeBase, textAppendToKnowledgeBase),
	}, submit(textSendAnswer, map[string]any{
		"action":   action.KindRespond,
		"ticketId": t.TicketID(),
	}))
}

func updateCard(t *ticket.Ticket, payload *action.TicketResponse, showErrors bool) Card {
	value := payload.Answer
	if value == "" {
		value = t.AnswerBySME()
	}
	return newCard([]Element{
		textInput("answer", textAnswerPlaceholder, value, true, AnswerMaxLength),
		errorText(showErrors && strings.TrimSpace(value) == "", textAnswerRequired),
		Element{Type: "TextBlock", Text: textUpdateWarning, Wrap: true, IsSubtle: true},
	}, submit(textSendAnswer, map[string]any{
		"action":   action.KindUpdateResponse,
		"ticketId": t.TicketID(),
	}))
}

func knowledgeBaseChoice(value, title string) Element {
	return Element{
		Type:          "Input.ChoiceSet",
		ID:            "addorAppendAction",
		Style:         "expanded",
		IsMultiSelect: true,
		Choices:       []Choice{{Title: title, Value: value}},
	}
}

func firstName(t *ticket.Ticket) string {
	if t.RequesterGivenName() != "" {
		return t.RequesterGivenName()
	}
	return t.RequesterName()
}

// UserNotificationCard tells the requester about their ticket. Once the
// ticket is answered it carries the expert's answer and a feedback button.
func UserNotificationCard(t *ticket.Ticket, message string, ui UIContext) Card {
	body := []Element{
		{Type: "TextBlock", Text: message, Wrap: true, Weight: "Bolder"},
	}
	if t.IsAnswered() {
		body = append(body,
			Element{Type: "TextBlock", Text: textExpertAnswerHeader, Wrap: true, Size: "Medium"},
			textBlock(t.AnswerBySME()),
		)
	}
	body = append(body, factSet(
		Fact{Title: textTicketID, Value: t.TicketID()},
		Fact{Title: textTitle, Value: t.Title()},
		Fact{Title: textStatus, Value: StatusForUser(t)},
		Fact{Title: textDateCreated, Value: FormatDate(t.DateCreated(), ui.LocalOffset)},
	))

	actions := []Action{openURL(textMyQuestions, MyQuestionsLink(ui.ManifestAppID, t.TicketID()))}
	if t.IsAnswered() {
		body = append(body, Element{Type: "TextBlock", Text: textExpertAnswerFooter, Wrap: true, IsSubtle: true})
		if t.AssignedToUserPrincipalName() != "" {
			actions = append(actions, openURL(
				fmt.Sprintf(textChatWithFormat, t.AssignedToName()),
				ChatLink(t.AssignedToUserPrincipalName(), ""),
			))
		}
		actions = append(actions, submit(textShareFeedbackButton, map[string]any{
			"action":       action.KindShareFeedback,
			"msteams":      TeamsMessageBack{Type: "messageBack", DisplayText: textShareFeedbackDisplay, Text: string(action.KindShareFeedback)},
			"ticketId":     t.TicketID(),
			"userQuestion": t.Title(),
		}))
	}
	return newCard(body, actions...)
}

// TicketPreview is the list entry shown for a ticket in messaging extension
// results. All user text is stripped of markup and escaped.
func TicketPreview(t *ticket.Ticket, scope search.Scope, ui UIContext) botframework.Attachment {
	status := ""
	if scope != search.ScopeUnAnsweredTickets {
		status = fmt.Sprintf("<div style='white-space:nowrap'>%s</div>", safeText(StatusForExpert(t)))
	}
	text := fmt.Sprintf("<div><div style='white-space:nowrap'>#%s | %s | %s</div>%s</div>",
		safeText(t.TicketID()),
		safeText(t.RequesterName()),
		safeText(FormatDate(t.DateCreated(), ui.LocalOffset)),
		status,
	)
	return botframework.Attachment{
		ContentType: ThumbnailContentType,
		Content: map[string]string{
			"title": safeText(t.Title()),
			"text":  text,
		},
	}
}

// KnowledgeBasePreview is the list entry for a knowledge base pair.
func KnowledgeBasePreview(e knowledgebase.SearchEntity) botframework.Attachment {
	question := ""
	if len(e.Questions) > 0 {
		question = e.Questions[0]
	}
	return botframework.Attachment{
		ContentType: ThumbnailContentType,
		Content: map[string]string{
			"title": safeText(question),
			"text":  safeText(Truncate(e.Answer, KnowledgeBaseAnswerMaxDisplayLength)),
		},
	}
}

func safeText(s string) string {
	return html.EscapeString(html.UnescapeString(previewPolicy.Sanitize(s)))
}
