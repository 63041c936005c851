package cards

import (
	"fmt"
	"strings"

	"github.com/faqplusplus/faqplusplus/internal/domain/action"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
)

// responsePayload is the data behind the buttons on a bot answer. The
// buttons open a form, so Submitted is never set here.
type responsePayload struct {
	Action                action.Kind      `json:"action"`
	MSTeams               TeamsMessageBack `json:"msteams"`
	UserQuestion          string           `json:"userQuestion"`
	KnowledgeBaseAnswer   string           `json:"knowledgeBaseAnswer"`
	KnowledgeBaseQuestion string           `json:"knowledgeBaseQuestion"`
}

// ResponseCard shows a knowledge base answer with buttons to escalate or rate it.
func ResponseCard(userQuestion, knowledgeBaseQuestion, answer string) Card {
	body := []Element{
		{Type: "TextBlock", Text: knowledgeBaseQuestion, Wrap: true, Weight: "Bolder", Size: "Medium"},
		textBlock(answer),
	}
	return newCard(body,
		submit(textAskAnExpertButton, responsePayload{
			Action:                action.KindAskAnExpert,
			MSTeams:               TeamsMessageBack{Type: "messageBack", DisplayText: textAskAnExpertDisplay, Text: string(action.KindAskAnExpert)},
			UserQuestion:          userQuestion,
			KnowledgeBaseAnswer:   answer,
			KnowledgeBaseQuestion: knowledgeBaseQuestion,
		}),
		submit(textShareFeedbackButton, responsePayload{
			Action:                action.KindShareFeedback,
			MSTeams:               TeamsMessageBack{Type: "messageBack", DisplayText: textShareFeedbackDisplay, Text: string(action.KindShareFeedback)},
			UserQuestion:          userQuestion,
			KnowledgeBaseAnswer:   answer,
			KnowledgeBaseQuestion: knowledgeBaseQuestion,
		}),
	)
}

// AskAnExpertCard is the escalation form. The title is required.
func AskAnExpertCard(payload *action.AskAnExpert, showErrors bool) Card {
	if payload == nil {
		payload = &action.AskAnExpert{}
	}
	title := payload.Title
	if title == "" && !showErrors {
		title = Truncate(payload.UserQuestion, TitleMaxLength)
	}

	body := []Element{
		heading(textAskAnExpertHeader),
		textBlock(textAskAnExpertSubheader),
		{Type: "TextBlock", Text: textTitle, Wrap: true},
		textInput("title", textTitlePlaceholder, title, false, TitleMaxLength),
		errorText(showErrors && strings.TrimSpace(payload.Title) == "", textTitleRequired),
		{Type: "TextBlock", Text: textDescription, Wrap: true},
		textInput("description", textDescriptionPlaceholder, payload.Description, true, DescriptionMaxLength),
	}
	return newCard(body, submit(textSubmit, map[string]any{
		"action":                action.KindAskAnExpert,
		"submitted":             true,
		"msteams":               TeamsMessageBack{Type: "messageBack", DisplayText: textQuestionForExpert, Text: string(action.KindAskAnExpert)},
		"userQuestion":          payload.UserQuestion,
		"knowledgeBaseAnswer":   payload.KnowledgeBaseAnswer,
		"knowledgeBaseQuestion": payload.KnowledgeBaseQuestion,
	}))
}

// ShareFeedbackCard is the rating form. A rating is required.
func ShareFeedbackCard(payload *action.ShareFeedback, showErrors bool) Card {
	if payload == nil {
		payload = &action.ShareFeedback{}
	}
	_, validRating := action.ParseRating(payload.Rating)

	body := []Element{
		heading(textShareFeedbackHeader),
		{Type: "TextBlock", Text: textRatingTitle, Wrap: true},
		{
			Type:  "Input.ChoiceSet",
			ID:    "rating",
			Style: "compact",
			Value: payload.Rating,
			Choices: []Choice{
				{Title: textRatingHelpful, Value: string(action.RatingHelpful)},
				{Title: textRatingNeedsImprovement, Value: string(action.RatingNeedsImprovement)},
				{Title: textRatingNotHelpful, Value: string(action.RatingNotHelpful)},
			},
		},
		errorText(showErrors && !validRating, textRatingRequired),
		textInput("description", textFeedbackPlaceholder, payload.Description, true, DescriptionMaxLength),
	}
	data := map[string]any{
		"action":                action.KindShareFeedback,
		"submitted":             true,
		"msteams":               TeamsMessageBack{Type: "messageBack", DisplayText: textShareFeedbackDisplay, Text: string(action.KindShareFeedback)},
		"userQuestion":          payload.UserQuestion,
		"knowledgeBaseAnswer":   payload.KnowledgeBaseAnswer,
		"knowledgeBaseQuestion": payload.KnowledgeBaseQuestion,
	}
	if payload.TicketID != "" {
		data["ticketId"] = payload.TicketID
	}
	return newCard(body, submit(textSubmit, data))
}

// SMEFeedbackCard relays a user's rating to the expert team.
func SMEFeedbackCard(payload *action.ShareFeedback, user ticket.Person, ui UIContext) Card {
	question := payload.UserQuestion
	if payload.TicketID != "" {
		question = fmt.Sprintf(textTicketQuestionFormat, payload.TicketID, payload.UserQuestion)
	}
	facts := []Fact{
		{Title: textQuestionAsked, Value: question},
		{Title: textRatingTitle, Value: ratingText(payload.Rating)},
	}
	if strings.TrimSpace(payload.Description) != "" {
		facts = append(facts, Fact{Title: textDescription, Value: Truncate(payload.Description, DescriptionMaxDisplayLength)})
	}
	facts = append(facts,
		Fact{Title: textDate, Value: FormatDate(ui.Now, ui.LocalOffset)},
		Fact{Title: textProvidedBy, Value: user.Name},
	)

	given := user.GivenName
	if given == "" {
		given = user.Name
	}
	actions := []Action{openURL(fmt.Sprintf(textChatWithFormat, given), ChatLink(user.UserPrincipalName, ""))}
	if strings.TrimSpace(payload.KnowledgeBaseAnswer) != "" && strings.TrimSpace(payload.UserQuestion) != "" {
		actions = append(actions, showCard(textViewArticle, newCard([]Element{
			textBlock(Truncate(payload.KnowledgeBaseAnswer, KnowledgeBaseAnswerMaxDisplayLength)),
		})))
	}

	return newCard([]Element{heading(textSMEFeedbackHeader), factSet(facts...)}, actions...)
}

func ratingText(rating string) string {
	r, _ := action.ParseRating(rating)
	switch r {
	case action.RatingHelpful:
		return textRatingHelpful
	case action.RatingNeedsImprovement:
		return textRatingNeedsImprovement
	case action.RatingNotHelpful:
		return textRatingNotHelpful
	default:
		return rating
	}
}

// WelcomeCard greets a user when the bot is installed.
func WelcomeCard(welcomeText string, ui UIContext) Card {
	return newCard([]Element{textBlock(welcomeText)},
		openURL(textMyQuestions, MyQuestionsLink(ui.ManifestAppID, "")),
	)
}

// TeamWelcomeCard introduces the bot to the expert team.
func TeamWelcomeCard() Card {
	return newCard([]Element{textBlock(MessageTeamWelcome)})
}

// HelpCard shows the admin-authored help text.
func HelpCard(helpText string) Card {
	return newCard([]Element{heading(textHelpHeader), textBlock(helpText)})
}

// LanguageSelectionCard offers one button per configured language.
func LanguageSelectionCard(languages []sharedConfig.LanguageQnAMakerKey) Card {
	actions := make([]Action, 0, len(languages))
	for _, lang := range languages {
		name := lang.LanguageName
		if name == "" {
			name = lang.LanguageCode
		}
		actions = append(actions, submit(name, map[string]any{
			"action":       action.KindChangeLanguage,
			"languageCode": lang.LanguageCode,
		}))
	}
	return newCard([]Element{
		{Type: "TextBlock", Text: textChangeLanguageHeader, Wrap: true, Weight: "Bolder", Size: "Large", HorizontalAlignment: "Left"},
	}, actions...)
}

// ChangeLanguageCard confirms the language switch with the language's own message.
func ChangeLanguageCard(text string) Card {
	return newCard([]Element{
		{Type: "TextBlock", Text: text, Wrap: true, HorizontalAlignment: "Left"},
	})
}

// GoToMyQuestionTabCard points the user at the My questions tab.
func GoToMyQuestionTabCard(ui UIContext) Card {
	return newCard([]Element{
		{Type: "TextBlock", Text: textMyQuestionsContent, Wrap: true, Weight: "Bolder"},
	}, openURL(textMyQuestions, MyQuestionsLink(ui.ManifestAppID, "")))
}
