// Package bot handles the activities Teams delivers to the bot endpoint.
package bot

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/application/cards"
	"github.com/faqplusplus/faqplusplus/internal/domain/action"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const (
	commandHelp           = "help"
	commandChangeLanguage = "change language"
)

// InvokeResponse is the synchronous reply to an invoke activity.
type InvokeResponse struct {
	Status int
	Body   any
}

// Dependencies wires the turn handler. TicketSearch and KnowledgeBaseSearch
// may be nil when search is disabled.
type Dependencies struct {
	Messenger           Messenger
	Settings            Settings
	KnowledgeBases      KnowledgeBases
	GetPreference       PreferenceReader
	SetPreference       PreferenceWriter
	CreateTicket        TicketCreator
	RespondTicket       TicketResponder
	GetTicket           TicketReader
	AttachSMECard       SMECardAttacher
	TicketSearch        TicketSearcher
	KnowledgeBaseSearch KnowledgeBaseSearcher
	Bot                 sharedConfig.BotConfig
	Logger              logger.Interface
}

// TurnHandler routes one inbound activity per call.
type TurnHandler struct {
	Dependencies
	now func() time.Time
}

func NewTurnHandler(deps Dependencies) *TurnHandler {
	return &TurnHandler{Dependencies: deps, now: time.Now}
}

// Handle processes a. Only invoke activities produce a response body.
func (h *TurnHandler) Handle(ctx context.Context, a *botframework.Activity) (*InvokeResponse, error) {
	if a.Conversation == nil {
		h.Logger.Warnw("activity without conversation", "type", a.Type, "id", a.ID)
		return nil, nil
	}

	switch a.Type {
	case botframework.ActivityTypeConversationUpdate:
		return nil, h.onConversationUpdate(ctx, a)
	case botframework.ActivityTypeMessage:
		return nil, h.recoverMessage(ctx, a, h.onMessage(ctx, a))
	case botframework.ActivityTypeInvoke:
		return h.onInvoke(ctx, a)
	default:
		h.Logger.Debugw("ignoring activity", "type", a.Type)
		return nil, nil
	}
}

// recoverMessage turns a failed message turn into a generic reply so the user
// is never left without an answer. The error is returned only when that reply
// cannot be delivered either.
func (h *TurnHandler) recoverMessage(ctx context.Context, a *botframework.Activity, err error) error {
	if err == nil {
		return nil
	}
	h.Logger.Errorw("failed to handle message",
		"activity_id", a.ID,
		"conversation_id", a.Conversation.ID,
		"user_object_id", objectID(a),
		"error", err,
	)
	if sendErr := h.replyText(ctx, a, cards.MessageGenericError); sendErr != nil {
		h.Logger.Errorw("failed to send error message", "conversation_id", a.Conversation.ID, "error", sendErr)
		return err
	}
	return nil
}

func (h *TurnHandler) onConversationUpdate(ctx context.Context, a *botframework.Activity) error {
	if !a.BotAdded() {
		return nil
	}

	if a.IsChannel() || a.TeamsData().Team != nil {
		h.Logger.Infow("bot added to team", "conversation_id", a.Conversation.ID)
		return h.reply(ctx, a, cards.ToAttachment(cards.TeamWelcomeCard()))
	}

	h.Logger.Infow("bot installed for user", "user_object_id", objectID(a))
	welcome := h.scalarOr(ctx, configuration.WelcomeMessageText, configuration.DefaultWelcomeMessage)
	if err := h.reply(ctx, a, cards.ToAttachment(cards.WelcomeCard(welcome, h.ui(a)))); err != nil {
		return err
	}

	if len(h.KnowledgeBases.Languages()) < 2 {
		return nil
	}
	_, hasPreference, err := h.GetPreference.Execute(ctx, objectID(a))
	if err != nil || hasPreference {
		return nil
	}
	return h.reply(ctx, a, cards.ToAttachment(cards.LanguageSelectionCard(h.KnowledgeBases.Languages())))
}

func (h *TurnHandler) onMessage(ctx context.Context, a *botframework.Activity) error {
	if hasValue(a) {
		return h.onCardAction(ctx, a)
	}
	if !a.IsPersonal() {
		h.Logger.Debugw("ignoring text outside personal chat", "conversation_id", a.Conversation.ID)
		return nil
	}

	text := strings.TrimSpace(a.Text)
	switch strings.ToLower(text) {
	case "":
		return nil
	case commandHelp:
		return h.sendHelp(ctx, a)
	case commandChangeLanguage:
		return h.reply(ctx, a, cards.ToAttachment(cards.LanguageSelectionCard(h.KnowledgeBases.Languages())))
	default:
		return h.answerQuestion(ctx, a, text)
	}
}

func (h *TurnHandler) sendHelp(ctx context.Context, a *botframework.Activity) error {
	lang := h.language(ctx, a)
	text := ""
	if cfg, err := h.Settings.GetLanguageConfig(ctx, lang); err == nil && cfg != nil {
		text = cfg.HelpTabText
	}
	if text == "" {
		text = h.scalarOr(ctx, configuration.HelpTabText, configuration.DefaultHelpTabText)
	}
	return h.reply(ctx, a, cards.ToAttachment(cards.HelpCard(text)))
}

// answerQuestion asks the knowledge base of the user's language. Without a
// match the user gets the escalation form prefilled with the question.
func (h *TurnHandler) answerQuestion(ctx context.Context, a *botframework.Activity, question string) error {
	lang := h.language(ctx, a)
	client, ok := h.KnowledgeBases.Resolve(lang)
	if !ok {
		h.Logger.Warnw("no knowledge base for language", "language", lang)
		return h.replyText(ctx, a, cards.MessageNoKnowledgeBase)
	}

	kbID, endpointKey, err := h.knowledgeBase(ctx, lang)
	if err != nil {
		return err
	}
	if kbID == "" || endpointKey == "" {
		h.Logger.Warnw("knowledge base is not bound for language", "language", lang)
		return h.replyText(ctx, a, cards.MessageNoKnowledgeBase)
	}

	answer, err := client.GenerateAnswer(ctx, kbID, endpointKey, question)
	if err != nil {
		h.Logger.Errorw("failed to generate answer", "language", lang, "error", err)
		answer = nil
	}
	if answer == nil {
		return h.reply(ctx, a, cards.ToAttachment(cards.AskAnExpertCard(&action.AskAnExpert{UserQuestion: question}, false)))
	}

	kbQuestion := question
	if len(answer.Questions) > 0 {
		kbQuestion = answer.Questions[0]
	}
	return h.reply(ctx, a, cards.ToAttachment(cards.ResponseCard(question, kbQuestion, answer.Answer)))
}

// knowledgeBase returns the knowledge base id and endpoint key of a language,
// falling back to the global knowledge base id.
func (h *TurnHandler) knowledgeBase(ctx context.Context, lang string) (string, string, error) {
	var kbID, endpointKey string
	cfg, err := h.Settings.GetLanguageConfig(ctx, lang)
	if err != nil {
		return "", "", err
	}
	if cfg != nil {
		kbID, endpointKey = cfg.KnowledgeBaseID, cfg.QnAMakerEndpointKey
	}
	if kbID == "" {
		if kbID, err = h.Settings.GetScalar(ctx, configuration.KnowledgeBaseID); err != nil {
			return "", "", err
		}
	}
	return kbID, endpointKey, nil
}

// expertTeam is the team that receives tickets of a language.
func (h *TurnHandler) expertTeam(ctx context.Context, lang string) string {
	if cfg, err := h.Settings.GetLanguageConfig(ctx, lang); err == nil && cfg != nil && cfg.TeamID != "" {
		return cfg.TeamID
	}
	return h.scalarOr(ctx, configuration.TeamID, "")
}

// language is the user's preferred language, or the default one.
func (h *TurnHandler) language(ctx context.Context, a *botframework.Activity) string {
	code, _, err := h.GetPreference.Execute(ctx, objectID(a))
	if err != nil || code == "" {
		code, _ = h.KnowledgeBases.Default()
	}
	return code
}

func (h *TurnHandler) scalarOr(ctx context.Context, key configuration.EntityType, fallback string) string {
	value, err := h.Settings.GetScalar(ctx, key)
	if err != nil {
		h.Logger.Warnw("failed to read setting", "key", key, "error", err)
		return fallback
	}
	if value == "" {
		return fallback
	}
	return value
}

// person resolves the sender's directory details, falling back to the activity.
func (h *TurnHandler) person(ctx context.Context, a *botframework.Activity) ticket.Person {
	if a.From == nil {
		return ticket.Person{}
	}
	p := ticket.Person{Name: a.From.Name, ObjectID: a.From.AadObjectID}
	member, err := h.Messenger.GetMember(ctx, a.ServiceURL, a.Conversation.ID, a.From.ID)
	if err != nil {
		h.Logger.Warnw("failed to fetch member details", "member_id", a.From.ID, "error", err)
		return p
	}
	if member.Name != "" {
		p.Name = member.Name
	}
	if member.AadObjectID != "" {
		p.ObjectID = member.AadObjectID
	}
	p.GivenName = member.GivenName
	p.UserPrincipalName = member.UserPrincipalName
	return p
}

// ui is the rendering context for cards shown to the sender.
func (h *TurnHandler) ui(a *botframework.Activity) cards.UIContext {
	return cards.UIContext{
		LocalOffset:   a.LocalOffset(),
		AppBaseURI:    h.Bot.AppBaseURI,
		ManifestAppID: h.Bot.ManifestAppID,
		Now:           h.now(),
	}
}

// sharedUI renders cards seen by people other than the sender, in UTC.
func (h *TurnHandler) sharedUI() cards.UIContext {
	return cards.UIContext{
		AppBaseURI:    h.Bot.AppBaseURI,
		ManifestAppID: h.Bot.ManifestAppID,
		Now:           h.now(),
	}
}

func (h *TurnHandler) reply(ctx context.Context, a *botframework.Activity, attachments ...botframework.Attachment) error {
	_, err := h.Messenger.SendToConversation(ctx, a.ServiceURL, a.Conversation.ID, botframework.NewMessage("", attachments...))
	return err
}

func (h *TurnHandler) replyText(ctx context.Context, a *botframework.Activity, text string) error {
	_, err := h.Messenger.SendToConversation(ctx, a.ServiceURL, a.Conversation.ID, botframework.NewMessage(text))
	return err
}

// updateCard replaces the card the activity was submitted from, or sends a new one.
func (h *TurnHandler) updateCard(ctx context.Context, a *botframework.Activity, card cards.Card) error {
	if a.ReplyToID == "" {
		return h.reply(ctx, a, cards.ToAttachment(card))
	}
	msg := botframework.NewMessage("", cards.ToAttachment(card))
	msg.ID = a.ReplyToID
	return h.Messenger.UpdateActivity(ctx, a.ServiceURL, a.Conversation.ID, a.ReplyToID, msg)
}

// postToTeam starts a new thread in the team's general channel.
func (h *TurnHandler) postToTeam(ctx context.Context, a *botframework.Activity, teamID string, card cards.Card) (*botframework.ConversationResourceResponse, error) {
	return h.Messenger.CreateConversation(ctx, a.ServiceURL, &botframework.ConversationParameters{
		IsGroup:     true,
		Bot:         a.Recipient,
		TenantID:    h.tenant(a),
		Activity:    botframework.NewMessage("", cards.ToAttachment(card)),
		ChannelData: botframework.TeamsChannelData{Channel: &botframework.ChannelInfo{ID: teamID}},
	})
}

func (h *TurnHandler) tenant(a *botframework.Activity) string {
	if a.Conversation.TenantID != "" {
		return a.Conversation.TenantID
	}
	if t := a.TeamsData().Tenant; t != nil && t.ID != "" {
		return t.ID
	}
	return h.Bot.TenantID
}

func objectID(a *botframework.Activity) string {
	if a.From == nil {
		return ""
	}
	if a.From.AadObjectID != "" {
		return a.From.AadObjectID
	}
	return a.From.ID
}

func hasValue(a *botframework.Activity) bool {
	v := bytes.TrimSpace(a.Value)
	return len(v) > 0 && !bytes.Equal(v, []byte("null"))
}
