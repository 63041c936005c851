package bot

import (
	"context"
	"strings"

	"github.com/faqplusplus/faqplusplus/internal/application/cards"
	ticketUsecases "github.com/faqplusplus/faqplusplus/internal/application/ticket/usecases"
	"github.com/faqplusplus/faqplusplus/internal/domain/action"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

func (h *TurnHandler) onCardAction(ctx context.Context, a *botframework.Activity) error {
	payload, err := action.Parse(a.Value)
	if err != nil {
		h.Logger.Warnw("unrecognized card action", "conversation_id", a.Conversation.ID, "error", err)
		return nil
	}

	switch p := payload.(type) {
	case *action.AskAnExpert:
		return h.onAskAnExpert(ctx, a, p)
	case *action.ShareFeedback:
		return h.onShareFeedback(ctx, a, p)
	case *action.ChangeLanguage:
		return h.onChangeLanguage(ctx, a, p)
	case *action.TicketResponse:
		return h.onTicketResponse(ctx, a, p)
	default:
		return nil
	}
}

// onAskAnExpert opens the escalation form, or turns a filled form into a
// ticket posted to the expert team.
func (h *TurnHandler) onAskAnExpert(ctx context.Context, a *botframework.Activity, p *action.AskAnExpert) error {
	if !p.Submitted {
		return h.reply(ctx, a, cards.ToAttachment(cards.AskAnExpertCard(p, false)))
	}
	if strings.TrimSpace(p.Title) == "" {
		return h.updateCard(ctx, a, cards.AskAnExpertCard(p, true))
	}

	requester := h.person(ctx, a)
	lang := h.language(ctx, a)
	t, err := h.CreateTicket.Execute(ctx, ticketUsecases.CreateTicketCommand{
		Title:                   p.Title,
		Description:             p.Description,
		LanguageCode:            lang,
		Requester:               requester,
		RequesterConversationID: a.Conversation.ID,
		Sender:                  requester,
		UserQuestion:            p.UserQuestion,
		KnowledgeBaseAnswer:     p.KnowledgeBaseAnswer,
		KnowledgeBaseQuestion:   p.KnowledgeBaseQuestion,
	})
	if err != nil {
		if errors.IsValidationError(err) {
			return h.updateCard(ctx, a, cards.AskAnExpertCard(p, true))
		}
		return err
	}

	h.notifyExperts(ctx, a, t)
	return h.reply(ctx, a, cards.ToAttachment(cards.UserNotificationCard(t, cards.MessageTicketCreated, h.ui(a))))
}

// notifyExperts posts the ticket card to the expert team and remembers where
// it went. Failures are logged; the ticket already exists.
func (h *TurnHandler) notifyExperts(ctx context.Context, a *botframework.Activity, t *ticket.Ticket) {
	teamID := h.expertTeam(ctx, t.LanguageCode())
	if teamID == "" {
		h.Logger.Warnw("no expert team configured", "ticket_id", t.TicketID(), "language", t.LanguageCode())
		return
	}

	resp, err := h.postToTeam(ctx, a, teamID, cards.SMETicketCard(t, h.sharedUI(), nil, false))
	if err != nil {
		h.Logger.Errorw("failed to post ticket to expert team", "ticket_id", t.TicketID(), "team_id", teamID, "error", err)
		return
	}
	if err := h.AttachSMECard.Execute(ctx, t, resp.ActivityID, resp.ID); err != nil {
		h.Logger.Errorw("failed to save expert card reference", "ticket_id", t.TicketID(), "error", err)
	}
}

func (h *TurnHandler) onShareFeedback(ctx context.Context, a *botframework.Activity, p *action.ShareFeedback) error {
	if !p.Submitted {
		return h.reply(ctx, a, cards.ToAttachment(cards.ShareFeedbackCard(p, false)))
	}
	if _, ok := action.ParseRating(p.Rating); !ok {
		return h.updateCard(ctx, a, cards.ShareFeedbackCard(p, true))
	}

	user := h.person(ctx, a)
	teamID := h.expertTeam(ctx, h.language(ctx, a))
	if teamID == "" {
		h.Logger.Warnw("no expert team configured for feedback", "user_object_id", user.ObjectID)
	} else if _, err := h.postToTeam(ctx, a, teamID, cards.SMEFeedbackCard(p, user, h.sharedUI())); err != nil {
		h.Logger.Errorw("failed to post feedback to expert team", "team_id", teamID, "error", err)
	}
	return h.replyText(ctx, a, cards.MessageFeedbackThanks)
}

func (h *TurnHandler) onChangeLanguage(ctx context.Context, a *botframework.Activity, p *action.ChangeLanguage) error {
	pref, err := h.SetPreference.Execute(ctx, objectID(a), p.LanguageCode)
	if err != nil {
		if errors.IsValidationError(err) {
			return h.replyText(ctx, a, cards.MessageNoKnowledgeBase)
		}
		return err
	}

	text := cards.MessageLanguageChanged
	if cfg, err := h.Settings.GetLanguageConfig(ctx, pref.LanguageCode); err == nil && cfg != nil && cfg.ChangeLanguageMessageText != "" {
		text = cfg.ChangeLanguageMessageText
	}
	return h.reply(ctx, a, cards.ToAttachment(cards.ChangeLanguageCard(text)))
}

// onTicketResponse records an expert's answer from the ticket card, refreshes
// the card and tells the requester.
func (h *TurnHandler) onTicketResponse(ctx context.Context, a *botframework.Activity, p *action.TicketResponse) error {
	if !a.IsChannel() {
		h.Logger.Warnw("ticket response outside a team channel", "ticket_id", p.TicketID)
		return nil
	}

	expert := h.person(ctx, a)
	result, err := h.RespondTicket.Execute(ctx, ticketUsecases.RespondTicketCommand{Response: p, Expert: expert})
	switch {
	case err == nil:
	case errors.IsNotFoundError(err):
		return h.replyText(ctx, a, cards.MessageTicketNotFound)
	case errors.IsValidationError(err), errors.IsConflictError(err):
		t, getErr := h.GetTicket.Execute(ctx, p.TicketID)
		if getErr != nil {
			return h.replyText(ctx, a, cards.MessageTicketNotFound)
		}
		if errors.IsConflictError(err) {
			if err := h.updateCard(ctx, a, cards.SMETicketCard(t, h.sharedUI(), nil, false)); err != nil {
				return err
			}
			return h.replyText(ctx, a, cards.MessageAlreadyAnswered)
		}
		return h.updateCard(ctx, a, cards.SMETicketCard(t, h.sharedUI(), p, true))
	default:
		return err
	}

	t := result.Ticket
	if err := h.refreshTicketCard(ctx, a, t); err != nil {
		h.Logger.Errorw("failed to refresh expert card", "ticket_id", t.TicketID(), "error", err)
	}

	message := cards.MessageTicketAnswered
	if p.Kind() == action.KindUpdateResponse {
		message = cards.MessageTicketAnswerUpdated
	}
	if t.RequesterConversationID() == "" {
		h.Logger.Warnw("ticket has no requester conversation", "ticket_id", t.TicketID())
		return nil
	}
	_, err = h.Messenger.SendToConversation(ctx, a.ServiceURL, t.RequesterConversationID(),
		botframework.NewMessage("", cards.ToAttachment(cards.UserNotificationCard(t, message, h.sharedUI()))))
	if err != nil {
		h.Logger.Errorw("failed to notify requester", "ticket_id", t.TicketID(), "error", err)
	}
	return nil
}

func (h *TurnHandler) refreshTicketCard(ctx context.Context, a *botframework.Activity, t *ticket.Ticket) error {
	card := cards.SMETicketCard(t, h.sharedUI(), nil, false)
	if a.ReplyToID != "" || t.SMECardActivityID() == "" {
		return h.updateCard(ctx, a, card)
	}
	msg := botframework.NewMessage("", cards.ToAttachment(card))
	msg.ID = t.SMECardActivityID()
	return h.Messenger.UpdateActivity(ctx, a.ServiceURL, t.SMEThreadConversationID(), t.SMECardActivityID(), msg)
}
