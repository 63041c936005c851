package bot

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/faqplusplus/faqplusplus/internal/application/cards"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
)

// Messaging extension command ids from the app manifest.
const (
	commandRecents          = "recents"
	commandOpenRequests     = "openrequests"
	commandAssignedRequests = "assignedrequests"
	commandKBQuestions      = "kbquestions"

	searchTextParameter = "searchText"
)

var ticketScopes = map[string]search.Scope{
	commandRecents:          search.ScopeRecentTickets,
	commandOpenRequests:     search.ScopeUnAnsweredTickets,
	commandAssignedRequests: search.ScopeAnsweredTickets,
}

func (h *TurnHandler) onInvoke(ctx context.Context, a *botframework.Activity) (*InvokeResponse, error) {
	if a.Name != botframework.InvokeComposeExtensionQuery {
		h.Logger.Debugw("ignoring invoke", "name", a.Name)
		return &InvokeResponse{Status: http.StatusOK}, nil
	}

	var q botframework.MessagingExtensionQuery
	if err := json.Unmarshal(a.Value, &q); err != nil {
		h.Logger.Warnw("malformed messaging extension query", "error", err)
		return &InvokeResponse{Status: http.StatusBadRequest}, nil
	}

	attachments, err := h.searchAttachments(ctx, a, &q)
	if err != nil {
		return nil, err
	}
	return &InvokeResponse{
		Status: http.StatusOK,
		Body: botframework.MessagingExtensionResponse{
			ComposeExtension: botframework.MessagingExtensionResult{
				Type:             "result",
				AttachmentLayout: "list",
				Attachments:      attachments,
			},
		},
	}, nil
}

func (h *TurnHandler) searchAttachments(ctx context.Context, a *botframework.Activity, q *botframework.MessagingExtensionQuery) ([]botframework.Attachment, error) {
	lang := h.teamLanguage(ctx, a)
	text := q.Parameter(searchTextParameter)
	attachments := []botframework.Attachment{}

	if q.CommandID == commandKBQuestions {
		if h.KnowledgeBaseSearch == nil {
			return attachments, nil
		}
		entities, err := h.KnowledgeBaseSearch.Search(ctx, lang, text, q.QueryOptions.Count)
		if err != nil {
			h.Logger.Errorw("knowledge base search failed", "language", lang, "error", err)
			return nil, err
		}
		for _, e := range entities {
			attachments = append(attachments, cards.KnowledgeBasePreview(e))
		}
		return attachments, nil
	}

	scope, ok := ticketScopes[q.CommandID]
	if !ok {
		h.Logger.Warnw("unknown messaging extension command", "command_id", q.CommandID)
		return attachments, nil
	}
	if h.TicketSearch == nil {
		return attachments, nil
	}

	tickets, err := h.TicketSearch.Search(ctx, search.TicketQuery{
		Scope:        scope,
		LanguageCode: lang,
		Text:         text,
		Count:        q.QueryOptions.Count,
		Skip:         q.QueryOptions.Skip,
	})
	if err != nil {
		h.Logger.Errorw("ticket search failed", "command_id", q.CommandID, "language", lang, "error", err)
		return nil, err
	}

	ui := h.ui(a)
	for _, t := range tickets {
		preview := cards.TicketPreview(t, scope, ui)
		attachments = append(attachments, botframework.Attachment{
			ContentType: cards.ContentType,
			Content:     cards.SMETicketCard(t, ui, nil, false),
			Preview:     &preview,
		})
	}
	return attachments, nil
}

// teamLanguage is the language bound to the team the query came from,
// else the sender's language.
func (h *TurnHandler) teamLanguage(ctx context.Context, a *botframework.Activity) string {
	if team := a.TeamsData().Team; team != nil && team.ID != "" {
		configs, err := h.Settings.ListLanguageConfigs(ctx)
		if err != nil {
			h.Logger.Warnw("failed to list language bindings", "error", err)
		}
		for _, cfg := range configs {
			if cfg.TeamID == team.ID {
				return configuration.NormalizeLanguageCode(cfg.LanguageCode)
			}
		}
	}
	return h.language(ctx, a)
}
