package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/application/cards"
	ticketUsecases "github.com/faqplusplus/faqplusplus/internal/application/ticket/usecases"
	"github.com/faqplusplus/faqplusplus/internal/domain/action"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

var (
	errNotConfigured = errors.NewValidationError("language is not configured")
	turnTime         = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
)

const (
	personalConversation = "a:personal-alex"
	teamConversation     = "19:team@thread.skype;messageid=900"
)

type fixture struct {
	handler   *TurnHandler
	messenger *mockMessenger
	settings  *mockSettings
	kbClient  *mockKnowledgeBaseClient
	prefs     *mockPreferences
	create    *mockCreateTicket
	respond   *mockRespondTicket
	get       *mockGetTicket
	attach    *mockAttachSMECard
	tickets   *mockTicketSearch
	kbSearch  *mockKnowledgeBaseSearch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		messenger: &mockMessenger{},
		settings: &mockSettings{
			scalars: map[configuration.EntityType]string{
				configuration.TeamID:          "19:global@thread.skype",
				configuration.KnowledgeBaseID: "kb-global",
			},
			languages: map[string]*configuration.LanguageKBConfiguration{
				"en": {LanguageCode: "en", KnowledgeBaseID: "kb-en", QnAMakerEndpointKey: "key-en", TeamID: "19:team-en@thread.skype"},
				"fr": {LanguageCode: "fr", KnowledgeBaseID: "kb-fr", QnAMakerEndpointKey: "key-fr", ChangeLanguageMessageText: "Je répondrai en français."},
			},
		},
		kbClient: &mockKnowledgeBaseClient{},
		prefs:    &mockPreferences{prefs: map[string]string{}, known: map[string]bool{"en": true, "fr": true}},
		create:   &mockCreateTicket{},
		respond:  &mockRespondTicket{},
		get:      &mockGetTicket{},
		attach:   &mockAttachSMECard{},
		tickets:  &mockTicketSearch{},
		kbSearch: &mockKnowledgeBaseSearch{},
	}
	kbs := &mockKnowledgeBases{
		languages: []sharedConfig.LanguageQnAMakerKey{
			{LanguageCode: "en", LanguageName: "English", Default: true},
			{LanguageCode: "fr", LanguageName: "Français"},
		},
		clients: map[string]knowledgebase.Client{"en": f.kbClient, "fr": f.kbClient},
	}
	f.handler = NewTurnHandler(Dependencies{
		Messenger:           f.messenger,
		Settings:            f.settings,
		KnowledgeBases:      kbs,
		GetPreference:       f.prefs.get(),
		SetPreference:       f.prefs.set(),
		CreateTicket:        f.create,
		RespondTicket:       f.respond,
		GetTicket:           f.get,
		AttachSMECard:       f.attach,
		TicketSearch:        f.tickets,
		KnowledgeBaseSearch: f.kbSearch,
		Bot:                 sharedConfig.BotConfig{AppBaseURI: "https://faq.contoso.com", ManifestAppID: "manifest-1", TenantID: "tenant-1"},
		Logger:              logger.NewNop(),
	})
	f.handler.now = func() time.Time { return turnTime }
	return f
}

func personalMessage(text string, value any) *botframework.Activity {
	a := &botframework.Activity{
		Type:         botframework.ActivityTypeMessage,
		ID:           "act-1",
		ServiceURL:   "https://smba.example.com/",
		Text:         text,
		From:         &botframework.ChannelAccount{ID: "29:alex", Name: "Alex", AadObjectID: "oid-alex"},
		Recipient:    &botframework.ChannelAccount{ID: "28:bot", Name: "FAQ Plus"},
		Conversation: &botframework.ConversationAccount{ID: personalConversation, ConversationType: "personal", TenantID: "tenant-1"},
	}
	if value != nil {
		a.Value, _ = json.Marshal(value)
	}
	return a
}

func channelMessage(value any, replyToID string) *botframework.Activity {
	a := personalMessage("", value)
	a.From = &botframework.ChannelAccount{ID: "29:megan", Name: "Megan", AadObjectID: "oid-megan"}
	a.Conversation = &botframework.ConversationAccount{ID: teamConversation, ConversationType: "channel"}
	a.ReplyToID = replyToID
	return a
}

func newTestTicket(t *testing.T) *ticket.Ticket {
	t.Helper()
	tk, err := ticket.NewTicket(ticket.NewTicketParams{
		TicketID:                "10000",
		Title:                   "VPN drops",
		LanguageCode:            "en",
		Requester:               ticket.Person{Name: "Alex Wilber", GivenName: "Alex", UserPrincipalName: "alexw@contoso.com"},
		RequesterConversationID: personalConversation,
		UserQuestion:            "vpn keeps dropping",
		CreatedAt:               turnTime,
	})
	require.NoError(t, err)
	return tk
}

func TestConversationUpdate_PersonalInstall(t *testing.T) {
	f := newFixture(t)
	f.settings.scalars[configuration.WelcomeMessageText] = "Welcome aboard"

	_, err := f.handler.Handle(context.Background(), &botframework.Activity{
		Type:         botframework.ActivityTypeConversationUpdate,
		From:         &botframework.ChannelAccount{ID: "29:alex", AadObjectID: "oid-alex"},
		Recipient:    &botframework.ChannelAccount{ID: "28:bot"},
		MembersAdded: []botframework.ChannelAccount{{ID: "28:bot"}},
		Conversation: &botframework.ConversationAccount{ID: personalConversation, ConversationType: "personal"},
	})
	require.NoError(t, err)

	sent := f.messenger.sentCards()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].texts(), "Welcome aboard")
	assert.Equal(t, []string{"English", "Français"}, sent[1].actionTitles())
}

func TestConversationUpdate_UserAddedIsIgnored(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.Handle(context.Background(), &botframework.Activity{
		Type:         botframework.ActivityTypeConversationUpdate,
		Recipient:    &botframework.ChannelAccount{ID: "28:bot"},
		MembersAdded: []botframework.ChannelAccount{{ID: "29:alex"}},
		Conversation: &botframework.ConversationAccount{ID: personalConversation, ConversationType: "personal"},
	})
	require.NoError(t, err)
	assert.Empty(t, f.messenger.sent)
}

func TestConversationUpdate_TeamInstall(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.Handle(context.Background(), &botframework.Activity{
		Type:         botframework.ActivityTypeConversationUpdate,
		Recipient:    &botframework.ChannelAccount{ID: "28:bot"},
		MembersAdded: []botframework.ChannelAccount{{ID: "28:bot"}},
		Conversation: &botframework.ConversationAccount{ID: "19:team@thread.skype", ConversationType: "channel"},
	})
	require.NoError(t, err)
	require.Len(t, f.messenger.sent, 1)
	assert.Contains(t, f.messenger.sentCards()[0].texts(), cards.MessageTeamWelcome)
}

func TestMessage_AnswersFromKnowledgeBase(t *testing.T) {
	f := newFixture(t)
	f.prefs.prefs["oid-alex"] = "fr"
	f.kbClient.GenerateAnswerFunc = func(kbID, key, question string) (*knowledgebase.Answer, error) {
		assert.Equal(t, "kb-fr", kbID)
		assert.Equal(t, "key-fr", key)
		assert.Equal(t, "mot de passe", question)
		return &knowledgebase.Answer{ID: 3, Answer: "Utilisez le portail.", Questions: []string{"Comment changer mon mot de passe ?"}, Score: 88}, nil
	}

	_, err := f.handler.Handle(context.Background(), personalMessage("  mot de passe ", nil))
	require.NoError(t, err)

	sent := f.messenger.sentCards()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].texts(), "Comment changer mon mot de passe ?")
	assert.Contains(t, sent[0].texts(), "Utilisez le portail.")
	require.Len(t, sent[0].Actions, 2)
	assert.Equal(t, string(action.KindAskAnExpert), sent[0].Actions[0].Data["action"])
	assert.Equal(t, "mot de passe", sent[0].Actions[0].Data["userQuestion"])
}

func TestMessage_NoMatchOffersEscalation(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Handle(context.Background(), personalMessage("where is the cafeteria", nil))
	require.NoError(t, err)

	sent := f.messenger.sentCards()
	require.Len(t, sent, 1)
	assert.Equal(t, "where is the cafeteria", sent[0].Body[3].Value)
	assert.Equal(t, true, sent[0].Actions[0].Data["submitted"])
}

func TestMessage_Commands(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, c *cardsCard)
	}{
		{
			name: "help uses default text",
			text: "Help",
			check: func(t *testing.T, c *cardsCard) {
				assert.Contains(t, c.texts(), configuration.DefaultHelpTabText)
			},
		},
		{
			name: "change language",
			text: "change language",
			check: func(t *testing.T, c *cardsCard) {
				assert.Equal(t, []string{"English", "Français"}, c.actionTitles())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.handler.Handle(context.Background(), personalMessage(tt.text, nil))
			require.NoError(t, err)
			sent := f.messenger.sentCards()
			require.Len(t, sent, 1)
			tt.check(t, sent[0])
		})
	}
}

func TestMessage_UnboundLanguage(t *testing.T) {
	f := newFixture(t)
	f.settings.languages["en"].QnAMakerEndpointKey = ""

	_, err := f.handler.Handle(context.Background(), personalMessage("vpn", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{cards.MessageNoKnowledgeBase}, f.messenger.sentTexts())
}

func TestAskAnExpert_ButtonOpensForm(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Handle(context.Background(), personalMessage("AskAnExpert", map[string]any{
		"action":       "AskAnExpert",
		"userQuestion": "vpn keeps dropping",
	}))
	require.NoError(t, err)

	assert.Empty(t, f.create.commands)
	sent := f.messenger.sentCards()
	require.Len(t, sent, 1)
	assert.Equal(t, "vpn keeps dropping", sent[0].Body[3].Value)
}

func TestAskAnExpert_EmptyTitleRerendersForm(t *testing.T) {
	f := newFixture(t)
	a := personalMessage("", map[string]any{"action": "AskAnExpert", "submitted": true, "title": " ", "description": "details"})
	a.ReplyToID = "card-1"

	_, err := f.handler.Handle(context.Background(), a)
	require.NoError(t, err)

	assert.Empty(t, f.create.commands)
	require.Len(t, f.messenger.updated, 1)
	assert.Equal(t, "card-1", f.messenger.updated[0].activityID)
	c := decodeCard(f.messenger.updated[0].activity)
	require.NotNil(t, c)
	assert.Contains(t, c.texts(), "Title is required.")
}

func TestAskAnExpert_CreatesTicket(t *testing.T) {
	f := newFixture(t)
	tk := newTestTicket(t)
	f.create.ExecuteFunc = func(cmd ticketUsecases.CreateTicketCommand) (*ticket.Ticket, error) {
		return tk, nil
	}

	_, err := f.handler.Handle(context.Background(), personalMessage("", map[string]any{
		"action":              "AskAnExpert",
		"submitted":           true,
		"title":               "VPN drops",
		"userQuestion":        "vpn keeps dropping",
		"knowledgeBaseAnswer": "Restart the client",
	}))
	require.NoError(t, err)

	require.Len(t, f.create.commands, 1)
	cmd := f.create.commands[0]
	assert.Equal(t, "VPN drops", cmd.Title)
	assert.Equal(t, "en", cmd.LanguageCode)
	assert.Equal(t, "alexw@contoso.com", cmd.Requester.UserPrincipalName)
	assert.Equal(t, personalConversation, cmd.RequesterConversationID)
	assert.Equal(t, "Restart the client", cmd.KnowledgeBaseAnswer)

	require.Len(t, f.messenger.created, 1)
	params := f.messenger.created[0]
	assert.Equal(t, "tenant-1", params.TenantID)
	assert.Equal(t, "19:team-en@thread.skype", params.ChannelData.(botframework.TeamsChannelData).Channel.ID)
	assert.Contains(t, decodeCard(params.Activity).texts(), "10000: VPN drops")

	assert.Equal(t, "900", tk.SMECardActivityID())
	assert.Equal(t, teamConversation, tk.SMEThreadConversationID())

	sent := f.messenger.sentCards()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].texts(), cards.MessageTicketCreated)
}

func TestAskAnExpert_FallsBackToGlobalTeam(t *testing.T) {
	f := newFixture(t)
	f.prefs.prefs["oid-alex"] = "fr"
	tk := newTestTicket(t)
	f.create.ExecuteFunc = func(ticketUsecases.CreateTicketCommand) (*ticket.Ticket, error) {
		fr, err := ticket.NewTicket(ticket.NewTicketParams{TicketID: tk.TicketID(), Title: tk.Title(), LanguageCode: "fr", CreatedAt: turnTime})
		require.NoError(t, err)
		return fr, nil
	}

	_, err := f.handler.Handle(context.Background(), personalMessage("", map[string]any{"action": "AskAnExpert", "submitted": true, "title": "VPN"}))
	require.NoError(t, err)

	require.Len(t, f.messenger.created, 1)
	assert.Equal(t, "19:global@thread.skype", f.messenger.created[0].ChannelData.(botframework.TeamsChannelData).Channel.ID)
}

func TestAskAnExpert_StorageFailureSendsGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.create.ExecuteFunc = func(ticketUsecases.CreateTicketCommand) (*ticket.Ticket, error) {
		return nil, errors.NewUnavailableError("ticket storage unavailable", nil)
	}

	_, err := f.handler.Handle(context.Background(), personalMessage("", map[string]any{"action": "AskAnExpert", "submitted": true, "title": "VPN drops"}))
	require.NoError(t, err)

	assert.Equal(t, []string{cards.MessageGenericError}, f.messenger.sentTexts())
	require.Len(t, f.messenger.sent, 1)
	assert.Equal(t, personalConversation, f.messenger.sent[0].conversationID)
	assert.Empty(t, f.messenger.created)
}

func TestMessage_FailureReturnedWhenReplyCannotBeSent(t *testing.T) {
	f := newFixture(t)
	f.create.ExecuteFunc = func(ticketUsecases.CreateTicketCommand) (*ticket.Ticket, error) {
		return nil, errors.NewUnavailableError("ticket storage unavailable", nil)
	}
	f.messenger.SendErr = errors.NewUnavailableError("connector unavailable", nil)

	_, err := f.handler.Handle(context.Background(), personalMessage("", map[string]any{"action": "AskAnExpert", "submitted": true, "title": "VPN drops"}))
	require.Error(t, err)
	assert.True(t, errors.IsUnavailableError(err))
}

func TestShareFeedback(t *testing.T) {
	tests := []struct {
		name        string
		value       map[string]any
		wantCreated int
		wantUpdated int
		wantText    string
	}{
		{name: "button opens form", value: map[string]any{"action": "ShareFeedback", "userQuestion": "vpn"}},
		{name: "missing rating", value: map[string]any{"action": "ShareFeedback", "submitted": true, "rating": "great"}, wantUpdated: 1},
		{
			name:        "posts to experts",
			value:       map[string]any{"action": "ShareFeedback", "submitted": true, "rating": "helpful", "userQuestion": "vpn"},
			wantCreated: 1,
			wantText:    cards.MessageFeedbackThanks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			a := personalMessage("", tt.value)
			a.ReplyToID = "card-2"

			_, err := f.handler.Handle(context.Background(), a)
			require.NoError(t, err)
			assert.Len(t, f.messenger.created, tt.wantCreated)
			assert.Len(t, f.messenger.updated, tt.wantUpdated)
			if tt.wantText != "" {
				assert.Equal(t, []string{tt.wantText}, f.messenger.sentTexts())
			}
		})
	}
}

func TestChangeLanguage(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.Handle(context.Background(), personalMessage("", map[string]any{"action": "ChangeLanguage", "languageCode": "FR"}))
	require.NoError(t, err)
	assert.Equal(t, "fr", f.prefs.prefs["oid-alex"])
	require.Len(t, f.messenger.sent, 1)
	assert.Contains(t, f.messenger.sentCards()[0].texts(), "Je répondrai en français.")

	_, err = f.handler.Handle(context.Background(), personalMessage("", map[string]any{"action": "ChangeLanguage", "languageCode": "de"}))
	require.NoError(t, err)
	assert.Equal(t, "fr", f.prefs.prefs["oid-alex"])
	assert.Equal(t, []string{cards.MessageNoKnowledgeBase}, f.messenger.sentTexts())
}

func TestTicketResponse_NotifiesRequester(t *testing.T) {
	f := newFixture(t)
	tk := newTestTicket(t)
	f.respond.ExecuteFunc = func(cmd ticketUsecases.RespondTicketCommand) (*ticketUsecases.RespondTicketResult, error) {
		require.NoError(t, tk.Answer(cmd.Response.ResponseText(), cmd.Expert, turnTime))
		return &ticketUsecases.RespondTicketResult{Ticket: tk}, nil
	}
	f.messenger.GetMemberFunc = func(string) (*botframework.TeamsChannelAccount, error) {
		return &botframework.TeamsChannelAccount{Name: "Megan Bowen", UserPrincipalName: "meganb@contoso.com", AadObjectID: "oid-megan"}, nil
	}

	_, err := f.handler.Handle(context.Background(), channelMessage(map[string]any{
		"action":            "AddRespond",
		"ticketId":          "10000",
		"answer":            "Reinstall the client",
		"addorAppendAction": "Add",
	}, "900"))
	require.NoError(t, err)

	require.Len(t, f.respond.commands, 1)
	assert.Equal(t, "meganb@contoso.com", f.respond.commands[0].Expert.UserPrincipalName)

	require.Len(t, f.messenger.updated, 1)
	assert.Equal(t, teamConversation, f.messenger.updated[0].conversationID)
	assert.Contains(t, decodeCard(f.messenger.updated[0].activity).texts(), "Answered by Megan Bowen")

	require.Len(t, f.messenger.sent, 1)
	assert.Equal(t, personalConversation, f.messenger.sent[0].conversationID)
	notice := decodeCard(f.messenger.sent[0].activity)
	assert.Contains(t, notice.texts(), cards.MessageTicketAnswered)
	assert.Contains(t, notice.texts(), "Reinstall the client")
}

func TestTicketResponse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantUpdated bool
		wantText    string
	}{
		{name: "empty answer re-renders", err: errors.NewValidationError("answer is required"), wantUpdated: true},
		{name: "already answered", err: errors.NewConflictError("ticket is already answered"), wantUpdated: true, wantText: cards.MessageAlreadyAnswered},
		{name: "missing ticket", err: errors.NewNotFoundError("ticket not found"), wantText: cards.MessageTicketNotFound},
		{name: "storage failure", err: errors.NewUnavailableError("storage unavailable", nil), wantText: cards.MessageGenericError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tk := newTestTicket(t)
			f.respond.ExecuteFunc = func(ticketUsecases.RespondTicketCommand) (*ticketUsecases.RespondTicketResult, error) {
				return nil, tt.err
			}
			f.get.ExecuteFunc = func(string) (*ticket.Ticket, error) { return tk, nil }

			_, err := f.handler.Handle(context.Background(), channelMessage(map[string]any{"action": "AddRespond", "ticketId": "10000"}, "900"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantUpdated, len(f.messenger.updated) == 1)
			if tt.wantText != "" {
				assert.Equal(t, []string{tt.wantText}, f.messenger.sentTexts())
			}
		})
	}
}

func TestTicketResponse_IgnoredInPersonalChat(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.Handle(context.Background(), personalMessage("", map[string]any{"action": "Respond", "ticketId": "10000"}))
	require.NoError(t, err)
	assert.Empty(t, f.respond.commands)
}

func TestMessagingExtension(t *testing.T) {
	query := func(commandID string) *botframework.Activity {
		a := channelMessage(nil, "")
		a.Type = botframework.ActivityTypeInvoke
		a.Name = botframework.InvokeComposeExtensionQuery
		a.ChannelData = json.RawMessage(`{"team":{"id":"19:team-en@thread.skype"}}`)
		a.Value = json.RawMessage(`{"commandId":"` + commandID + `","parameters":[{"name":"searchText","value":"vpn"}],"queryOptions":{"skip":25,"count":25}}`)
		return a
	}

	t.Run("ticket scopes", func(t *testing.T) {
		for commandID, scope := range map[string]search.Scope{
			"recents":          search.ScopeRecentTickets,
			"openrequests":     search.ScopeUnAnsweredTickets,
			"assignedrequests": search.ScopeAnsweredTickets,
		} {
			f := newFixture(t)
			f.tickets.result = []*ticket.Ticket{newTestTicket(t)}

			resp, err := f.handler.Handle(context.Background(), query(commandID))
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusOK, resp.Status)

			require.Len(t, f.tickets.queries, 1)
			q := f.tickets.queries[0]
			assert.Equal(t, scope, q.Scope, commandID)
			assert.Equal(t, "en", q.LanguageCode)
			assert.Equal(t, "vpn", q.Text)
			assert.Equal(t, 25, q.Skip)

			body := resp.Body.(botframework.MessagingExtensionResponse)
			require.Len(t, body.ComposeExtension.Attachments, 1)
			att := body.ComposeExtension.Attachments[0]
			assert.Equal(t, cards.ContentType, att.ContentType)
			require.NotNil(t, att.Preview)
			assert.Equal(t, cards.ThumbnailContentType, att.Preview.ContentType)
		}
	})

	t.Run("knowledge base questions", func(t *testing.T) {
		f := newFixture(t)
		f.kbSearch.result = []knowledgebase.SearchEntity{{Questions: []string{"How do I connect?"}, Answer: "Use the VPN client."}}

		resp, err := f.handler.Handle(context.Background(), query("kbquestions"))
		require.NoError(t, err)
		assert.Equal(t, "en", f.kbSearch.language)
		body := resp.Body.(botframework.MessagingExtensionResponse)
		require.Len(t, body.ComposeExtension.Attachments, 1)
		assert.Equal(t, cards.ThumbnailContentType, body.ComposeExtension.Attachments[0].ContentType)
	})

	t.Run("malformed query", func(t *testing.T) {
		f := newFixture(t)
		a := query("recents")
		a.Value = json.RawMessage(`"oops"`)
		resp, err := f.handler.Handle(context.Background(), a)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})
}
