package bot

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	ticketUsecases "github.com/faqplusplus/faqplusplus/internal/application/ticket/usecases"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/domain/langpref"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
)

type sentActivity struct {
	conversationID string
	activity       *botframework.Activity
}

type updatedActivity struct {
	conversationID string
	activityID     string
	activity       *botframework.Activity
}

type mockMessenger struct {
	mu      sync.Mutex
	sent    []sentActivity
	updated []updatedActivity
	created []*botframework.ConversationParameters

	SendErr                error
	GetMemberFunc          func(memberID string) (*botframework.TeamsChannelAccount, error)
	CreateConversationFunc func(params *botframework.ConversationParameters) (*botframework.ConversationResourceResponse, error)
}

func (m *mockMessenger) SendToConversation(_ context.Context, _, conversationID string, activity *botframework.Activity) (*botframework.ResourceResponse, error) {
	if m.SendErr != nil {
		return nil, m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentActivity{conversationID: conversationID, activity: activity})
	return &botframework.ResourceResponse{ID: "sent-1"}, nil
}

func (m *mockMessenger) UpdateActivity(_ context.Context, _, conversationID, activityID string, activity *botframework.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated = append(m.updated, updatedActivity{conversationID: conversationID, activityID: activityID, activity: activity})
	return nil
}

func (m *mockMessenger) CreateConversation(_ context.Context, _ string, params *botframework.ConversationParameters) (*botframework.ConversationResourceResponse, error) {
	m.mu.Lock()
	m.created = append(m.created, params)
	m.mu.Unlock()
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(params)
	}
	return &botframework.ConversationResourceResponse{ID: "19:team@thread.skype;messageid=900", ActivityID: "900"}, nil
}

func (m *mockMessenger) GetMember(_ context.Context, _, _, memberID string) (*botframework.TeamsChannelAccount, error) {
	if m.GetMemberFunc != nil {
		return m.GetMemberFunc(memberID)
	}
	return &botframework.TeamsChannelAccount{
		ID:                memberID,
		Name:              "Alex Wilber",
		GivenName:         "Alex",
		UserPrincipalName: "alexw@contoso.com",
		AadObjectID:       "oid-alex",
	}, nil
}

// sentCards returns the adaptive cards sent, in order. Plain text messages yield nil.
func (m *mockMessenger) sentCards() []*cardsCard {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*cardsCard, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, decodeCard(s.activity))
	}
	return out
}

func (m *mockMessenger) sentTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		if s.activity.Text != "" {
			out = append(out, s.activity.Text)
		}
	}
	return out
}

// cardsCard is the decoded JSON of a card, enough to assert on.
type cardsCard struct {
	Body []struct {
		Type  string `json:"type"`
		ID    string `json:"id"`
		Text  string `json:"text"`
		Value string `json:"value"`
	} `json:"body"`
	Actions []struct {
		Type  string         `json:"type"`
		Title string         `json:"title"`
		Data  map[string]any `json:"data"`
	} `json:"actions"`
}

func (c *cardsCard) texts() string {
	var b strings.Builder
	for _, e := range c.Body {
		b.WriteString(e.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (c *cardsCard) actionTitles() []string {
	out := make([]string, 0, len(c.Actions))
	for _, a := range c.Actions {
		out = append(out, a.Title)
	}
	return out
}

func decodeCard(a *botframework.Activity) *cardsCard {
	if a == nil || len(a.Attachments) == 0 {
		return nil
	}
	raw, err := json.Marshal(a.Attachments[0].Content)
	if err != nil {
		return nil
	}
	var c cardsCard
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil
	}
	return &c
}

type mockSettings struct {
	scalars   map[configuration.EntityType]string
	languages map[string]*configuration.LanguageKBConfiguration
}

func (m *mockSettings) GetScalar(_ context.Context, key configuration.EntityType) (string, error) {
	return m.scalars[key], nil
}

func (m *mockSettings) GetLanguageConfig(_ context.Context, code string) (*configuration.LanguageKBConfiguration, error) {
	return m.languages[configuration.NormalizeLanguageCode(code)], nil
}

func (m *mockSettings) ListLanguageConfigs(context.Context) ([]*configuration.LanguageKBConfiguration, error) {
	out := make([]*configuration.LanguageKBConfiguration, 0, len(m.languages))
	for _, cfg := range m.languages {
		out = append(out, cfg)
	}
	return out, nil
}

type mockKnowledgeBaseClient struct {
	knowledgebase.Client

	GenerateAnswerFunc func(kbID, endpointKey, question string) (*knowledgebase.Answer, error)
}

func (m *mockKnowledgeBaseClient) GenerateAnswer(_ context.Context, kbID, endpointKey, question string) (*knowledgebase.Answer, error) {
	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(kbID, endpointKey, question)
	}
	return nil, nil
}

type mockKnowledgeBases struct {
	languages []sharedConfig.LanguageQnAMakerKey
	clients   map[string]knowledgebase.Client
}

func (m *mockKnowledgeBases) Resolve(code string) (knowledgebase.Client, bool) {
	c, ok := m.clients[strings.ToLower(code)]
	return c, ok
}

func (m *mockKnowledgeBases) Default() (string, bool) {
	if len(m.languages) == 0 {
		return "", false
	}
	return m.languages[0].LanguageCode, true
}

func (m *mockKnowledgeBases) Languages() []sharedConfig.LanguageQnAMakerKey {
	return m.languages
}

type mockPreferences struct {
	mu    sync.Mutex
	prefs map[string]string
	known map[string]bool
}

func (m *mockPreferences) get() PreferenceReader { return preferenceReader{m} }
func (m *mockPreferences) set() PreferenceWriter { return preferenceWriter{m} }

type preferenceReader struct{ m *mockPreferences }

func (r preferenceReader) Execute(_ context.Context, oid string) (string, bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	code, ok := r.m.prefs[oid]
	if !ok {
		return "en", false, nil
	}
	return code, true, nil
}

type preferenceWriter struct{ m *mockPreferences }

func (w preferenceWriter) Execute(_ context.Context, oid, code string) (*langpref.Preference, error) {
	p, err := langpref.NewPreference(oid, code)
	if err != nil {
		return nil, err
	}
	w.m.mu.Lock()
	defer w.m.mu.Unlock()
	if !w.m.known[p.LanguageCode] {
		return nil, errNotConfigured
	}
	w.m.prefs[oid] = p.LanguageCode
	return p, nil
}

type mockCreateTicket struct {
	commands []ticketUsecases.CreateTicketCommand

	ExecuteFunc func(cmd ticketUsecases.CreateTicketCommand) (*ticket.Ticket, error)
}

func (m *mockCreateTicket) Execute(_ context.Context, cmd ticketUsecases.CreateTicketCommand) (*ticket.Ticket, error) {
	m.commands = append(m.commands, cmd)
	return m.ExecuteFunc(cmd)
}

type mockRespondTicket struct {
	commands []ticketUsecases.RespondTicketCommand

	ExecuteFunc func(cmd ticketUsecases.RespondTicketCommand) (*ticketUsecases.RespondTicketResult, error)
}

func (m *mockRespondTicket) Execute(_ context.Context, cmd ticketUsecases.RespondTicketCommand) (*ticketUsecases.RespondTicketResult, error) {
	m.commands = append(m.commands, cmd)
	return m.ExecuteFunc(cmd)
}

type mockGetTicket struct {
	ExecuteFunc func(ticketID string) (*ticket.Ticket, error)
}

func (m *mockGetTicket) Execute(_ context.Context, ticketID string) (*ticket.Ticket, error) {
	return m.ExecuteFunc(ticketID)
}

type mockAttachSMECard struct {
	activityID string
	threadID   string
}

func (m *mockAttachSMECard) Execute(_ context.Context, t *ticket.Ticket, activityID, threadID string) error {
	t.AttachSMECard(activityID, threadID)
	m.activityID, m.threadID = activityID, threadID
	return nil
}

type mockTicketSearch struct {
	queries []search.TicketQuery
	result  []*ticket.Ticket
}

func (m *mockTicketSearch) Search(_ context.Context, q search.TicketQuery) ([]*ticket.Ticket, error) {
	m.queries = append(m.queries, q)
	return m.result, nil
}

type mockKnowledgeBaseSearch struct {
	language string
	result   []knowledgebase.SearchEntity
}

func (m *mockKnowledgeBaseSearch) Search(_ context.Context, languageCode, _ string, _ int) ([]knowledgebase.SearchEntity, error) {
	m.language = languageCode
	return m.result, nil
}
