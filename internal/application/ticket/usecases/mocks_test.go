package usecases

import (
	"context"
	"sync"

	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
)

// memoryTicketRepository keeps tickets in a map, deleted ones included.
type memoryTicketRepository struct {
	mu      sync.Mutex
	tickets map[string]*ticket.Ticket

	UpsertFunc func(ctx context.Context, t *ticket.Ticket) error
	GetFunc    func(ctx context.Context, ticketID string) (*ticket.Ticket, error)
}

func newMemoryTicketRepository(tickets ...*ticket.Ticket) *memoryTicketRepository {
	r := &memoryTicketRepository{tickets: map[string]*ticket.Ticket{}}
	for _, t := range tickets {
		r.tickets[t.TicketID()] = t
	}
	return r
}

func (r *memoryTicketRepository) Upsert(ctx context.Context, t *ticket.Ticket) error {
	if r.UpsertFunc != nil {
		if err := r.UpsertFunc(ctx, t); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.TicketID()] = t
	return nil
}

func (r *memoryTicketRepository) Get(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	if r.GetFunc != nil {
		return r.GetFunc(ctx, ticketID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tickets[ticketID], nil
}

func (r *memoryTicketRepository) ListByRequester(_ context.Context, upn string) ([]*ticket.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ticket.Ticket
	for _, t := range r.tickets {
		if t.RequesterUserPrincipalName() == upn && !t.IsDeleted() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryTicketRepository) ListAll(_ context.Context) ([]*ticket.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*ticket.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		out = append(out, t)
	}
	return out, nil
}

func (r *memoryTicketRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets), nil
}

func (r *memoryTicketRepository) SoftDelete(ctx context.Context, t *ticket.Ticket) error {
	t.MarkDeleted()
	return r.Upsert(ctx, t)
}

type mockEventPublisher struct {
	mu     sync.Mutex
	events []ticket.Event

	PublishFunc func(ctx context.Context, event ticket.Event) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, event ticket.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return nil
}

func (m *mockEventPublisher) types() []ticket.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ticket.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

type mockObserver struct {
	mu     sync.Mutex
	events []string
}

func (m *mockObserver) ObserveTicket(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

type mockSettings struct {
	GetScalarFunc         func(ctx context.Context, key configuration.EntityType) (string, error)
	GetLanguageConfigFunc func(ctx context.Context, code string) (*configuration.LanguageKBConfiguration, error)
}

func (m *mockSettings) GetScalar(ctx context.Context, key configuration.EntityType) (string, error) {
	if m.GetScalarFunc != nil {
		return m.GetScalarFunc(ctx, key)
	}
	return "", nil
}

func (m *mockSettings) GetLanguageConfig(ctx context.Context, code string) (*configuration.LanguageKBConfiguration, error) {
	if m.GetLanguageConfigFunc != nil {
		return m.GetLanguageConfigFunc(ctx, code)
	}
	return nil, nil
}

type mockResolver struct {
	clients     map[string]knowledgebase.Client
	defaultLang string
}

func (m *mockResolver) Resolve(code string) (knowledgebase.Client, bool) {
	c, ok := m.clients[code]
	return c, ok
}

func (m *mockResolver) Default() (string, bool) {
	return m.defaultLang, m.defaultLang != ""
}

type qnaWrite struct {
	op       string
	kbID     string
	qnaID    int
	question string
	answer   string
	metadata []knowledgebase.MetadataPair
}

type mockKnowledgeBaseClient struct {
	mu     sync.Mutex
	writes []qnaWrite

	GenerateAnswerFunc func(ctx context.Context, kbID, endpointKey, question string) (*knowledgebase.Answer, error)
	AddQnAFunc         func(ctx context.Context, kbID, question, answer string) error
}

func (m *mockKnowledgeBaseClient) LanguageCode() string { return "en" }

func (m *mockKnowledgeBaseClient) GetKnowledgeBase(context.Context, string) (*knowledgebase.Details, error) {
	return &knowledgebase.Details{}, nil
}

func (m *mockKnowledgeBaseClient) HasPendingChanges(context.Context, string) (bool, error) {
	return false, nil
}

func (m *mockKnowledgeBaseClient) Publish(context.Context, string) error { return nil }

func (m *mockKnowledgeBaseClient) Download(context.Context, string) ([]knowledgebase.QnADocument, error) {
	return nil, nil
}

func (m *mockKnowledgeBaseClient) AddQnA(ctx context.Context, kbID, question, answer string, metadata []knowledgebase.MetadataPair) error {
	m.record(qnaWrite{op: "add", kbID: kbID, question: question, answer: answer, metadata: metadata})
	if m.AddQnAFunc != nil {
		return m.AddQnAFunc(ctx, kbID, question, answer)
	}
	return nil
}

func (m *mockKnowledgeBaseClient) UpdateQnA(_ context.Context, kbID string, qnaID int, question, answer string, metadata []knowledgebase.MetadataPair) error {
	m.record(qnaWrite{op: "update", kbID: kbID, qnaID: qnaID, question: question, answer: answer, metadata: metadata})
	return nil
}

func (m *mockKnowledgeBaseClient) GenerateAnswer(ctx context.Context, kbID, endpointKey, question string) (*knowledgebase.Answer, error) {
	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, kbID, endpointKey, question)
	}
	return nil, nil
}

func (m *mockKnowledgeBaseClient) record(w qnaWrite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = append(m.writes, w)
}

func (m *mockKnowledgeBaseClient) recorded() []qnaWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]qnaWrite(nil), m.writes...)
}
