package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// Scope selects which tickets a messaging extension tab lists.
type Scope int

const (
	ScopeRecentTickets Scope = iota
	ScopeUnAnsweredTickets
	ScopeAnsweredTickets
)

// DefaultPageSize applies when the caller gives no count.
const DefaultPageSize = 25

const ticketMapping = `{
	"mappings": {"properties": {
		"ticketId":                   {"type": "keyword"},
		"title":                      {"type": "text"},
		"description":                {"type": "text"},
		"status":                     {"type": "integer"},
		"languageCode":               {"type": "keyword"},
		"languageKey":                {"type": "keyword"},
		"requesterName":              {"type": "text"},
		"requesterUserPrincipalName": {"type": "keyword"},
		"assignedToName":             {"type": "text"},
		"dateCreated":                {"type": "date"},
		"dateAssigned":               {"type": "date"},
		"isDeleted":                  {"type": "boolean"}
	}}
}`

// TicketDocument is the indexed form of a ticket.
type TicketDocument struct {
	TicketID                    string     `json:"ticketId"`
	Title                       string     `json:"title"`
	Description                 string     `json:"description"`
	Status                      int        `json:"status"`
	LanguageCode                string     `json:"languageCode"`
	LanguageKey                 string     `json:"languageKey"`
	DateCreated                 time.Time  `json:"dateCreated"`
	DateAssigned                *time.Time `json:"dateAssigned,omitempty"`
	RequesterName               string     `json:"requesterName"`
	RequesterUserPrincipalName  string     `json:"requesterUserPrincipalName"`
	RequesterGivenName          string     `json:"requesterGivenName"`
	RequesterConversationID     string     `json:"requesterConversationId"`
	AssignedToName              string     `json:"assignedToName"`
	AssignedToObjectID          string     `json:"assignedToObjectId"`
	AssignedToUserPrincipalName string     `json:"assignedToUserPrincipalName"`
	LastModifiedByName          string     `json:"lastModifiedByName"`
	LastModifiedByObjectID      string     `json:"lastModifiedByObjectId"`
	UserQuestion                string     `json:"userQuestion"`
	KnowledgeBaseAnswer         string     `json:"knowledgeBaseAnswer"`
	KnowledgeBaseQuestion       string     `json:"knowledgeBaseQuestion"`
	AnswerBySME                 string     `json:"answerBySme"`
	SMECardActivityID           string     `json:"smeCardActivityId"`
	SMEThreadConversationID     string     `json:"smeThreadConversationId"`
	IsDeleted                   bool       `json:"isDeleted"`
}

func newTicketDocument(t *ticket.Ticket) TicketDocument {
	s := t.Snapshot()
	return TicketDocument{
		TicketID:                    s.TicketID,
		Title:                       s.Title,
		Description:                 s.Description,
		Status:                      s.Status,
		LanguageCode:                s.LanguageCode,
		LanguageKey:                 languageKey(s.LanguageCode),
		DateCreated:                 s.DateCreated,
		DateAssigned:                s.DateAssigned,
		RequesterName:               s.RequesterName,
		RequesterUserPrincipalName:  s.RequesterUserPrincipalName,
		RequesterGivenName:          s.RequesterGivenName,
		RequesterConversationID:     s.RequesterConversationID,
		AssignedToName:              s.AssignedToName,
		AssignedToObjectID:          s.AssignedToObjectID,
		AssignedToUserPrincipalName: s.AssignedToUserPrincipalName,
		LastModifiedByName:          s.LastModifiedByName,
		LastModifiedByObjectID:      s.LastModifiedByObjectID,
		UserQuestion:                s.UserQuestion,
		KnowledgeBaseAnswer:         s.KnowledgeBaseAnswer,
		KnowledgeBaseQuestion:       s.KnowledgeBaseQuestion,
		AnswerBySME:                 s.AnswerBySME,
		SMECardActivityID:           s.SMECardActivityID,
		SMEThreadConversationID:     s.SMEThreadConversationID,
		IsDeleted:                   s.IsDeleted,
	}
}

// Ticket rebuilds the domain ticket from the document.
func (d TicketDocument) Ticket() (*ticket.Ticket, error) {
	return ticket.ReconstructTicket(ticket.Snapshot{
		TicketID:                    d.TicketID,
		Title:                       d.Title,
		Description:                 d.Description,
		Status:                      d.Status,
		DateCreated:                 d.DateCreated,
		DateAssigned:                d.DateAssigned,
		LanguageCode:                d.LanguageCode,
		RequesterName:               d.RequesterName,
		RequesterUserPrincipalName:  d.RequesterUserPrincipalName,
		RequesterGivenName:          d.RequesterGivenName,
		RequesterConversationID:     d.RequesterConversationID,
		AssignedToName:              d.AssignedToName,
		AssignedToObjectID:          d.AssignedToObjectID,
		AssignedToUserPrincipalName: d.AssignedToUserPrincipalName,
		LastModifiedByName:          d.LastModifiedByName,
		LastModifiedByObjectID:      d.LastModifiedByObjectID,
		UserQuestion:                d.UserQuestion,
		KnowledgeBaseAnswer:         d.KnowledgeBaseAnswer,
		KnowledgeBaseQuestion:       d.KnowledgeBaseQuestion,
		AnswerBySME:                 d.AnswerBySME,
		SMECardActivityID:           d.SMECardActivityID,
		SMEThreadConversationID:     d.SMEThreadConversationID,
		IsDeleted:                   d.IsDeleted,
	})
}

// TicketQuery is one messaging extension search.
type TicketQuery struct {
	Scope        Scope
	LanguageCode string
	Text         string
	Count        int
	Skip         int
}

// TicketIndex keeps tickets searchable for the expert team.
type TicketIndex struct {
	cli    *elasticsearch.Client
	index  *indexManager
	logger logger.Interface
}

func NewTicketIndex(cli *elasticsearch.Client, index string, logger logger.Interface) *TicketIndex {
	return &TicketIndex{
		cli:    cli,
		index:  &indexManager{cli: cli, index: index, mapping: ticketMapping},
		logger: logger,
	}
}

// Index upserts the ticket document.
func (ix *TicketIndex) Index(ctx context.Context, t *ticket.Ticket) error {
	if err := ix.index.ensure(ctx); err != nil {
		return err
	}

	payload, err := json.Marshal(newTicketDocument(t))
	if err != nil {
		return fmt.Errorf("failed to marshal ticket document: %w", err)
	}
	ir := esapi.IndexRequest{
		Index:      ix.index.index,
		DocumentID: t.TicketID(),
		Body:       strings.NewReader(string(payload)),
		Refresh:    "true",
	}
	res, err := ir.Do(ctx, ix.cli)
	if err != nil {
		return fmt.Errorf("index ticket %s: %w", t.TicketID(), err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index ticket %s failed with status %d", t.TicketID(), res.StatusCode)
	}
	return nil
}

// Search lists non-deleted tickets of one language in the given scope.
func (ix *TicketIndex) Search(ctx context.Context, q TicketQuery) ([]*ticket.Ticket, error) {
	if err := ix.index.ensure(ctx); err != nil {
		return nil, err
	}

	docs, err := doSearch[TicketDocument](ctx, ix.cli, ix.index.index, BuildTicketQuery(q))
	if err != nil {
		return nil, err
	}

	tickets := make([]*ticket.Ticket, 0, len(docs))
	for _, d := range docs {
		t, err := d.Ticket()
		if err != nil {
			ix.logger.Warnw("skipping invalid ticket document", "ticket_id", d.TicketID, "error", err)
			continue
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// BuildTicketQuery renders the Elasticsearch request body for q.
func BuildTicketQuery(q TicketQuery) map[string]any {
	size := q.Count
	if size <= 0 {
		size = DefaultPageSize
	}
	from := q.Skip
	if from < 0 {
		from = 0
	}

	filters := []any{
		map[string]any{"term": map[string]any{"languageKey": languageKey(q.LanguageCode)}},
		map[string]any{"term": map[string]any{"isDeleted": false}},
	}
	sortField := "dateCreated"
	switch q.Scope {
	case ScopeUnAnsweredTickets:
		filters = append(filters, map[string]any{"term": map[string]any{"status": int(ticket.StatusUnAnswered)}})
	case ScopeAnsweredTickets:
		filters = append(filters, map[string]any{"term": map[string]any{"status": int(ticket.StatusAnswered)}})
		sortField = "dateAssigned"
	}

	boolQuery := map[string]any{"filter": filters}
	if text := strings.TrimSpace(q.Text); text != "" {
		boolQuery["must"] = []any{map[string]any{"multi_match": map[string]any{
			"query":  text,
			"fields": []string{"title^2", "description", "requesterName", "assignedToName", "ticketId"},
		}}}
	}

	return map[string]any{
		"from":  from,
		"size":  size,
		"query": map[string]any{"bool": boolQuery},
		"sort":  []any{map[string]any{sortField: map[string]any{"order": "desc", "unmapped_type": "date"}}},
	}
}
