package ticket

import (
	"strings"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
)

// Person identifies a Teams user acting on a ticket.
type Person struct {
	Name              string
	ObjectID          string
	UserPrincipalName string
	GivenName         string
}

// Ticket is a question escalated to the expert team.
type Ticket struct {
	ticketID                    string
	title                       string
	description                 string
	status                      Status
	dateCreated                 time.Time
	languageCode                string
	requesterName               string
	requesterUserPrincipalName  string
	requesterGivenName          string
	requesterConversationID     string
	assignedToName              string
	assignedToObjectID          string
	assignedToUserPrincipalName string
	lastModifiedByName          string
	lastModifiedByObjectID      string
	userQuestion                string
	knowledgeBaseAnswer         string
	knowledgeBaseQuestion       string
	answerBySME                 string
	smeCardActivityID           string
	smeThreadConversationID     string
	dateAssigned                *time.Time
	isDeleted                   bool
}

// NewTicketParams carries the fields captured from an ask-an-expert submission.
type NewTicketParams struct {
	TicketID                string
	Title                   string
	Description             string
	LanguageCode            string
	Requester               Person
	RequesterConversationID string
	LastModifiedBy          Person
	UserQuestion            string
	KnowledgeBaseAnswer     string
	KnowledgeBaseQuestion   string
	CreatedAt               time.Time
}

// NewTicket creates an unanswered ticket.
func NewTicket(p NewTicketParams) (*Ticket, error) {
	if strings.TrimSpace(p.TicketID) == "" {
		return nil, errors.NewValidationError("ticket id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, errors.NewValidationError("title is required")
	}

	return &Ticket{
		ticketID:                   p.TicketID,
		title:                      p.Title,
		description:                p.Description,
		status:                     StatusUnAnswered,
		dateCreated:                p.CreatedAt.UTC(),
		languageCode:               p.LanguageCode,
		requesterName:              p.Requester.Name,
		requesterUserPrincipalName: p.Requester.UserPrincipalName,
		requesterGivenName:         p.Requester.GivenName,
		requesterConversationID:    p.RequesterConversationID,
		lastModifiedByName:         p.LastModifiedBy.Name,
		lastModifiedByObjectID:     p.LastModifiedBy.ObjectID,
		userQuestion:               p.UserQuestion,
		knowledgeBaseAnswer:        p.KnowledgeBaseAnswer,
		knowledgeBaseQuestion:      p.KnowledgeBaseQuestion,
	}, nil
}

// Snapshot is the flat, storage-facing form of a ticket.
type Snapshot struct {
	TicketID                    string
	Title                       string
	Description                 string
	Status                      int
	DateCreated                 time.Time
	LanguageCode                string
	RequesterName               string
	RequesterUserPrincipalName  string
	RequesterGivenName          string
	RequesterConversationID     string
	AssignedToName              string
	AssignedToObjectID          string
	AssignedToUserPrincipalName string
	LastModifiedByName          string
	LastModifiedByObjectID      string
	UserQuestion                string
	KnowledgeBaseAnswer         string
	KnowledgeBaseQuestion       string
	AnswerBySME                 string
	SMECardActivityID           string
	SMEThreadConversationID     string
	DateAssigned                *time.Time
	IsDeleted                   bool
}

// ReconstructTicket rebuilds a ticket from storage. An out-of-range status is rejected.
func ReconstructTicket(s Snapshot) (*Ticket, error) {
	if s.TicketID == "" {
		return nil, errors.NewValidationError("ticket id is required")
	}
	status, err := NewStatus(s.Status)
	if err != nil {
		return nil, err
	}

	return &Ticket{
		ticketID:                    s.TicketID,
		title:                       s.Title,
		description:                 s.Description,
		status:                      status,
		dateCreated:                 s.DateCreated.UTC(),
		languageCode:                s.LanguageCode,
		requesterName:               s.RequesterName,
		requesterUserPrincipalName:  s.RequesterUserPrincipalName,
		requesterGivenName:          s.RequesterGivenName,
		requesterConversationID:     s.RequesterConversationID,
		assignedToName:              s.AssignedToName,
		assignedToObjectID:          s.AssignedToObjectID,
		assignedToUserPrincipalName: s.AssignedToUserPrincipalName,
		lastModifiedByName:          s.LastModifiedByName,
		lastModifiedByObjectID:      s.LastModifiedByObjectID,
		userQuestion:                s.UserQuestion,
		knowledgeBaseAnswer:         s.KnowledgeBaseAnswer,
		knowledgeBaseQuestion:       s.KnowledgeBaseQuestion,
		answerBySME:                 s.AnswerBySME,
		smeCardActivityID:           s.SMECardActivityID,
		smeThreadConversationID:     s.SMEThreadConversationID,
		dateAssigned:                s.DateAssigned,
		isDeleted:                   s.IsDeleted,
	}, nil
}

// Snapshot returns the flat form of the ticket.
func (t *Ticket) Snapshot() Snapshot {
	return Snapshot{
		TicketID:                    t.ticketID,
		Title:                       t.title,
		Description:                 t.description,
		Status:                      int(t.status),
		DateCreated:                 t.dateCreated,
		LanguageCode:                t.languageCode,
		RequesterName:               t.requesterName,
		RequesterUserPrincipalName:  t.requesterUserPrincipalName,
		RequesterGivenName:          t.requesterGivenName,
		RequesterConversationID:     t.requesterConversationID,
		AssignedToName:              t.assignedToName,
		AssignedToObjectID:          t.assignedToObjectID,
		AssignedToUserPrincipalName: t.assignedToUserPrincipalName,
		LastModifiedByName:          t.lastModifiedByName,
		LastModifiedByObjectID:      t.lastModifiedByObjectID,
		UserQuestion:                t.userQuestion,
		KnowledgeBaseAnswer:         t.knowledgeBaseAnswer,
		KnowledgeBaseQuestion:       t.knowledgeBaseQuestion,
		AnswerBySME:                 t.answerBySME,
		SMECardActivityID:           t.smeCardActivityID,
		SMEThreadConversationID:     t.smeThreadConversationID,
		DateAssigned:                t.dateAssigned,
		IsDeleted:                   t.isDeleted,
	}
}

// Answer records the expert's answer and moves the ticket to Answered.
func (t *Ticket) Answer(answer string, expert Person, at time.Time) error {
	if strings.TrimSpace(answer) == "" {
		return errors.NewValidationError("answer is required")
	}
	assigned := at.UTC()
	t.answerBySME = answer
	t.assignedToName = expert.Name
	t.assignedToObjectID = expert.ObjectID
	t.assignedToUserPrincipalName = expert.UserPrincipalName
	t.lastModifiedByName = expert.Name
	t.lastModifiedByObjectID = expert.ObjectID
	t.dateAssigned = &assigned
	t.status = StatusAnswered
	return nil
}

// UpdateAnswer overwrites the expert answer. The status is left untouched.
func (t *Ticket) UpdateAnswer(answer string, expert Person) error {
	if strings.TrimSpace(answer) == "" {
		return errors.NewValidationError("answer is required")
	}
	t.answerBySME = answer
	t.lastModifiedByName = expert.Name
	t.lastModifiedByObjectID = expert.ObjectID
	return nil
}

// AttachSMECard remembers where the expert card for this ticket was posted.
func (t *Ticket) AttachSMECard(activityID, threadConversationID string) {
	t.smeCardActivityID = activityID
	t.smeThreadConversationID = threadConversationID
}

// MarkDeleted flags the ticket as deleted. The row is kept.
func (t *Ticket) MarkDeleted() {
	t.isDeleted = true
}

func (t *Ticket) TicketID() string                    { return t.ticketID }
func (t *Ticket) Title() string                       { return t.title }
func (t *Ticket) Description() string                 { return t.description }
func (t *Ticket) Status() Status                      { return t.status }
func (t *Ticket) DateCreated() time.Time              { return t.dateCreated }
func (t *Ticket) LanguageCode() string                { return t.languageCode }
func (t *Ticket) RequesterName() string               { return t.requesterName }
func (t *Ticket) RequesterUserPrincipalName() string  { return t.requesterUserPrincipalName }
func (t *Ticket) RequesterGivenName() string          { return t.requesterGivenName }
func (t *Ticket) RequesterConversationID() string     { return t.requesterConversationID }
func (t *Ticket) AssignedToName() string              { return t.assignedToName }
func (t *Ticket) AssignedToObjectID() string          { return t.assignedToObjectID }
func (t *Ticket) AssignedToUserPrincipalName() string { return t.assignedToUserPrincipalName }
func (t *Ticket) LastModifiedByName() string          { return t.lastModifiedByName }
func (t *Ticket) LastModifiedByObjectID() string      { return t.lastModifiedByObjectID }
func (t *Ticket) UserQuestion() string                { return t.userQuestion }
func (t *Ticket) KnowledgeBaseAnswer() string         { return t.knowledgeBaseAnswer }
func (t *Ticket) KnowledgeBaseQuestion() string       { return t.knowledgeBaseQuestion }
func (t *Ticket) AnswerBySME() string                 { return t.answerBySME }
func (t *Ticket) SMECardActivityID() string           { return t.smeCardActivityID }
func (t *Ticket) SMEThreadConversationID() string     { return t.smeThreadConversationID }
func (t *Ticket) DateAssigned() *time.Time            { return t.dateAssigned }
func (t *Ticket) IsDeleted() bool                     { return t.isDeleted }
func (t *Ticket) IsAnswered() bool                    { return t.status == StatusAnswered }
