package dto

import (
	"time"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
)

// TicketDTO is the JSON form of a ticket returned by the tickets API.
type TicketDTO struct {
	TicketID                    string     `json:"ticketId"`
	Title                       string     `json:"title"`
	Description                 string     `json:"description"`
	Status                      int        `json:"status"`
	StatusName                  string     `json:"statusName"`
	DateCreated                 time.Time  `json:"dateCreated"`
	DateAssigned                *time.Time `json:"dateAssigned,omitempty"`
	LanguageCode                string     `json:"languageCode"`
	RequesterName               string     `json:"requesterName"`
	RequesterUserPrincipalName  string     `json:"requesterUserPrincipalName"`
	AssignedToName              string     `json:"assignedToName,omitempty"`
	AssignedToUserPrincipalName string     `json:"assignedToUserPrincipalName,omitempty"`
	UserQuestion                string     `json:"userQuestion,omitempty"`
	KnowledgeBaseAnswer         string     `json:"knowledgeBaseAnswer,omitempty"`
	KnowledgeBaseQuestion       string     `json:"knowledgeBaseQuestion,omitempty"`
	AnswerBySME                 string     `json:"answerBySme,omitempty"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		TicketID:                    t.TicketID(),
		Title:                       t.Title(),
		Description:                 t.Description(),
		Status:                      int(t.Status()),
		StatusName:                  t.Status().String(),
		DateCreated:                 t.DateCreated(),
		DateAssigned:                t.DateAssigned(),
		LanguageCode:                t.LanguageCode(),
		RequesterName:               t.RequesterName(),
		RequesterUserPrincipalName:  t.RequesterUserPrincipalName(),
		AssignedToName:              t.AssignedToName(),
		AssignedToUserPrincipalName: t.AssignedToUserPrincipalName(),
		UserQuestion:                t.UserQuestion(),
		KnowledgeBaseAnswer:         t.KnowledgeBaseAnswer(),
		KnowledgeBaseQuestion:       t.KnowledgeBaseQuestion(),
		AnswerBySME:                 t.AnswerBySME(),
	}
}

func ToTicketDTOs(tickets []*ticket.Ticket) []*TicketDTO {
	out := make([]*TicketDTO, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ToTicketDTO(t))
	}
	return out
}
