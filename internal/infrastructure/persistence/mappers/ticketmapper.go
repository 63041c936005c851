package mappers

import (
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
}

type TicketMapperImpl struct{}

func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	s := t.Snapshot()
	return &models.TicketModel{
		PartitionKey:                ticket.PartitionKey,
		RowKey:                      s.TicketID,
		Title:                       s.Title,
		Description:                 s.Description,
		Status:                      s.Status,
		DateCreated:                 s.DateCreated,
		DateAssigned:                s.DateAssigned,
		LanguageCode:                s.LanguageCode,
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

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}
	return ticket.ReconstructTicket(ticket.Snapshot{
		TicketID:                    model.RowKey,
		Title:                       model.Title,
		Description:                 model.Description,
		Status:                      model.Status,
		DateCreated:                 model.DateCreated,
		DateAssigned:                model.DateAssigned,
		LanguageCode:                model.LanguageCode,
		RequesterName:               model.RequesterName,
		RequesterUserPrincipalName:  model.RequesterUserPrincipalName,
		RequesterGivenName:          model.RequesterGivenName,
		RequesterConversationID:     model.RequesterConversationID,
		AssignedToName:              model.AssignedToName,
		AssignedToObjectID:          model.AssignedToObjectID,
		AssignedToUserPrincipalName: model.AssignedToUserPrincipalName,
		LastModifiedByName:          model.LastModifiedByName,
		LastModifiedByObjectID:      model.LastModifiedByObjectID,
		UserQuestion:                model.UserQuestion,
		KnowledgeBaseAnswer:         model.KnowledgeBaseAnswer,
		KnowledgeBaseQuestion:       model.KnowledgeBaseQuestion,
		AnswerBySME:                 model.AnswerBySME,
		SMECardActivityID:           model.SMECardActivityID,
		SMEThreadConversationID:     model.SMEThreadConversationID,
		IsDeleted:                   model.IsDeleted,
	})
}

// ToDomainList converts models, stopping at the first invalid row.
func ToDomainList(m TicketMapper, rows []models.TicketModel) ([]*ticket.Ticket, error) {
	tickets := make([]*ticket.Ticket, 0, len(rows))
	for i := range rows {
		t, err := m.ToDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}
