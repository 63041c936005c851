package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/mappers"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/persistence/models"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

var ticketUpdateColumns = []string{
	"title", "description", "status", "date_created", "date_assigned", "language_code",
	"requester_name", "requester_upn", "requester_given_name", "requester_conversation_id",
	"assigned_to_name", "assigned_to_object_id", "assigned_to_upn",
	"last_modified_by_name", "last_modified_by_object_id",
	"user_question", "knowledge_base_answer", "knowledge_base_question", "answer_by_sme",
	"sme_card_activity_id", "sme_thread_conversation_id", "is_deleted", "timestamp",
}

// TicketRepository implements ticket.Repository
type TicketRepository struct {
	db     *gorm.DB
	table  *tableInit
	mapper mappers.TicketMapper
	logger logger.Interface
}

func NewTicketRepository(db *gorm.DB, logger logger.Interface) *TicketRepository {
	return &TicketRepository{
		db:     db,
		table:  newTableInit(db, &models.TicketModel{}),
		mapper: mappers.NewTicketMapper(),
		logger: logger,
	}
}

var _ ticket.Repository = (*TicketRepository)(nil)

// Upsert inserts the ticket or replaces the existing row with the same id.
func (r *TicketRepository) Upsert(ctx context.Context, t *ticket.Ticket) error {
	if !t.Status().IsValid() {
		return errors.NewValidationError("invalid ticket status", fmt.Sprintf("status %d is outside 0..%d", int(t.Status()), int(ticket.StatusMaxValue)))
	}
	if err := r.table.ensure(ctx); err != nil {
		return err
	}

	model := r.mapper.ToModel(t)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "partition_key"}, {Name: "row_key"}},
		DoUpdates: clause.AssignmentColumns(ticketUpdateColumns),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert ticket", "ticket_id", t.TicketID(), "error", err)
		return unavailable("upsert ticket", err)
	}
	return nil
}

// Get returns (nil, nil) when the id is empty or unknown.
func (r *TicketRepository) Get(ctx context.Context, ticketID string) (*ticket.Ticket, error) {
	if strings.TrimSpace(ticketID) == "" {
		return nil, nil
	}
	if err := r.table.ensure(ctx); err != nil {
		return nil, err
	}

	var rows []models.TicketModel
	err := r.db.WithContext(ctx).
		Where("partition_key = ? AND row_key = ?", ticket.PartitionKey, ticketID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to get ticket", "ticket_id", ticketID, "error", err)
		return nil, unavailable("get ticket", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return r.mapper.ToDomain(&rows[0])
}

// ListByRequester returns the requester's non-deleted tickets in storage order.
// UPNs match case-insensitively, as ownership checks compare them.
func (r *TicketRepository) ListByRequester(ctx context.Context, userPrincipalName string) ([]*ticket.Ticket, error) {
	if err := r.table.ensure(ctx); err != nil {
		return nil, err
	}

	var rows []models.TicketModel
	err := r.db.WithContext(ctx).
		Where("partition_key = ? AND LOWER(requester_upn) = LOWER(?) AND is_deleted = ?", ticket.PartitionKey, userPrincipalName, false).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list tickets by requester", "requester", userPrincipalName, "error", err)
		return nil, unavailable("list tickets by requester", err)
	}
	return mappers.ToDomainList(r.mapper, rows)
}

// ListAll returns every ticket, deleted ones included.
func (r *TicketRepository) ListAll(ctx context.Context) ([]*ticket.Ticket, error) {
	if err := r.table.ensure(ctx); err != nil {
		return nil, err
	}

	var rows []models.TicketModel
	err := r.db.WithContext(ctx).
		Where("partition_key = ?", ticket.PartitionKey).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list tickets", "error", err)
		return nil, unavailable("list tickets", err)
	}
	return mappers.ToDomainList(r.mapper, rows)
}

// Count returns the total number of tickets, deleted ones included.
func (r *TicketRepository) Count(ctx context.Context) (int, error) {
	if err := r.table.ensure(ctx); err != nil {
		return 0, err
	}

	var n int64
	err := r.db.WithContext(ctx).Model(&models.TicketModel{}).
		Where("partition_key = ?", ticket.PartitionKey).
		Count(&n).Error
	if err != nil {
		return 0, unavailable("count tickets", err)
	}
	return int(n), nil
}

// SoftDelete flags the ticket as deleted and writes it back. The id is not reclaimed.
func (r *TicketRepository) SoftDelete(ctx context.Context, t *ticket.Ticket) error {
	t.MarkDeleted()
	return r.Upsert(ctx, t)
}
