package usecases

import (
	"context"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// TicketObserver counts ticket lifecycle events.
type TicketObserver interface {
	ObserveTicket(event string)
}

// KnowledgeBaseResolver returns the knowledge base client serving a language.
type KnowledgeBaseResolver interface {
	Resolve(languageCode string) (knowledgebase.Client, bool)
	Default() (string, bool)
}

// KnowledgeBaseSettings reads the knowledge base bindings used for expert answers.
type KnowledgeBaseSettings interface {
	GetScalar(ctx context.Context, key configuration.EntityType) (string, error)
	GetLanguageConfig(ctx context.Context, languageCode string) (*configuration.LanguageKBConfiguration, error)
}

type nopObserver struct{}

func (nopObserver) ObserveTicket(string) {}

// publishEvent fans out a ticket event. Delivery failures never fail the use case.
func publishEvent(ctx context.Context, pub ticket.EventPublisher, obs TicketObserver, log logger.Interface, t ticket.EventType, ticketID string, at time.Time) {
	obs.ObserveTicket(string(t))
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, ticket.NewEvent(t, ticketID, at)); err != nil {
		log.Warnw("failed to publish ticket event", "event", t, "ticket_id", ticketID, "error", err)
	}
}
