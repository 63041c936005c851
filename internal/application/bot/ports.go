package bot

import (
	"context"

	ticketUsecases "github.com/faqplusplus/faqplusplus/internal/application/ticket/usecases"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/domain/langpref"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/botframework"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/search"
	sharedConfig "github.com/faqplusplus/faqplusplus/internal/shared/config"
)

// Messenger sends outbound activities. *botframework.Connector implements it.
type Messenger interface {
	SendToConversation(ctx context.Context, serviceURL, conversationID string, activity *botframework.Activity) (*botframework.ResourceResponse, error)
	UpdateActivity(ctx context.Context, serviceURL, conversationID, activityID string, activity *botframework.Activity) error
	CreateConversation(ctx context.Context, serviceURL string, params *botframework.ConversationParameters) (*botframework.ConversationResourceResponse, error)
	GetMember(ctx context.Context, serviceURL, conversationID, memberID string) (*botframework.TeamsChannelAccount, error)
}

// Settings reads the admin configuration.
type Settings interface {
	GetScalar(ctx context.Context, key configuration.EntityType) (string, error)
	GetLanguageConfig(ctx context.Context, languageCode string) (*configuration.LanguageKBConfiguration, error)
	ListLanguageConfigs(ctx context.Context) ([]*configuration.LanguageKBConfiguration, error)
}

// KnowledgeBases resolves the knowledge base client of a language.
type KnowledgeBases interface {
	Resolve(languageCode string) (knowledgebase.Client, bool)
	Default() (string, bool)
	Languages() []sharedConfig.LanguageQnAMakerKey
}

type PreferenceReader interface {
	Execute(ctx context.Context, userObjectID string) (string, bool, error)
}

type PreferenceWriter interface {
	Execute(ctx context.Context, userObjectID, languageCode string) (*langpref.Preference, error)
}

type TicketCreator interface {
	Execute(ctx context.Context, cmd ticketUsecases.CreateTicketCommand) (*ticket.Ticket, error)
}

type TicketResponder interface {
	Execute(ctx context.Context, cmd ticketUsecases.RespondTicketCommand) (*ticketUsecases.RespondTicketResult, error)
}

type TicketReader interface {
	Execute(ctx context.Context, ticketID string) (*ticket.Ticket, error)
}

type SMECardAttacher interface {
	Execute(ctx context.Context, t *ticket.Ticket, activityID, threadConversationID string) error
}

type TicketSearcher interface {
	Search(ctx context.Context, q search.TicketQuery) ([]*ticket.Ticket, error)
}

type KnowledgeBaseSearcher interface {
	Search(ctx context.Context, languageCode, text string, count int) ([]knowledgebase.SearchEntity, error)
}
