package http

import (
	"fmt"

	"github.com/faqplusplus/faqplusplus/internal/application/bot"
	configurationApp "github.com/faqplusplus/faqplusplus/internal/application/configuration"
	langprefUsecases "github.com/faqplusplus/faqplusplus/internal/application/langpref/usecases"
	"github.com/faqplusplus/faqplusplus/internal/application/publish"
	ticketUsecases "github.com/faqplusplus/faqplusplus/internal/application/ticket/usecases"
	"github.com/faqplusplus/faqplusplus/internal/infrastructure/scheduler"
	"github.com/faqplusplus/faqplusplus/internal/shared/services/markdown"
)

// allUseCases holds the application services the handlers and background work drive.
type allUseCases struct {
	createTicket    *ticketUsecases.CreateTicketUseCase
	respondTicket   *ticketUsecases.RespondTicketUseCase
	getTicket       *ticketUsecases.GetTicketUseCase
	listTickets     *ticketUsecases.ListTicketsUseCase
	deleteTickets   *ticketUsecases.DeleteTicketsUseCase
	attachSMECard   *ticketUsecases.AttachSMECardUseCase
	syncSearchIndex *ticketUsecases.SyncSearchIndexUseCase

	getPreference *langprefUsecases.GetPreferredLanguageUseCase
	setPreference *langprefUsecases.SetPreferredLanguageUseCase

	configuration *configurationApp.Service
	turnHandler   *bot.TurnHandler
	publishJob    *publish.Job
}

func (c *Container) initUseCases() error {
	log := c.log
	repos := c.repos

	ucs := &allUseCases{}
	ucs.createTicket = ticketUsecases.NewCreateTicketUseCase(
		ticketUsecases.NewCountingIDAllocator(repos.ticketRepo), c.eventBus, c.metrics, log.Named("ticket"))
	ucs.respondTicket = ticketUsecases.NewRespondTicketUseCase(
		repos.ticketRepo, repos.configurationRepo, c.knowledgeBases, c.eventBus, c.metrics, log.Named("ticket"))
	ucs.getTicket = ticketUsecases.NewGetTicketUseCase(repos.ticketRepo, log)
	ucs.listTickets = ticketUsecases.NewListTicketsUseCase(repos.ticketRepo, log)
	ucs.deleteTickets = ticketUsecases.NewDeleteTicketsUseCase(repos.ticketRepo, c.eventBus, c.metrics, log.Named("ticket"))
	ucs.attachSMECard = ticketUsecases.NewAttachSMECardUseCase(repos.ticketRepo, log)
	if c.ticketIndex != nil {
		ucs.syncSearchIndex = ticketUsecases.NewSyncSearchIndexUseCase(repos.ticketRepo, c.ticketIndex, log.Named("search"))
	}

	ucs.getPreference = langprefUsecases.NewGetPreferredLanguageUseCase(repos.languagePrefRepo, c.knowledgeBases, log)
	ucs.setPreference = langprefUsecases.NewSetPreferredLanguageUseCase(repos.languagePrefRepo, c.knowledgeBases, log)

	ucs.configuration = configurationApp.NewService(repos.configurationRepo, c.knowledgeBases, markdown.NewRenderer(), log.Named("configuration"))

	deps := bot.Dependencies{
		Messenger:      c.connector,
		Settings:       repos.configurationRepo,
		KnowledgeBases: c.knowledgeBases,
		GetPreference:  ucs.getPreference,
		SetPreference:  ucs.setPreference,
		CreateTicket:   ucs.createTicket,
		RespondTicket:  ucs.respondTicket,
		GetTicket:      ucs.getTicket,
		AttachSMECard:  ucs.attachSMECard,
		Bot:            c.cfg.Bot,
		Logger:         log.Named("bot"),
	}
	// Assigned only when set so the interfaces stay nil rather than typed nil.
	if c.ticketIndex != nil {
		deps.TicketSearch = c.ticketIndex
	}
	if c.kbIndex != nil {
		deps.KnowledgeBaseSearch = c.kbIndex
	}
	ucs.turnHandler = bot.NewTurnHandler(deps)

	var index publish.SearchIndex
	if c.kbIndex != nil {
		index = c.kbIndex
	}
	ucs.publishJob = publish.NewJob(c.knowledgeBases, repos.configurationRepo, c.projections, index, c.metrics, log.Named("publish"))

	schedulerManager, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	if err := schedulerManager.RegisterPublishJob(ucs.publishJob, c.cfg.Publish.Interval, c.cfg.Publish.Timeout); err != nil {
		return fmt.Errorf("failed to register publish job: %w", err)
	}
	c.schedulerManager = schedulerManager

	c.ucs = ucs
	return nil
}
