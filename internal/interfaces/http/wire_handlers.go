package http

import (
	bothandlers "github.com/faqplusplus/faqplusplus/internal/interfaces/http/handlers/bot"
	confighandlers "github.com/faqplusplus/faqplusplus/internal/interfaces/http/handlers/configuration"
	healthhandlers "github.com/faqplusplus/faqplusplus/internal/interfaces/http/handlers/health"
	tickethandlers "github.com/faqplusplus/faqplusplus/internal/interfaces/http/handlers/ticket"
)

type allHandlers struct {
	messageHandler *bothandlers.MessageHandler
	configHandler  *confighandlers.ConfigHandler
	ticketHandler  *tickethandlers.TicketHandler
	healthHandler  *healthhandlers.HealthHandler
}

func (c *Container) initHandlers() {
	log := c.log

	checks := []healthhandlers.Check{healthhandlers.DatabaseCheck(c.db)}
	if c.redis != nil {
		checks = append(checks, healthhandlers.RedisCheck(c.redis))
	}

	c.hdlrs = &allHandlers{
		messageHandler: bothandlers.NewMessageHandler(c.ucs.turnHandler, log.Named("bot")),
		configHandler:  confighandlers.NewConfigHandler(c.ucs.configuration, log),
		ticketHandler:  tickethandlers.NewTicketHandler(c.ucs.listTickets, c.ucs.deleteTickets, log),
		healthHandler:  healthhandlers.NewHealthHandler(checks...),
	}
}
