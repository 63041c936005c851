package usecases

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/domain/action"
	"github.com/faqplusplus/faqplusplus/internal/domain/configuration"
	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/goroutine"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const knowledgeBaseWriteTimeout = 30 * time.Second

type RespondTicketCommand struct {
	Response *action.TicketResponse
	Expert   ticket.Person
}

type RespondTicketResult struct {
	Ticket *ticket.Ticket
	// KnowledgeBaseWrite is closed when the background knowledge base write
	// has finished. It is nil when no write was started.
	KnowledgeBaseWrite <-chan struct{}
}

type RespondTicketUseCase struct {
	tickets  ticket.Repository
	settings KnowledgeBaseSettings
	kbs      KnowledgeBaseResolver
	events   ticket.EventPublisher
	observer TicketObserver
	logger   logger.Interface
	now      func() time.Time
}

func NewRespondTicketUseCase(
	tickets ticket.Repository,
	settings KnowledgeBaseSettings,
	kbs KnowledgeBaseResolver,
	events ticket.EventPublisher,
	observer TicketObserver,
	logger logger.Interface,
) *RespondTicketUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	return &RespondTicketUseCase{
		tickets:  tickets,
		settings: settings,
		kbs:      kbs,
		events:   events,
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute records the expert answer on the ticket. When the expert asked for
// it, the answer is also written to the knowledge base in the background;
// that write never fails the response.
func (uc *RespondTicketUseCase) Execute(ctx context.Context, cmd RespondTicketCommand) (*RespondTicketResult, error) {
	resp := cmd.Response
	if resp == nil || strings.TrimSpace(resp.TicketID) == "" {
		return nil, errors.NewValidationError("ticket id is required")
	}
	answer := resp.ResponseText()
	if answer == "" {
		return nil, errors.NewValidationError("answer is required")
	}

	t, err := uc.tickets.Get(ctx, resp.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_id", resp.TicketID, "error", err)
		return nil, err
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found", resp.TicketID)
	}

	now := uc.now()
	event := ticket.EventAnswered
	switch resp.Kind() {
	case action.KindRespond, action.KindAddRespond:
		if t.IsAnswered() {
			return nil, errors.NewConflictError("ticket is already answered", t.TicketID())
		}
		err = t.Answer(answer, cmd.Expert, now)
	case action.KindUpdateResponse:
		if t.IsAnswered() {
			event = ticket.EventUpdated
			err = t.UpdateAnswer(answer, cmd.Expert)
		} else {
			err = t.Answer(answer, cmd.Expert, now)
		}
	default:
		return nil, errors.NewValidationError("unsupported ticket action", string(resp.Kind()))
	}
	if err != nil {
		return nil, err
	}

	if err := uc.tickets.Upsert(ctx, t); err != nil {
		uc.logger.Errorw("failed to save answered ticket", "ticket_id", t.TicketID(), "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket answered",
		"ticket_id", t.TicketID(),
		"action", resp.Kind(),
		"expert", cmd.Expert.UserPrincipalName,
	)
	publishEvent(ctx, uc.events, uc.observer, uc.logger, event, t.TicketID(), now)

	result := &RespondTicketResult{Ticket: t}
	if resp.WritesToKnowledgeBase() && uc.kbs != nil {
		write := knowledgeBaseWrite{
			kind:         resp.Kind(),
			ticketID:     t.TicketID(),
			languageCode: t.LanguageCode(),
			question:     firstNonEmpty(t.UserQuestion(), t.Title()),
			kbQuestion:   t.KnowledgeBaseQuestion(),
			answer:       answer,
			expert:       cmd.Expert.Name,
			at:           now,
		}
		bg := context.WithoutCancel(ctx)
		result.KnowledgeBaseWrite = goroutine.SafeGo(uc.logger, "knowledge-base-write", func() {
			writeCtx, cancel := context.WithTimeout(bg, knowledgeBaseWriteTimeout)
			defer cancel()
			if err := uc.writeKnowledgeBase(writeCtx, write); err != nil {
				uc.logger.Errorw("failed to write answer to knowledge base",
					"ticket_id", write.ticketID,
					"language", write.languageCode,
					"error", err,
				)
			}
		})
	}
	return result, nil
}

type knowledgeBaseWrite struct {
	kind         action.Kind
	ticketID     string
	languageCode string
	question     string
	kbQuestion   string
	answer       string
	expert       string
	at           time.Time
}

func (uc *RespondTicketUseCase) writeKnowledgeBase(ctx context.Context, w knowledgeBaseWrite) error {
	lang := w.languageCode
	if lang == "" {
		lang, _ = uc.kbs.Default()
	}
	client, ok := uc.kbs.Resolve(lang)
	if !ok {
		uc.logger.Warnw("no knowledge base for ticket language", "ticket_id", w.ticketID, "language", lang)
		return nil
	}

	kbID, endpointKey, err := uc.knowledgeBaseFor(ctx, lang)
	if err != nil {
		return err
	}
	if kbID == "" {
		uc.logger.Warnw("knowledge base id is not configured", "language", lang)
		return nil
	}

	ticks := strconv.FormatInt(knowledgebase.ToTicks(w.at), 10)
	metadata := []knowledgebase.MetadataPair{
		{Name: knowledgebase.MetadataUpdatedAt, Value: ticks},
		{Name: knowledgebase.MetadataUpdatedBy, Value: w.expert},
		{Name: knowledgebase.MetadataTicketID, Value: w.ticketID},
	}

	if w.kind == action.KindAddRespond {
		return client.AddQnA(ctx, kbID, w.question, w.answer, withCreated(metadata, ticks, w.expert))
	}

	var existing *knowledgebase.Answer
	if lookup := firstNonEmpty(w.kbQuestion, w.question); lookup != "" && endpointKey != "" {
		existing, err = client.GenerateAnswer(ctx, kbID, endpointKey, lookup)
		if err != nil {
			return err
		}
	}
	if existing == nil {
		return client.AddQnA(ctx, kbID, w.question, w.answer, withCreated(metadata, ticks, w.expert))
	}

	answer := w.answer
	if w.kind == action.KindRespond {
		answer = existing.Answer + "\n\n" + w.answer
	}
	return client.UpdateQnA(ctx, kbID, existing.ID, w.question, answer, metadata)
}

// knowledgeBaseFor prefers the language binding and falls back to the global knowledge base id.
func (uc *RespondTicketUseCase) knowledgeBaseFor(ctx context.Context, lang string) (string, string, error) {
	var kbID, endpointKey string
	if uc.settings == nil {
		return "", "", nil
	}
	cfg, err := uc.settings.GetLanguageConfig(ctx, lang)
	if err != nil {
		return "", "", err
	}
	if cfg != nil {
		kbID, endpointKey = cfg.KnowledgeBaseID, cfg.QnAMakerEndpointKey
	}
	if kbID == "" {
		kbID, err = uc.settings.GetScalar(ctx, configuration.KnowledgeBaseID)
		if err != nil {
			return "", "", err
		}
	}
	return kbID, endpointKey, nil
}

func withCreated(metadata []knowledgebase.MetadataPair, ticks, by string) []knowledgebase.MetadataPair {
	return append([]knowledgebase.MetadataPair{
		{Name: knowledgebase.MetadataCreatedAt, Value: ticks},
		{Name: knowledgebase.MetadataCreatedBy, Value: by},
	}, metadata...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
