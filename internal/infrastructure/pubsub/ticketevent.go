package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
	"github.com/faqplusplus/faqplusplus/internal/shared/goroutine"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const ticketEventChannel = "faqplus:ticket:events"

// TicketEventBus publishes ticket events and delivers them to subscribers.
type TicketEventBus interface {
	ticket.EventPublisher
	Subscribe(ctx context.Context, handler func(event ticket.Event)) error
}

// RedisTicketEventBus fans ticket events out to every instance through Redis Pub/Sub.
type RedisTicketEventBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisTicketEventBus(client *redis.Client, logger logger.Interface) *RedisTicketEventBus {
	return &RedisTicketEventBus{client: client, logger: logger}
}

var _ TicketEventBus = (*RedisTicketEventBus)(nil)

func (b *RedisTicketEventBus) Publish(ctx context.Context, event ticket.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket event: %w", err)
	}

	if err := b.client.Publish(ctx, ticketEventChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish ticket event",
			"ticket_id", event.TicketID,
			"event_type", event.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish ticket event: %w", err)
	}

	b.logger.Debugw("ticket event published",
		"ticket_id", event.TicketID,
		"event_type", event.Type,
	)
	return nil
}

// Subscribe blocks until ctx is done, reconnecting with exponential backoff.
func (b *RedisTicketEventBus) Subscribe(ctx context.Context, handler func(event ticket.Event)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("ticket event subscription disconnected, reconnecting",
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisTicketEventBus) subscribe(ctx context.Context, handler func(event ticket.Event)) error {
	sub := b.client.Subscribe(ctx, ticketEventChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", ticketEventChannel, err)
	}
	b.logger.Infow("subscribed to ticket events", "channel", ticketEventChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("ticket event channel closed")
				return nil
			}

			var event ticket.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal ticket event", "payload", msg.Payload, "error", err)
				continue
			}
			goroutine.SafeGo(b.logger, "ticket-event-handler", func() {
				handler(event)
			})
		}
	}
}

// LocalTicketEventBus delivers events within the process. Used when Redis is disabled.
type LocalTicketEventBus struct {
	mu       sync.RWMutex
	handlers []func(event ticket.Event)
	logger   logger.Interface
}

func NewLocalTicketEventBus(logger logger.Interface) *LocalTicketEventBus {
	return &LocalTicketEventBus{logger: logger}
}

var _ TicketEventBus = (*LocalTicketEventBus)(nil)

func (b *LocalTicketEventBus) Publish(_ context.Context, event ticket.Event) error {
	b.mu.RLock()
	handlers := append([]func(ticket.Event){}, b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h := h
		goroutine.SafeGo(b.logger, "ticket-event-handler", func() {
			h(event)
		})
	}
	return nil
}

// Subscribe registers handler and blocks until ctx is done.
func (b *LocalTicketEventBus) Subscribe(ctx context.Context, handler func(event ticket.Event)) error {
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	idx := len(b.handlers) - 1
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	b.handlers[idx] = func(ticket.Event) {}
	b.mu.Unlock()
	return ctx.Err()
}
