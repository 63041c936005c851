package usecases

import (
	"context"
	"sync"

	"github.com/faqplusplus/faqplusplus/internal/domain/ticket"
)

// IDAllocator assigns the id of a new ticket and stores it.
// build receives the allocated id and returns the ticket to persist.
type IDAllocator interface {
	Allocate(ctx context.Context, build func(ticketID string) (*ticket.Ticket, error)) (*ticket.Ticket, error)
}

// CountingIDAllocator derives the id from the number of stored tickets.
// Two concurrent callers can read the same count; the later upsert wins.
type CountingIDAllocator struct {
	repo ticket.Repository
}

func NewCountingIDAllocator(repo ticket.Repository) *CountingIDAllocator {
	return &CountingIDAllocator{repo: repo}
}

func (a *CountingIDAllocator) Allocate(ctx context.Context, build func(string) (*ticket.Ticket, error)) (*ticket.Ticket, error) {
	count, err := a.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	t, err := build(ticket.NextID(count))
	if err != nil {
		return nil, err
	}
	if err := a.repo.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// SerializedIDAllocator runs count and upsert under a process-local lock,
// so one instance never hands out the same id twice.
type SerializedIDAllocator struct {
	mu    sync.Mutex
	inner *CountingIDAllocator
}

func NewSerializedIDAllocator(repo ticket.Repository) *SerializedIDAllocator {
	return &SerializedIDAllocator{inner: NewCountingIDAllocator(repo)}
}

func (a *SerializedIDAllocator) Allocate(ctx context.Context, build func(string) (*ticket.Ticket, error)) (*ticket.Ticket, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inner.Allocate(ctx, build)
}
