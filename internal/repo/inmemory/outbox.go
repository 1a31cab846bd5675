package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/andreyxaxa/photo-thumbnailer/internal/entity"
	"github.com/andreyxaxa/photo-thumbnailer/pkg/types/errs"
)

type OutboxRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.OutboxEvent

	// CreateHook fails Create when it returns an error.
	CreateHook func(event *entity.OutboxEvent) error
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{events: make(map[uuid.UUID]*entity.OutboxEvent)}
}

func (r *OutboxRepo) Create(_ context.Context, event *entity.OutboxEvent) error {
	if r.CreateHook != nil {
		if err := r.CreateHook(event); err != nil {
			return fmt.Errorf("inmemory.OutboxRepo - Create: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e := *event
	r.events[event.ID] = &e

	return nil
}

func (r *OutboxRepo) GetPendingEvents(_ context.Context, limit int, maxRetries int) ([]*entity.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pending []*entity.OutboxEvent
	for _, e := range r.events {
		if e.Status == entity.OutboxPending && e.RetryCount < maxRetries {
			c := *e
			pending = append(pending, &c)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})

	if len(pending) > limit {
		pending = pending[:limit]
	}

	return pending, nil
}

func (r *OutboxRepo) MarkAsProcessingBatch(_ context.Context, IDs uuid.UUIDs) error {
	return r.update(IDs, func(e *entity.OutboxEvent) {
		e.Status = entity.OutboxProcessing
	})
}

func (r *OutboxRepo) MarkAsProcessedBatch(_ context.Context, IDs uuid.UUIDs) error {
	now := time.Now()

	return r.update(IDs, func(e *entity.OutboxEvent) {
		e.Status = entity.OutboxProcessed
		e.ProcessedAt = &now
	})
}

func (r *OutboxRepo) IncrementRetryCountBatch(_ context.Context, IDs uuid.UUIDs) error {
	return r.update(IDs, func(e *entity.OutboxEvent) {
		e.RetryCount++
		e.Status = entity.OutboxPending
	})
}

func (r *OutboxRepo) MarkMaxRetriesAsFailed(_ context.Context, maxRetries int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.Status == entity.OutboxPending && e.RetryCount >= maxRetries {
			e.Status = entity.OutboxFailed
		}
	}

	return nil
}

func (r *OutboxRepo) DeleteProcessedAndFailed(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, e := range r.events {
		if e.Status == entity.OutboxProcessed || e.Status == entity.OutboxFailed {
			delete(r.events, id)
			n++
		}
	}

	return n, nil
}

// Events returns copies of all stored events ordered by creation time.
func (r *OutboxRepo) Events() []entity.OutboxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]entity.OutboxEvent, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}

func (r *OutboxRepo) update(IDs uuid.UUIDs, f func(e *entity.OutboxEvent)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int
	for _, id := range IDs {
		if e, ok := r.events[id]; ok {
			f(e)
			n++
		}
	}

	if n == 0 {
		return errs.ErrRecordNotFound
	}

	return nil
}
