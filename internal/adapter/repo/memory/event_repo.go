package memory

import (
	"context"

	"farmstead/internal/domain/farm"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, playerID string, events []farm.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[playerID] = append(r.store.events[playerID], events...)
	return nil
}

func (r EventRepo) ListByPlayerID(_ context.Context, playerID string, limit int) ([]farm.DomainEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	events := r.store.events[playerID]
	if limit > 0 && limit < len(events) {
		events = events[:limit]
	}
	out := make([]farm.DomainEvent, len(events))
	copy(out, events)
	return out, nil
}
