package memory

import (
	"context"
	"time"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type NeighborLogRepo struct {
	store *Store
}

func NewNeighborLogRepo(store *Store) NeighborLogRepo {
	return NeighborLogRepo{store: store}
}

func (r NeighborLogRepo) Log(_ context.Context, entry ports.NeighborActionEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.neighborLog = append(r.store.neighborLog, entry)
	return nil
}

func (r NeighborLogRepo) CountOnDay(_ context.Context, actorID, ownerID string, verb farm.ActionType, day time.Time) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	dayStart := day.UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)
	count := 0
	for _, e := range r.store.neighborLog {
		if e.ActorID != actorID || e.OwnerID != ownerID || e.Verb != verb {
			continue
		}
		at := e.OccurredAt.UTC()
		if !at.Before(dayStart) && at.Before(dayEnd) {
			count++
		}
	}
	return count, nil
}

type FriendRepo struct {
	store *Store
}

func NewFriendRepo(store *Store) FriendRepo {
	return FriendRepo{store: store}
}

func (r FriendRepo) AreNeighbors(_ context.Context, playerID, otherID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.friends[friendKey(playerID, otherID)], nil
}
