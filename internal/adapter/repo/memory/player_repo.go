package memory

import (
	"context"

	"farmstead/internal/app/ports"
	"farmstead/internal/domain/farm"
)

type PlayerRepo struct {
	store *Store
}

func NewPlayerRepo(store *Store) PlayerRepo {
	return PlayerRepo{store: store}
}

func (r PlayerRepo) GetByID(_ context.Context, playerID string) (farm.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	player, ok := r.store.players[playerID]
	if !ok {
		return farm.Player{}, ports.ErrNotFound
	}
	return player, nil
}

func (r PlayerRepo) SaveWithVersion(_ context.Context, player farm.Player, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.players[player.ID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.players[player.ID] = player
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.players[player.ID] = player
	return nil
}
