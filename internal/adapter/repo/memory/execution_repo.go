package memory

import (
	"context"

	"farmstead/internal/app/ports"
)

type ActionExecutionRepo struct {
	store *Store
}

func NewActionExecutionRepo(store *Store) ActionExecutionRepo {
	return ActionExecutionRepo{store: store}
}

func (r ActionExecutionRepo) GetByIdempotencyKey(_ context.Context, playerID, key string) (*ports.ActionExecutionRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	record, ok := r.store.executions[execKey(playerID, key)]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := record
	return &out, nil
}

func (r ActionExecutionRepo) SaveExecution(_ context.Context, execution ports.ActionExecutionRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.executions[execKey(execution.PlayerID, execution.IdempotencyKey)] = execution
	return nil
}
